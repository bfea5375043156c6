package types

// TreeNode is a grammar-independent syntax node. Value is the raw source
// slice the node spans; Children holds the named children only.
type TreeNode struct {
	Kind      string
	Value     string
	Start     int
	End       int
	StartLine int
	EndLine   int
	IsError   bool
	Children  []*TreeNode
}

// Skeleton summarises one documented declaration.
type Skeleton struct {
	Signature string    `json:"signature"`
	Doc       string    `json:"doc"`
	RawDoc    string    `json:"rawDoc"`
	LineRange LineRange `json:"lineRange"`
	URL       string    `json:"url,omitempty"`
}

type FileSkeleton struct {
	TopComment string     `json:"topComment"`
	Skeletons  []Skeleton `json:"skeletons"`
	Filename   string     `json:"filename,omitempty"`
}
