package types

type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeDelete ChangeType = "delete"
)

// Change is one added or removed physical line of a hunk. Line is numbered
// on its own side: old file for deletes, new file for adds.
type Change struct {
	Type    ChangeType `json:"type"`
	Line    int        `json:"line"`
	Content string     `json:"content"`
}

// LineRange is an inclusive, 1-based line span. End < Start marks an empty range.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

type PatchLineRange struct {
	MinusRange LineRange `json:"minusRange"`
	AddRange   LineRange `json:"addRange"`
}

type Side string

const (
	SideLeft  Side = "LEFT"
	SideRight Side = "RIGHT"
)

type LineSide struct {
	Line int  `json:"line"`
	Side Side `json:"side"`
}

// RangeWithSide anchors a multi-line review comment on the two-column diff view.
type RangeWithSide struct {
	Start LineSide `json:"start"`
	End   LineSide `json:"end"`
}

type LinkType string

const (
	LinkFile  LinkType = "file"
	LinkLines LinkType = "lines"
	LinkNew   LinkType = "new"
)

type Link struct {
	URL       string    `json:"url"`
	LineRange LineRange `json:"lineRange"`
	Type      LinkType  `json:"type"`
}

type Alert struct {
	Link
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type FileChange struct {
	Filename        string           `json:"filename" binding:"required"`
	Content         string           `json:"content"`
	Changes         []Change         `json:"changes"`
	Patch           string           `json:"patch,omitempty"`
	PatchLineRanges []PatchLineRange `json:"patchLineRanges,omitempty"`
}

type CodeFile struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content"`
}

// ReviewComment is a review comment already posted on a pull request.
type ReviewComment struct {
	Body string `json:"body"`
	Path string `json:"path"`
}
