package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawndlwd/doc-drift/internal/types"
)

func node(kind, value string, children ...*types.TreeNode) *types.TreeNode {
	return &types.TreeNode{Kind: kind, Value: value, Children: children}
}

func TestExtractComment(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		node   *types.TreeNode
		want   string
		wantOK bool
	}{
		{"js line", JavaScript, node("comment", "// see https://a.io"), "see https://a.io", true},
		{"ts block", TypeScript, node("comment", "/* docs.io */"), "docs.io", true},
		{"go line", Go, node("comment", "// https://go.dev"), "https://go.dev", true},
		{"java block", Java, node("block_comment", "/* x.io */"), "x.io", true},
		{"java line", Java, node("line_comment", "// y.io"), "y.io", true},
		{"kotlin multiline", Kotlin, node("multiline_comment", "/* k.io */"), "k.io", true},
		{"rust line", Rust, node("line_comment", "// r.io"), "r.io", true},
		{"rust block ignored", Rust, node("block_comment", "/* r.io */"), "", false},
		{"python hash", Python, node("comment", "# p.io"), "p.io", true},
		{"python docstring", Python, node("expression_statement", `"""doc p.io"""`, node("string", `"""doc p.io"""`)), "doc p.io", true},
		{"python single quoted docstring", Python, node("expression_statement", "'''q.io'''", node("string", "'''q.io'''")), "q.io", true},
		{"python plain string statement", Python, node("expression_statement", `"p.io"`, node("string", `"p.io"`)), "", false},
		{"python call statement", Python, node("expression_statement", `f("""x""")`, node("call", `f("""x""")`)), "", false},
		{"dart doc", Dart, node("documentation_comment", "/// d.io"), "d.io", true},
		{"dart line", Dart, node("comment", "// d.io"), "d.io", true},
		{"dart block", Dart, node("comment", "/* d.io */"), "d.io", true},
		{"php hash", PHP, node("comment", "# h.io"), "h.io", true},
		{"php slashes", PHP, node("comment", "// h.io"), "h.io", true},
		{"php block", PHP, node("comment", "/* h.io */"), "h.io", true},
		{"ruby hash", Ruby, node("comment", "# rb.io"), "rb.io", true},
		{"ruby begin", Ruby, node("comment", "=begin\nrb.io\n=end"), "rb.io", true},
		{"not a comment", JavaScript, node("identifier", "foo"), "", false},
		{"unknown language", "cobol", node("comment", "// x.io"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.lang).ExtractComment(tt.node)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractComment_Nil(t *testing.T) {
	_, ok := Lookup(TypeScript).ExtractComment(nil)
	assert.False(t, ok)
}

func TestLookupAliases(t *testing.T) {
	assert.True(t, Supported("TypeScript"))
	assert.True(t, Supported("golang"))
	assert.True(t, Supported("c++"))
	assert.False(t, Supported("cobol"))

	_, isSkeleton := Lookup("ts").(SkeletonAdapter)
	assert.True(t, isSkeleton)
	_, isSkeleton = Lookup(Python).(SkeletonAdapter)
	assert.False(t, isSkeleton)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, TypeScript, Detect("src/app.ts"))
	assert.Equal(t, TSX, Detect("src/App.TSX"))
	assert.Equal(t, Python, Detect("tools/run.py"))
	assert.Equal(t, PHP, Detect("index.php"))
	assert.Equal(t, "", Detect("README.md"))
	assert.Equal(t, "", Detect("Makefile"))
}

func TestPHPFormat(t *testing.T) {
	f, ok := Lookup(PHP).(Formatter)
	assert.True(t, ok)

	assert.Equal(t, "<?php echo 1;\necho 2; ?>", f.Format("echo 1;\necho 2;"))
	assert.Equal(t, "<?php\necho 1;", f.Format("<?php\necho 1;"))
}
