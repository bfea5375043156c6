package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/types"
)

func TestCheckIfURL(t *testing.T) {
	accepted := []string{
		"google.com",
		"www.google.com",
		"https://google.com",
		"http://localhost:8080/docs",
		"https://www.notion.so/team/Page-1234?pvs=4",
		"docs.example.com/guide#setup",
		"someone@example.com",
	}
	for _, s := range accepted {
		assert.True(t, CheckIfURL(s), s)
	}

	rejected := []string{"", "what", "e.g.", "https://", "hello world"}
	for _, s := range rejected {
		assert.False(t, CheckIfURL(s), s)
	}
}

func TestFindURL(t *testing.T) {
	url, ok := FindURL("see <https://docs.example.com/a> for details")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.example.com/a", url)

	_, ok = FindURL("nothing to see here")
	assert.False(t, ok)
}

func TestGetLineRange(t *testing.T) {
	content := "line one\n// dup\nline three\n// dup\nfunc() {\n}\n"

	assert.Equal(t, types.LineRange{Start: 1, End: 1}, GetLineRange(content, "line one"))
	assert.Equal(t, types.LineRange{Start: 5, End: 6}, GetLineRange(content, "func() {\n}"))
	// repeated text resolves to the first copy
	assert.Equal(t, types.LineRange{Start: 2, End: 2}, GetLineRange(content, "// dup"))
	assert.Equal(t, types.LineRange{Start: 1, End: 1}, GetLineRange(content, "missing"))
}

func TestFileRange(t *testing.T) {
	assert.Equal(t, types.LineRange{Start: 1, End: 3}, FileRange("a\nb\nc"))
	assert.Equal(t, types.LineRange{Start: 1, End: 1}, FileRange(""))
}

const src = `// https://docs.example.com/overview
import { x } from "./x";

// unrelated comment
const a = 1;

// see https://docs.example.com/add
function add(a: number, b: number) {
  return a + b;
}

// https://docs.example.com/sub
function sub(a: number, b: number) {
  return a - b;
}
`

func parse(t *testing.T, content string) *types.TreeNode {
	t.Helper()
	tree, err := parser.New().Parse(context.Background(), content, languages.TypeScript)
	require.NoError(t, err)
	return tree.Root
}

func TestGetLinks_CodeChanged(t *testing.T) {
	root := parse(t, src)
	changes := []types.Change{{Type: types.ChangeAdd, Line: 9, Content: "  return a + b;"}}

	got := GetLinks(root, src, changes, languages.Lookup(languages.TypeScript))

	assert.Equal(t, []types.Link{
		{URL: "https://docs.example.com/overview", LineRange: types.LineRange{Start: 1, End: 16}, Type: types.LinkFile},
		{URL: "https://docs.example.com/add", LineRange: types.LineRange{Start: 8, End: 10}, Type: types.LinkLines},
	}, got)
}

func TestGetLinks_CommentEditedWithCode(t *testing.T) {
	root := parse(t, src)
	changes := []types.Change{
		{Type: types.ChangeAdd, Line: 7, Content: "// see https://docs.example.com/add"},
		{Type: types.ChangeAdd, Line: 9, Content: "  return a + b;"},
	}

	got := GetLinks(root, src, changes, languages.Lookup(languages.TypeScript))

	require.Len(t, got, 2)
	assert.Equal(t, types.LinkFile, got[0].Type)
	assert.Equal(t, types.Link{
		URL:       "https://docs.example.com/add",
		LineRange: types.LineRange{Start: 7, End: 7},
		Type:      types.LinkNew,
	}, got[1])
}

func TestGetLinks_CommentDeletedLineIsDropped(t *testing.T) {
	root := parse(t, src)
	changes := []types.Change{
		{Type: types.ChangeDelete, Line: 12, Content: "// old link"},
		{Type: types.ChangeAdd, Line: 14, Content: "  return a - b;"},
	}

	got := GetLinks(root, src, changes, languages.Lookup(languages.TypeScript))

	// the sub link comment carries a change so it is neither drift nor new
	require.Len(t, got, 1)
	assert.Equal(t, "https://docs.example.com/overview", got[0].URL)
}

func TestGetLinks_NoChanges(t *testing.T) {
	root := parse(t, src)
	assert.Empty(t, GetLinks(root, src, nil, languages.Lookup(languages.TypeScript)))
}

func TestGetLinks_UnsupportedLanguage(t *testing.T) {
	root := parse(t, src)
	changes := []types.Change{{Type: types.ChangeAdd, Line: 9}}
	assert.Empty(t, GetLinks(root, src, changes, languages.Lookup("cobol")))
}

func TestGetLinks_LastChildCommentIgnored(t *testing.T) {
	root := &types.TreeNode{Kind: "program", Children: []*types.TreeNode{
		{Kind: "expression_statement", Value: "a();"},
		{Kind: "comment", Value: "// https://trailing.example.com"},
	}}
	content := "a();\n// https://trailing.example.com"
	changes := []types.Change{{Type: types.ChangeAdd, Line: 2}}

	assert.Empty(t, GetLinks(root, content, changes, languages.Lookup(languages.JavaScript)))
}

func TestGetLinks_PreorderSelfBeforeChildren(t *testing.T) {
	content := "// https://outer.example.com\nclass A {\n  // https://inner.example.com\n  m() {}\n}"
	inner := &types.TreeNode{Kind: "class_body", Value: "{\n  // https://inner.example.com\n  m() {}\n}", Children: []*types.TreeNode{
		{Kind: "comment", Value: "// https://inner.example.com"},
		{Kind: "method_definition", Value: "m() {}"},
	}}
	root := &types.TreeNode{Kind: "program", Children: []*types.TreeNode{
		{Kind: "comment", Value: "// https://outer.example.com"},
		{Kind: "class_declaration", Value: "class A {\n  // https://inner.example.com\n  m() {}\n}", Children: []*types.TreeNode{inner}},
	}}
	changes := []types.Change{{Type: types.ChangeDelete, Line: 4}}

	got := GetLinks(root, content, changes, languages.Lookup(languages.JavaScript))

	require.Len(t, got, 2)
	assert.Equal(t, "https://outer.example.com", got[0].URL)
	assert.Equal(t, types.LinkFile, got[0].Type)
	assert.Equal(t, "https://inner.example.com", got[1].URL)
	assert.Equal(t, types.LineRange{Start: 4, End: 4}, got[1].LineRange)
}
