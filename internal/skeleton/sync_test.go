package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawndlwd/doc-drift/internal/types"
)

func TestUpdateCode(t *testing.T) {
	code := "class A {\n  /**\n   * Old doc.\n   */\n  run(): void {}\n}\n"
	codeFS := types.FileSkeleton{Skeletons: []types.Skeleton{{
		Signature: "run(): void",
		Doc:       "Old doc.",
		RawDoc:    "/**\n   * Old doc.\n   */",
	}}}
	mdFS := types.FileSkeleton{Skeletons: []types.Skeleton{{
		Signature: "run(): void",
		Doc:       "New doc.\nSecond line.",
	}}}

	got := UpdateCode(code, codeFS, mdFS)

	assert.Equal(t, "class A {\n  /**\n   * New doc.\n   * Second line.\n   */\n  run(): void {}\n}\n", got)
}

func TestUpdateCode_Unchanged(t *testing.T) {
	code := "/** Same. */\nfunction f() {}\n"
	fs := types.FileSkeleton{Skeletons: []types.Skeleton{{Signature: "f()", Doc: "Same.", RawDoc: "/** Same. */"}}}
	other := types.FileSkeleton{Skeletons: []types.Skeleton{{Signature: "g()", Doc: "Other."}}}

	assert.Equal(t, code, UpdateCode(code, fs, types.FileSkeleton{Skeletons: []types.Skeleton{{Signature: "f()", Doc: "Same."}}}))
	assert.Equal(t, code, UpdateCode(code, fs, other))
}

func TestUpdateCode_EmptyMarkdownDocKeepsComment(t *testing.T) {
	code := "/** Keep me. */\nfunction f() {}\n"
	codeFS := types.FileSkeleton{Skeletons: []types.Skeleton{{Signature: "f()", Doc: "Keep me.", RawDoc: "/** Keep me. */"}}}
	mdFS := FromMarkdown("### [f()](u#L2-L2)\n")

	assert.Equal(t, code, UpdateCode(code, codeFS, mdFS))
}

func TestUpdateMarkdown_DocChanged(t *testing.T) {
	md := "# a.ts\n\nIntro kept verbatim.\n\n### [f()](u#L1-L1)\n\nOld.\n\n### [g()](u#L3-L3)\n\nG doc.\n"
	codeFS := types.FileSkeleton{Skeletons: []types.Skeleton{
		{Signature: "f()", Doc: "New.", URL: "u#L1-L1"},
		{Signature: "g()", Doc: "G doc.", URL: "u#L3-L3"},
	}}

	got := UpdateMarkdown(md, codeFS, FromMarkdown(md))

	assert.Equal(t, "# a.ts\n\nIntro kept verbatim.\n\n### [f()](u#L1-L1)\n\nNew.\n\n### [g()](u#L3-L3)\n\nG doc.\n", got)
}

func TestUpdateMarkdown_RenameAndAppend(t *testing.T) {
	md := "# a.ts\n\n### [oldName()](u#L1-L2)\n\nDoes things.\n"
	codeFS := types.FileSkeleton{Skeletons: []types.Skeleton{
		{Signature: "newName()", Doc: "Does things.", URL: "u#L1-L2"},
		{Signature: "extra(x: number)", Doc: "Extra.", URL: "u#L5-L6"},
	}}

	got := UpdateMarkdown(md, codeFS, FromMarkdown(md))

	assert.Equal(t, "# a.ts\n\n### [newName()](u#L1-L2)\n\nDoes things.\n\n### [extra(x: number)](u#L5-L6)\n\nExtra.\n", got)
}

func TestUpdateMarkdown_LineRangeMoved(t *testing.T) {
	md := "### [f()](u#L1-L1)\n\nDoc.\n"
	codeFS := types.FileSkeleton{Skeletons: []types.Skeleton{{Signature: "f()", Doc: "Doc.", URL: "u#L4-L4"}}}

	got := UpdateMarkdown(md, codeFS, FromMarkdown(md))

	assert.Equal(t, "### [f()](u#L4-L4)\n\nDoc.\n", got)
}

func TestUpdateMarkdown_TopComment(t *testing.T) {
	md := "---\ndescription: Old\n---\n\n# a.ts\n"
	codeFS := types.FileSkeleton{TopComment: "New"}

	got := UpdateMarkdown(md, codeFS, FromMarkdown(md))

	assert.Equal(t, "---\ndescription: New\n---\n\n# a.ts\n", got)
}
