// Package links finds documentation links embedded in comments and decides
// whether the code they annotate drifted in a diff.
package links

import (
	"regexp"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/diff"
	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/types"
)

var (
	schemeURL = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^\s/?#]+\.[^\s/?#]+([/?#]\S*)?$|^[a-zA-Z][a-zA-Z0-9+.-]*://localhost(:\d+)?([/?#]\S*)?$`)
	bareURL   = regexp.MustCompile(`^(www\.)?([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(:\d+)?([/?#]\S*)?$`)
	email     = regexp.MustCompile(`^(mailto:)?[a-zA-Z0-9._%+-]+@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}$`)
)

// CheckIfURL reports whether s looks like a URL or an e-mail address.
func CheckIfURL(s string) bool {
	if s == "" {
		return false
	}
	return schemeURL.MatchString(s) || bareURL.MatchString(s) || email.MatchString(s)
}

// FindURL returns the first whitespace separated token of text that is a URL.
func FindURL(text string) (string, bool) {
	for _, token := range strings.Fields(text) {
		token = strings.Trim(token, `<>()[]"'`)
		if CheckIfURL(token) {
			return token, true
		}
	}
	return "", false
}

// GetLineRange locates the first occurrence of substring in content. The
// lookup is textual, so repeated text always resolves to its first copy.
func GetLineRange(content, substring string) types.LineRange {
	idx := strings.Index(content, substring)
	if idx < 0 {
		idx = 0
	}
	start := strings.Count(content[:idx], "\n") + 1
	return types.LineRange{Start: start, End: start + strings.Count(substring, "\n")}
}

// FileRange spans every line of content.
func FileRange(content string) types.LineRange {
	return types.LineRange{Start: 1, End: strings.Count(content, "\n") + 1}
}

// GetLinks walks root in preorder and returns the links whose annotated code
// changed without the comment changing, and the links the diff introduced.
func GetLinks(root *types.TreeNode, content string, changes []types.Change, adapter languages.Adapter) []types.Link {
	if root == nil {
		return nil
	}
	var out []types.Link
	walk(root, root, content, changes, adapter, &out)
	return out
}

func walk(node, root *types.TreeNode, content string, changes []types.Change, adapter languages.Adapter, out *[]types.Link) {
	for i, child := range node.Children {
		if i+1 < len(node.Children) {
			if link, ok := linkFor(node, i, root, content, changes, adapter); ok {
				*out = append(*out, link)
			}
		}
		walk(child, root, content, changes, adapter, out)
	}
}

func linkFor(parent *types.TreeNode, i int, root *types.TreeNode, content string, changes []types.Change, adapter languages.Adapter) (types.Link, bool) {
	comment := parent.Children[i]
	text, ok := adapter.ExtractComment(comment)
	if !ok {
		return types.Link{}, false
	}
	url, ok := FindURL(text)
	if !ok {
		return types.Link{}, false
	}

	linkType := types.LinkLines
	var annotated types.LineRange
	if parent == root && i == 0 {
		linkType = types.LinkFile
		annotated = FileRange(content)
	} else {
		annotated = GetLineRange(content, parent.Children[i+1].Value)
	}

	commentRange := GetLineRange(content, comment.Value)
	commentChanges := diff.ChangesIn(changes, commentRange)
	didChange := len(commentChanges) == 0 && len(diff.ChangesIn(changes, annotated)) > 0

	isNew := false
	for _, c := range commentChanges {
		if c.Type == types.ChangeAdd {
			isNew = true
			break
		}
	}

	switch {
	case didChange:
		return types.Link{URL: url, LineRange: annotated, Type: linkType}, true
	case isNew:
		return types.Link{URL: url, LineRange: commentRange, Type: types.LinkNew}, true
	}
	return types.Link{}, false
}
