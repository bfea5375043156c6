package languages

import (
	"strings"

	"github.com/lawndlwd/doc-drift/internal/types"
)

// delimiter strips front and back bytes from a comment starting with prefix.
type delimiter struct {
	prefix string
	front  int
	back   int
}

// rule applies to nodes of the listed kinds. Delimiters are tried in order,
// so longer prefixes must come first.
type rule struct {
	kinds     []string
	delims    []delimiter
	docstring bool
}

type ruleAdapter []rule

var (
	lineComment  = delimiter{"//", 2, 0}
	blockComment = delimiter{"/*", 2, 2}
)

func braceAdapter(kinds ...string) ruleAdapter {
	return ruleAdapter{{kinds: kinds, delims: []delimiter{blockComment, lineComment}}}
}

var rustAdapter = ruleAdapter{
	{kinds: []string{"line_comment"}, delims: []delimiter{lineComment}},
}

var pythonAdapter = ruleAdapter{
	{kinds: []string{"comment"}, delims: []delimiter{{"#", 1, 0}}},
	{
		kinds:     []string{"expression_statement"},
		delims:    []delimiter{{`"""`, 3, 3}, {"'''", 3, 3}},
		docstring: true,
	},
}

var dartAdapter = ruleAdapter{
	{
		kinds:  []string{"comment", "documentation_comment"},
		delims: []delimiter{{"///", 3, 0}, lineComment, blockComment},
	},
}

var phpRules = ruleAdapter{
	{kinds: []string{"comment"}, delims: []delimiter{{"#", 1, 0}, lineComment, blockComment}},
}

var rubyAdapter = ruleAdapter{
	{kinds: []string{"comment"}, delims: []delimiter{{"=begin", 6, 4}, {"#", 1, 0}}},
}

func (a ruleAdapter) ExtractComment(node *types.TreeNode) (string, bool) {
	if node == nil {
		return "", false
	}
	for _, r := range a {
		if !r.matches(node) {
			continue
		}
		for _, d := range r.delims {
			if text, ok := d.strip(node.Value); ok {
				return text, true
			}
		}
	}
	return "", false
}

func (r rule) matches(node *types.TreeNode) bool {
	found := false
	for _, k := range r.kinds {
		if node.Kind == k {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if r.docstring {
		return len(node.Children) == 1 && node.Children[0].Kind == "string"
	}
	return true
}

func (d delimiter) strip(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, d.prefix) || len(value) < d.front+d.back {
		return "", false
	}
	return strings.TrimSpace(value[d.front : len(value)-d.back]), true
}

type phpAdapter struct {
	ruleAdapter
}

// Format wraps fragments lacking an opening tag. The tags are added on the
// first and last lines so line numbers stay those of the original content.
func (phpAdapter) Format(content string) string {
	if strings.HasPrefix(strings.TrimLeft(content, " \t\r\n"), "<?") {
		return content
	}
	return "<?php " + content + " ?>"
}
