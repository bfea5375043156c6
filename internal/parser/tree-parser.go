package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/lawndlwd/doc-drift/internal/types"
)

// convert copies a Tree-sitter node and its named children into a TreeNode
// so the result outlives the Tree-sitter tree.
func convert(node *tree_sitter.Node, source []byte) *types.TreeNode {
	start, end := int(node.StartByte()), int(node.EndByte())
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		start = end
	}

	tn := &types.TreeNode{
		Kind:      node.Kind(),
		Value:     string(source[start:end]),
		Start:     start,
		End:       end,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		IsError:   node.IsError() || node.IsMissing(),
	}

	count := node.NamedChildCount()
	if count == 0 {
		return tn
	}
	tn.Children = make([]*types.TreeNode, 0, count)
	for i := uint(0); i < count; i++ {
		c := node.NamedChild(i)
		if c == nil {
			continue
		}
		tn.Children = append(tn.Children, convert(c, source))
	}
	return tn
}
