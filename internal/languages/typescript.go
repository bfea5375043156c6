package languages

import (
	"strings"

	"github.com/lawndlwd/doc-drift/internal/types"
)

type typescriptAdapter struct {
	ruleAdapter
}

var declarationKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"method_definition":              true,
	"abstract_method_signature":      true,
	"type_alias_declaration":         true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"interface_declaration":          true,
}

// FileSkeleton collects every comment that directly precedes a declaration,
// at any depth, plus the leading file comment if it documents nothing.
func (a typescriptAdapter) FileSkeleton(root *types.TreeNode) types.FileSkeleton {
	fs := types.FileSkeleton{Skeletons: []types.Skeleton{}}
	if root == nil {
		return fs
	}

	if len(root.Children) > 0 {
		first := root.Children[0]
		if _, ok := a.ExtractComment(first); ok {
			var next *types.TreeNode
			if len(root.Children) > 1 {
				next = root.Children[1]
			}
			if declarationOf(next) == nil {
				fs.TopComment = CleanDoc(first.Value)
			}
		}
	}

	a.walk(root, &fs.Skeletons)
	return fs
}

func (a typescriptAdapter) walk(node *types.TreeNode, out *[]types.Skeleton) {
	for i, child := range node.Children {
		if i+1 < len(node.Children) && child.Kind == "comment" {
			if decl := declarationOf(node.Children[i+1]); decl != nil {
				if sig := signature(decl); sig != "" {
					*out = append(*out, types.Skeleton{
						Signature: sig,
						Doc:       CleanDoc(child.Value),
						RawDoc:    child.Value,
						LineRange: types.LineRange{Start: decl.StartLine, End: decl.EndLine},
					})
				}
			}
		}
		a.walk(child, out)
	}
}

// declarationOf unwraps export statements and returns node when it has a
// shape that gets a skeleton.
func declarationOf(node *types.TreeNode) *types.TreeNode {
	if node == nil {
		return nil
	}
	if node.Kind == "export_statement" {
		for _, c := range node.Children {
			if c.Kind != "decorator" && c.Kind != "comment" {
				return declarationOf(c)
			}
		}
		return nil
	}
	if declarationKinds[node.Kind] {
		return node
	}
	if node.Kind == "lexical_declaration" || node.Kind == "variable_declaration" {
		if d := child(node, "variable_declarator"); d != nil && functionValue(d) != nil {
			return node
		}
	}
	return nil
}

func functionValue(declarator *types.TreeNode) *types.TreeNode {
	for _, c := range declarator.Children {
		if c.Kind == "arrow_function" || c.Kind == "function_expression" || c.Kind == "function" {
			return c
		}
	}
	return nil
}

func signature(decl *types.TreeNode) string {
	switch decl.Kind {
	case "lexical_declaration", "variable_declaration":
		d := child(decl, "variable_declarator")
		name := child(d, "identifier")
		fn := functionValue(d)
		if name == nil || fn == nil {
			return ""
		}
		return name.Value + callSignature(fn)
	case "function_declaration", "generator_function_declaration":
		name := child(decl, "identifier")
		if name == nil {
			return ""
		}
		return name.Value + callSignature(decl)
	case "method_definition", "abstract_method_signature":
		name := child(decl, "property_identifier", "private_property_identifier", "computed_property_name", "string", "number")
		if name == nil {
			return ""
		}
		return name.Value + callSignature(decl)
	default:
		name := child(decl, "type_identifier", "identifier")
		if name == nil {
			return ""
		}
		return name.Value + valueOf(child(decl, "type_parameters"))
	}
}

// callSignature renders type parameters, parameters and the return type
// annotation of a function-like node.
func callSignature(fn *types.TreeNode) string {
	var b strings.Builder
	b.WriteString(valueOf(child(fn, "type_parameters")))
	if params := child(fn, "formal_parameters"); params != nil {
		b.WriteString(params.Value)
	} else if id := child(fn, "identifier"); id != nil && fn.Kind == "arrow_function" {
		b.WriteString("(" + id.Value + ")")
	} else {
		b.WriteString("()")
	}
	b.WriteString(valueOf(child(fn, "type_annotation")))
	return b.String()
}

func child(node *types.TreeNode, kinds ...string) *types.TreeNode {
	if node == nil {
		return nil
	}
	for _, c := range node.Children {
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

func valueOf(node *types.TreeNode) string {
	if node == nil {
		return ""
	}
	return node.Value
}

// CleanDoc strips comment delimiters and the leading asterisk of each line.
func CleanDoc(raw string) string {
	text := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimPrefix(text, "/**")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	case strings.HasPrefix(text, "//"):
		text = strings.TrimPrefix(text, "//")
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// RenderDoc formats doc as a block comment indented by indent.
func RenderDoc(doc, indent string) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		b.WriteString(indent + " *")
		if line = strings.TrimSpace(line); line != "" {
			b.WriteString(" " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(indent + " */")
	return b.String()
}
