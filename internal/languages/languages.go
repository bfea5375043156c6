// Package languages maps language identifiers to comment and declaration
// extractors over the generic syntax tree.
package languages

import (
	"path/filepath"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/types"
)

const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	TSX        = "tsx"
	Go         = "go"
	C          = "c"
	CPP        = "cpp"
	CSharp     = "csharp"
	Java       = "java"
	Kotlin     = "kotlin"
	Swift      = "swift"
	Rust       = "rust"
	Python     = "python"
	Dart       = "dart"
	PHP        = "php"
	Ruby       = "ruby"
)

// Adapter recognises comment nodes of one language. ExtractComment returns
// the comment text with delimiters stripped, or false if node is not a comment.
type Adapter interface {
	ExtractComment(node *types.TreeNode) (string, bool)
}

// SkeletonAdapter is implemented by adapters that can summarise documented
// declarations.
type SkeletonAdapter interface {
	Adapter
	FileSkeleton(root *types.TreeNode) types.FileSkeleton
}

// Formatter is implemented by adapters whose grammar needs the source
// rewritten before parsing. Format must not change line numbering.
type Formatter interface {
	Format(content string) string
}

var registry = map[string]Adapter{
	JavaScript: braceAdapter("comment"),
	TypeScript: typescriptAdapter{braceAdapter("comment")},
	TSX:        typescriptAdapter{braceAdapter("comment")},
	Go:         braceAdapter("comment"),
	C:          braceAdapter("comment"),
	CPP:        braceAdapter("comment"),
	CSharp:     braceAdapter("comment"),
	Java:       braceAdapter("line_comment", "block_comment"),
	Kotlin:     braceAdapter("line_comment", "multiline_comment"),
	Swift:      braceAdapter("comment", "multiline_comment"),
	Rust:       rustAdapter,
	Python:     pythonAdapter,
	Dart:       dartAdapter,
	PHP:        phpAdapter{phpRules},
	Ruby:       rubyAdapter,
}

var extensions = map[string]string{
	".js":    JavaScript,
	".jsx":   JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".mts":   TypeScript,
	".cts":   TypeScript,
	".tsx":   TSX,
	".go":    Go,
	".c":     C,
	".h":     C,
	".cc":    CPP,
	".cpp":   CPP,
	".cxx":   CPP,
	".hpp":   CPP,
	".hh":    CPP,
	".cs":    CSharp,
	".java":  Java,
	".kt":    Kotlin,
	".kts":   Kotlin,
	".swift": Swift,
	".rs":    Rust,
	".py":    Python,
	".pyi":   Python,
	".dart":  Dart,
	".php":   PHP,
	".rb":    Ruby,
}

type noopAdapter struct{}

func (noopAdapter) ExtractComment(*types.TreeNode) (string, bool) { return "", false }

// Lookup returns the adapter for lang. Unknown identifiers get an adapter
// that never recognises a comment.
func Lookup(lang string) Adapter {
	if a, ok := registry[normalize(lang)]; ok {
		return a
	}
	return noopAdapter{}
}

// Supported reports whether lang has a registered adapter.
func Supported(lang string) bool {
	_, ok := registry[normalize(lang)]
	return ok
}

// Detect maps a file name to a language identifier, or "" when unknown.
func Detect(filename string) string {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "js", "jsx":
		return JavaScript
	case "ts":
		return TypeScript
	case "golang":
		return Go
	case "c++":
		return CPP
	case "c#", "cs":
		return CSharp
	case "py":
		return Python
	case "rb":
		return Ruby
	case "kt":
		return Kotlin
	case "rs":
		return Rust
	}
	return lang
}
