// Package parser provides Tree-sitter based parsing into the generic
// syntax tree consumed by link and skeleton extraction.
package parser

import (
	"context"
	"errors"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/types"
)

var (
	// ErrUnsupportedLanguage is returned when no grammar is linked for a language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrParseFailed is returned when the grammar engine produced no tree.
	ErrParseFailed = errors.New("parse failed")
)

// Tree is a parsed file.
type Tree struct {
	Root     *types.TreeNode
	HasError bool
}

// Parser holds the grammar table. Tree-sitter parsers are created per call,
// so a Parser is safe for concurrent use.
type Parser struct {
	grammars map[string]*tree_sitter.Language
}

// New creates a Parser with every linked grammar loaded.
func New() *Parser {
	load := tree_sitter.NewLanguage
	return &Parser{
		grammars: map[string]*tree_sitter.Language{
			languages.JavaScript: load(tree_sitter_javascript.Language()),
			languages.TypeScript: load(tree_sitter_typescript.LanguageTypescript()),
			languages.TSX:        load(tree_sitter_typescript.LanguageTSX()),
			languages.Python:     load(tree_sitter_python.Language()),
			languages.Go:         load(tree_sitter_go.Language()),
			languages.C:          load(tree_sitter_c.Language()),
			languages.CPP:        load(tree_sitter_cpp.Language()),
			languages.Java:       load(tree_sitter_java.Language()),
			languages.Rust:       load(tree_sitter_rust.Language()),
			languages.PHP:        load(tree_sitter_php.LanguagePHP()),
		},
	}
}

// Supports reports whether a grammar is linked for lang.
func (p *Parser) Supports(lang string) bool {
	_, ok := p.grammars[lang]
	return ok
}

// Format applies the language's pre-parse rewrite, if any.
func (p *Parser) Format(content, lang string) string {
	if f, ok := languages.Lookup(lang).(languages.Formatter); ok {
		return f.Format(content)
	}
	return content
}

// Parse parses already formatted content. Engine panics are recovered and
// reported as ErrParseFailed.
func (p *Parser) Parse(ctx context.Context, content, lang string) (tree *Tree, err error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	grammar, ok := p.grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	defer func() {
		if r := recover(); r != nil {
			tree, err = nil, fmt.Errorf("%w: %v", ErrParseFailed, r)
		}
	}()

	tsParser := tree_sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	source := []byte(content)
	tsTree := tsParser.Parse(source, nil)
	if tsTree == nil {
		return nil, ErrParseFailed
	}
	defer tsTree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tsTree.RootNode()
	if root == nil {
		return nil, ErrParseFailed
	}
	return &Tree{
		Root:     convert(root, source),
		HasError: root.HasError(),
	}, nil
}
