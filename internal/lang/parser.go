package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"onefile/internal/core/errors"
)

// Parser wraps the tree-sitter runtime for the bundled source language.
type Parser struct {
	grammar   *sitter.Language
	extractor *JavaExtractor
}

func NewParser() *Parser {
	return &Parser{
		grammar:   sitter.NewLanguage(tree_sitter_java.Language()),
		extractor: NewJavaExtractor(),
	}
}

func (p *Parser) IsSupportedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".java")
}

func (p *Parser) ParseFile(path string, content []byte) (*SourceFile, error) {
	if !p.IsSupportedPath(path) {
		err := errors.New(errors.CodeNotSupported, "unsupported source file")
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	file, err := p.extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}
	return file, nil
}
