package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeHandler processes a node for the extractor.
// Returns true when the handler has consumed the subtree and the walker
// should not descend into the node's children.
type nodeHandler func(ctx *extractionContext, node *sitter.Node) bool

// extractionContext carries shared state and helpers for one file walk.
type extractionContext struct {
	source []byte
	path   string
	file   *SourceFile
	unit   *Unit // unit currently being filled; nil outside declarations
}

// extractorEngine walks the syntax tree and dispatches handlers by node kind.
type extractorEngine struct {
	handlers map[string]nodeHandler
}

func newExtractorEngine(handlers map[string]nodeHandler) *extractorEngine {
	return &extractorEngine{handlers: handlers}
}

func (e *extractorEngine) Walk(ctx *extractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}

	if !stop {
		for i := uint(0); i < node.ChildCount(); i++ {
			e.Walk(ctx, node.Child(i))
		}
	}
}

func (c *extractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.source[node.StartByte():node.EndByte()])
}

func (c *extractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}
