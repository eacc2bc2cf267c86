// Package cst owns the concrete tree-sitter grammar and exposes the
// abstract surface the pipeline stages consume (parse, render,
// tree-walking hooks). Swapping the concrete grammar for a different
// indentation-based language only touches this package.
package cst

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Node is the opaque tree fragment entities carry (types.Entity.Tree()).
// It pairs a tree-sitter node with the source bytes it was parsed from,
// since tree-sitter nodes only carry byte offsets into their source.
type Node struct {
	N      *sitter.Node
	Source []byte
}

// Tree is a parsed module: the root node plus the bytes it spans.
type Tree struct {
	Root   *sitter.Node
	Source []byte
}

// Parser wraps a tree-sitter parser pinned to the input language's
// grammar. Tree-sitter parsers are not safe for concurrent use; callers
// fanning parsing out across a worker pool must use one Parser per
// goroutine.
type Parser struct {
	p *sitter.Parser
}

// NewParser returns a Parser configured for the input language's grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{p: p}
}

// Parse turns source text into a concrete syntax tree. Tree-sitter
// reports no hard parse errors itself, so an empty tree or a source file
// whose root node is entirely an ERROR node is treated as a parse
// failure here.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parsing source: empty tree")
	}
	if root.HasError() && root.ChildCount() == 0 {
		return nil, fmt.Errorf("parsing source: syntax error")
	}
	return &Tree{Root: root, Source: source}, nil
}

// Render pretty-prints a node. The grammar this package wraps is
// whitespace-preserving (tree-sitter nodes carry byte ranges into the
// original source), so rendering is a byte-range slice of the owning
// tree's source — re-parsing rendered text always reproduces a
// structurally-equal tree, because the bytes are unchanged.
func Render(n Node) string {
	if n.N == nil {
		return ""
	}
	return n.N.Content(n.Source)
}

// Type reports the tree-sitter grammar node type ("function_definition",
// "class_definition", "call", "attribute", ...).
func (n Node) Type() string {
	if n.N == nil {
		return ""
	}
	return n.N.Type()
}

// Child returns the i'th child (named or anonymous), wrapped with the same
// source.
func (n Node) Child(i int) Node {
	return Node{N: n.N.Child(i), Source: n.Source}
}

// ChildCount reports the number of children (named and anonymous).
func (n Node) ChildCount() int {
	if n.N == nil {
		return 0
	}
	return int(n.N.ChildCount())
}

// Children returns every child node.
func (n Node) Children() []Node {
	count := n.ChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// Text returns the raw source bytes this node spans.
func (n Node) Text() string {
	if n.N == nil {
		return ""
	}
	return n.N.Content(n.Source)
}

// IsZero reports whether this Node wraps a nil tree-sitter node.
func (n Node) IsZero() bool { return n.N == nil }
