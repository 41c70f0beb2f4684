// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package frontend

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/go-movetype/internal/syntax"
)

// grammar describes how one tree-sitter language maps onto syntax trees.
type grammar struct {
	lang *sitter.Language

	// comments lists the node types folded into neighbouring trivia.
	comments map[string]bool

	// annotate sets Kind, Name and modifiers on n. It runs pre-order for
	// every node, so parent is already annotated; children are not.
	annotate func(n, parent *syntax.Node)

	// finish runs post-order after every child of n is annotated.
	finish func(n *syntax.Node)
}

// parseTree parses src and converts the concrete syntax tree into a
// syntax.Tree that renders back to src byte for byte. When the source has
// syntax errors the recovered tree is returned together with an error
// wrapping ErrSyntax.
func parseTree(ctx context.Context, g *grammar, src []byte) (*syntax.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.lang)

	ts, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer ts.Close()
	tsRoot := ts.RootNode()

	b := &builder{src: src, g: g}
	root := b.convert(tsRoot, 0)
	root.Trailing += b.text(tsRoot.EndByte(), uint32(len(src)))
	hoistHeader(root)
	b.annotate(root, nil)

	tree, err := syntax.NewTree(root)
	if err != nil {
		return nil, err
	}
	if tsRoot.HasError() {
		return tree, syntaxError(tsRoot)
	}
	return tree, nil
}

type builder struct {
	src []byte
	g   *grammar
}

func (b *builder) text(from, to uint32) string {
	if to <= from || int(to) > len(b.src) {
		return ""
	}
	return string(b.src[from:to])
}

// convert builds the syntax node for n. from is where the previous sibling
// ended; the gap up to n becomes n's leading trivia.
func (b *builder) convert(n *sitter.Node, from uint32) *syntax.Node {
	start, end := n.StartByte(), n.EndByte()
	out := &syntax.Node{Type: n.Type(), Leading: b.text(from, start)}

	count := int(n.ChildCount())
	if count == 0 {
		out.Text = b.text(start, end)
		return out
	}

	pos := start
	children := make([]*syntax.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		children = append(children, b.convert(c, pos))
		if c.EndByte() > pos {
			pos = c.EndByte()
		}
	}

	var dangling string
	out.Children, dangling = b.fold(children)
	out.Trailing = dangling + b.text(pos, end)
	return out
}

// fold removes comment nodes from children. A comment on the same line as
// the previous sibling joins that sibling's trailing trivia; any other
// comment joins the leading trivia of the next sibling. Comments with no
// following sibling are returned as dangling trivia.
func (b *builder) fold(children []*syntax.Node) ([]*syntax.Node, string) {
	out := make([]*syntax.Node, 0, len(children))
	var pending strings.Builder
	for _, c := range children {
		if !b.g.comments[c.Type] {
			if pending.Len() > 0 {
				c.Leading = pending.String() + c.Leading
				pending.Reset()
			}
			out = append(out, c)
			continue
		}

		text := c.Leading + syntax.Text(c)
		if pending.Len() == 0 && len(out) > 0 && sameLine(out[len(out)-1], c) {
			prev := out[len(out)-1]
			prev.Trailing += text
			continue
		}
		pending.WriteString(text)
	}
	return out, pending.String()
}

// sameLine reports whether comment c starts on the line prev ends on.
// Grammars with newline terminator tokens end a line inside prev.
func sameLine(prev, c *syntax.Node) bool {
	return !strings.Contains(c.Leading, "\n") && !strings.HasSuffix(syntax.Text(prev), "\n")
}

// hoistHeader moves a comment block that opens the file and is separated
// from the first declaration by a blank line onto the root, so that it is
// kept by every tree derived from this one.
func hoistHeader(root *syntax.Node) {
	if len(root.Children) == 0 {
		return
	}
	first := root.Children[0]
	i := strings.LastIndex(first.Leading, "\n\n")
	if i <= 0 || strings.TrimSpace(first.Leading[:i]) == "" {
		return
	}
	root.Leading += first.Leading[:i]
	first.Leading = first.Leading[i:]
}

func (b *builder) annotate(n, parent *syntax.Node) {
	if b.g.annotate != nil {
		b.g.annotate(n, parent)
	}
	for _, c := range n.Children {
		b.annotate(c, n)
	}
	if b.g.finish != nil {
		b.g.finish(n)
	}
}

// syntaxError reports the first error or missing node under n.
func syntaxError(n *sitter.Node) error {
	bad := firstError(n)
	if bad == nil {
		return fmt.Errorf("%w: unknown position", ErrSyntax)
	}
	p := bad.StartPoint()
	what := "unexpected input"
	if bad.IsMissing() {
		what = fmt.Sprintf("missing %s", bad.Type())
	}
	return fmt.Errorf("%w: %s at line %d column %d", ErrSyntax, what, p.Row+1, p.Column+1)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

// childText returns the trimmed source of the first child of n with one of
// the given types.
func childText(n *syntax.Node, typs ...string) string {
	for _, c := range n.Children {
		for _, t := range typs {
			if c.Type == t {
				return strings.Join(strings.Fields(strings.Join(leafTexts(c), "")), "")
			}
		}
	}
	return ""
}

// hasChild reports whether n has a direct child of the given type.
func hasChild(n *syntax.Node, typ string) bool {
	for _, c := range n.Children {
		if c.Type == typ {
			return true
		}
	}
	return false
}

// leafTexts returns the token texts of every leaf under n.
func leafTexts(n *syntax.Node) []string {
	var out []string
	var visit func(*syntax.Node)
	visit = func(n *syntax.Node) {
		if n.IsLeaf() {
			out = append(out, n.Text)
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}
