// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import "strings"

// Render returns the source text of the tree.
func Render(t *Tree) string {
	var b strings.Builder
	writeNode(&b, t.root)
	return b.String()
}

// Text returns the source text of n without its leading trivia.
func Text(n *Node) string {
	var b strings.Builder
	writeBody(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteString(n.Leading)
	writeBody(b, n)
}

// writeBody writes n without its leading trivia. Modifiers that are set but
// not yet written in the source are emitted in front of the child at Slot,
// after that child's own leading trivia.
func writeBody(b *strings.Builder, n *Node) {
	b.WriteString(n.Text)

	added := (n.Modifiers &^ n.Written).Keywords()
	for i, c := range n.Children {
		if len(added) > 0 && i == n.Slot {
			b.WriteString(c.Leading)
			for _, kw := range added {
				b.WriteString(kw)
				b.WriteByte(' ')
			}
			writeBody(b, c)
			continue
		}
		writeNode(b, c)
	}
	if len(added) > 0 && n.Slot >= len(n.Children) {
		for _, kw := range added {
			b.WriteByte(' ')
			b.WriteString(kw)
		}
	}

	b.WriteString(n.Trailing)
}
