// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNode is returned when a node ID occurs twice in one tree.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned when an edit names an ID the tree lacks.
	ErrUnknownNode = errors.New("unknown node")

	// ErrRootEdit is returned when an edit would remove the root.
	ErrRootEdit = errors.New("cannot remove the root node")
)

// Tree is an immutable tree value. The parent relation is derived from the
// root when the tree is built and is not an ownership edge.
type Tree struct {
	root   *Node
	nodes  map[NodeID]*Node
	parent map[NodeID]*Node
	pos    map[NodeID]int
}

// NewTree seals root into a Tree. Nodes with a zero ID are numbered after
// the largest ID already present.
func NewTree(root *Node) (*Tree, error) {
	if root == nil {
		return nil, errors.New("nil root")
	}

	var maxID NodeID
	walk(root, func(n *Node) bool {
		if n.ID > maxID {
			maxID = n.ID
		}
		return true
	})
	walk(root, func(n *Node) bool {
		if n.ID == 0 {
			maxID++
			n.ID = maxID
		}
		return true
	})

	return index(root)
}

// FromText returns a tree holding text as a single token. It stands in for
// a document that has not been parsed yet.
func FromText(text string) *Tree {
	t, _ := NewTree(&Node{Type: "text", Text: text})
	return t
}

// index builds the lookup tables for root.
func index(root *Node) (*Tree, error) {
	t := &Tree{
		root:   root,
		nodes:  map[NodeID]*Node{root.ID: root},
		parent: make(map[NodeID]*Node),
		pos:    make(map[NodeID]int),
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range n.Children {
			if c == nil {
				return nil, fmt.Errorf("nil child %d of node %d", i, n.ID)
			}
			if _, dup := t.nodes[c.ID]; dup {
				return nil, fmt.Errorf("%w: id %d", ErrDuplicateNode, c.ID)
			}
			t.nodes[c.ID] = c
			t.parent[c.ID] = n
			t.pos[c.ID] = i
			stack = append(stack, c)
		}
	}

	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Lookup resolves id to the node this tree instance holds for it.
func (t *Tree) Lookup(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains reports whether n is a node of this tree instance. Identity is by
// reference: a node of another tree with the same ID is not contained.
func (t *Tree) Contains(n *Node) bool {
	return n != nil && t.nodes[n.ID] == n
}

// Parent returns the parent of n, or nil for the root and foreign nodes.
func (t *Tree) Parent(n *Node) *Node {
	if !t.Contains(n) {
		return nil
	}
	return t.parent[n.ID]
}

// IndexOf returns the position of n among its parent's children, or -1.
func (t *Tree) IndexOf(n *Node) int {
	if !t.Contains(n) || n == t.root {
		return -1
	}
	return t.pos[n.ID]
}

// Path returns the nodes from the root down to n, inclusive.
func (t *Tree) Path(n *Node) ([]*Node, bool) {
	if !t.Contains(n) {
		return nil, false
	}
	var rev []*Node
	for cur := n; cur != nil; cur = t.parent[cur.ID] {
		rev = append(rev, cur)
	}
	path := make([]*Node, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path, true
}

// Depth returns the number of edges between the root and n, or -1.
func (t *Tree) Depth(n *Node) int {
	if !t.Contains(n) {
		return -1
	}
	d := 0
	for cur := t.parent[n.ID]; cur != nil; cur = t.parent[cur.ID] {
		d++
	}
	return d
}

// IsAncestor reports whether a is a proper ancestor of b in this tree.
func (t *Tree) IsAncestor(a, b *Node) bool {
	if !t.Contains(a) || !t.Contains(b) {
		return false
	}
	for cur := t.parent[b.ID]; cur != nil; cur = t.parent[cur.ID] {
		if cur == a {
			return true
		}
	}
	return false
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// children of the visited node.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		walk(c, fn)
	}
}
