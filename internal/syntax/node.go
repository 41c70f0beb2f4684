// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package syntax provides the immutable, persistent concrete syntax tree the
// move-type refactoring operates on. Trees are never edited in place; every
// edit path-copies from the edited node to the root and shares all other
// subtrees with the input tree.
package syntax

import "github.com/petar-djukic/go-movetype/pkg/types"

// NodeID identifies a node across every tree derived from one parse. A node
// keeps its ID when an edit copies it.
type NodeID uint64

// Node is one node of a concrete syntax tree. Nodes must not be modified once
// they are part of a Tree.
type Node struct {
	ID   NodeID
	Kind types.Kind
	Type string // Grammar production name
	Name string // Declared identifier, when the node declares one

	Text     string // Token text; leaves only
	Leading  string // Trivia rendered before the node
	Trailing string // Trivia rendered after the node's text or last child

	Children []*Node

	// Modifiers holds the effective modifiers of the declaration. Written is
	// the subset already present in the source text; the difference is
	// rendered before the child at index Slot.
	Modifiers types.Modifier
	Written   types.Modifier
	Slot      int
}

// NewLeaf returns a token node.
func NewLeaf(typ, leading, text string) *Node {
	return &Node{Type: typ, Leading: leading, Text: text}
}

// NewBranch returns an interior node.
func NewBranch(kind types.Kind, typ, name string, children ...*Node) *Node {
	return &Node{Kind: kind, Type: typ, Name: name, Children: children}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// clone returns a shallow copy with its own children slice.
func (n *Node) clone() *Node {
	c := *n
	c.Children = append([]*Node(nil), n.Children...)
	return &c
}

// Equal reports whether a and b are structurally equal. IDs and trivia are
// ignored; kinds, grammar types, names, token text, modifiers and children
// are compared.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Type != b.Type || a.Name != b.Name || a.Text != b.Text {
		return false
	}
	if a.Modifiers != b.Modifiers || a.Written != b.Written {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
