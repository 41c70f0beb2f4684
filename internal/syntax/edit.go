// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import (
	"fmt"

	"github.com/petar-djukic/go-movetype/pkg/types"
)

// Remove returns a tree without the given nodes and their subtrees. The
// removed nodes' leading and trailing trivia go with them. The batch is
// applied in one pass, so the order of ids does not matter.
func (t *Tree) Remove(ids ...NodeID) (*Tree, error) {
	if len(ids) == 0 {
		return t, nil
	}

	drop := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		if _, ok := t.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownNode, id)
		}
		if id == t.root.ID {
			return nil, ErrRootEdit
		}
		drop[id] = true
	}

	dirty := t.ancestors(ids)
	root := copyPath(t.root, dirty, func(c *Node) {
		kept := c.Children[:0]
		for _, ch := range c.Children {
			if !drop[ch.ID] {
				kept = append(kept, ch)
			}
		}
		c.Children = kept
	})

	return index(root)
}

// Insert returns a tree with n inserted as child number at of parent.
// n and its subtree must carry IDs the tree does not already use.
func (t *Tree) Insert(parent NodeID, at int, n *Node) (*Tree, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownNode, parent)
	}
	if at < 0 || at > len(p.Children) {
		return nil, fmt.Errorf("insert position %d out of range [0,%d] for node %d", at, len(p.Children), parent)
	}

	dirty := t.ancestors([]NodeID{parent})
	dirty[parent] = true
	root := copyPath(t.root, dirty, func(c *Node) {
		if c.ID != parent {
			return
		}
		c.Children = append(c.Children, nil)
		copy(c.Children[at+1:], c.Children[at:])
		c.Children[at] = n
	})

	return index(root)
}

// Update returns a tree in which the node id is replaced by a copy that fn
// has modified. fn receives a copy with its own children slice; it must not
// modify the child nodes themselves.
func (t *Tree) Update(id NodeID, fn func(n *Node)) (*Tree, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownNode, id)
	}

	dirty := t.ancestors([]NodeID{id})
	dirty[id] = true
	root := copyPath(t.root, dirty, func(c *Node) {
		if c.ID == id {
			fn(c)
		}
	})

	return index(root)
}

// WithModifier returns a tree in which node id carries m. The tree is
// returned unchanged when the node already has m.
func (t *Tree) WithModifier(id NodeID, m types.Modifier) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownNode, id)
	}
	if n.Modifiers.Has(m) {
		return t, nil
	}
	return t.Update(id, func(c *Node) { c.Modifiers |= m })
}

// ancestors returns the set of proper ancestors of the given nodes.
func (t *Tree) ancestors(ids []NodeID) map[NodeID]bool {
	set := make(map[NodeID]bool)
	for _, id := range ids {
		for cur := t.parent[id]; cur != nil; cur = t.parent[cur.ID] {
			if set[cur.ID] {
				break
			}
			set[cur.ID] = true
		}
	}
	return set
}

// copyPath copies every node in dirty, bottom-up, applying fix to each copy.
// Nodes outside dirty are shared with the input.
func copyPath(n *Node, dirty map[NodeID]bool, fix func(c *Node)) *Node {
	if !dirty[n.ID] {
		return n
	}
	c := n.clone()
	for i, ch := range c.Children {
		c.Children[i] = copyPath(ch, dirty, fix)
	}
	fix(c)
	return c
}
