// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package movetype moves a type declaration out of a source tree into a tree
// of its own. It computes which nodes each of the two resulting trees keeps,
// checks that the removal sets are safe to apply, and commits both trees as
// one change.
package movetype

import "github.com/petar-djukic/go-movetype/internal/syntax"

// Spine is the chain of nodes from the root down to a target, inclusive.
// Every node in it is an ancestor-or-self of the target.
type Spine []*syntax.Node

// ComputeSpine returns the spine of target in tree. target must be a node of
// this tree instance; otherwise a *NotFoundError is returned.
func ComputeSpine(tree *syntax.Tree, target *syntax.Node) (Spine, error) {
	path, ok := tree.Path(target)
	if !ok {
		return nil, newNotFound(target)
	}
	return Spine(path), nil
}

// Root returns the first node of the spine.
func (s Spine) Root() *syntax.Node { return s[0] }

// Target returns the last node of the spine.
func (s Spine) Target() *syntax.Node { return s[len(s)-1] }

// Contains reports whether a node with n's ID is on the spine. Membership is
// by ID so that a spine computed on one tree can be used with its derivations.
func (s Spine) Contains(n *syntax.Node) bool {
	for _, m := range s {
		if m.ID == n.ID {
			return true
		}
	}
	return false
}

// IDs returns the set of node IDs on the spine.
func (s Spine) IDs() map[syntax.NodeID]bool {
	ids := make(map[syntax.NodeID]bool, len(s))
	for _, n := range s {
		ids[n.ID] = true
	}
	return ids
}
