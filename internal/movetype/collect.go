// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import "github.com/petar-djukic/go-movetype/internal/syntax"

// RemovableSet is the set of top-level units a tree that keeps only the
// target and its spine must drop. It is an antichain.
type RemovableSet []*syntax.Node

// CollectRemovable walks tree top-down and gathers every top-level unit that
// is neither on the spine nor the target. Spine nodes are descended into so
// that units beneath them are found; a unit is recorded without descending
// further, which makes the result an antichain. The result is verified
// before it is returned.
func CollectRemovable(tree *syntax.Tree, spine Spine, target *syntax.Node, classifier Classifier) (RemovableSet, error) {
	if !tree.Contains(target) {
		return nil, newNotFound(target)
	}
	onSpine := spine.IDs()

	var out RemovableSet
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		for _, c := range n.Children {
			switch {
			case c.ID == target.ID:
				// Kept with everything beneath it.
			case onSpine[c.ID]:
				visit(c)
			case classifier.Classify(c).Unit():
				out = append(out, c)
			default:
				visit(c)
			}
		}
	}
	visit(tree.Root())

	filtered := out[:0]
	for _, n := range out {
		if !onSpine[n.ID] {
			filtered = append(filtered, n)
		}
	}

	if err := VerifyAntichain(tree, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// VerifyAntichain checks that every node belongs to tree and that no node of
// the set is an ancestor of another or listed twice.
func VerifyAntichain(tree *syntax.Tree, nodes []*syntax.Node) error {
	set := make(map[syntax.NodeID]*syntax.Node, len(nodes))
	for _, n := range nodes {
		if !tree.Contains(n) {
			return newNotFound(n)
		}
		if _, dup := set[n.ID]; dup {
			return &OverlapError{Ancestor: n, Descendant: n}
		}
		set[n.ID] = n
	}

	for _, n := range nodes {
		for p := tree.Parent(n); p != nil; p = tree.Parent(p) {
			if _, ok := set[p.ID]; ok {
				return &OverlapError{Ancestor: p, Descendant: n}
			}
		}
	}
	return nil
}
