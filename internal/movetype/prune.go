// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petar-djukic/go-movetype/internal/syntax"
)

// errPruneRoot is returned when a removal set contains the root.
var errPruneRoot = errors.New("cannot prune the root node")

// Removal records where a pruned subtree was attached.
type Removal struct {
	Parent syntax.NodeID
	Index  int
	Node   *syntax.Node
}

// Prune returns tree without the given nodes and their descendants. The
// trivia attached to a removed node is dropped with it, without reflowing
// blank lines. nodes must be an antichain of tree; the set is validated
// before any edit and a violation returns an *OverlapError.
func Prune(tree *syntax.Tree, nodes []*syntax.Node) (*syntax.Tree, []Removal, error) {
	if err := VerifyAntichain(tree, nodes); err != nil {
		return nil, nil, err
	}

	ids := make([]syntax.NodeID, 0, len(nodes))
	removals := make([]Removal, 0, len(nodes))
	for _, n := range nodes {
		parent := tree.Parent(n)
		if parent == nil {
			return nil, nil, errPruneRoot
		}
		ids = append(ids, n.ID)
		removals = append(removals, Removal{Parent: parent.ID, Index: tree.IndexOf(n), Node: n})
	}

	pruned, err := tree.Remove(ids...)
	if err != nil {
		return nil, nil, fmt.Errorf("pruning: %w", err)
	}
	return pruned, removals, nil
}

// Restore re-inserts pruned subtrees at their recorded positions.
func Restore(tree *syntax.Tree, removals []Removal) (*syntax.Tree, error) {
	ordered := append([]Removal(nil), removals...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Parent != ordered[j].Parent {
			return ordered[i].Parent < ordered[j].Parent
		}
		return ordered[i].Index < ordered[j].Index
	})

	for _, r := range ordered {
		next, err := tree.Insert(r.Parent, r.Index, r.Node)
		if err != nil {
			return nil, fmt.Errorf("restoring node %d: %w", r.Node.ID, err)
		}
		tree = next
	}
	return tree, nil
}
