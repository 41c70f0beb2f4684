// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"context"
	"fmt"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// PartialPlan returns the type containers enclosing the spine's target that
// are not yet splittable across files. The target itself lives in a single
// file after the move and is not included.
func PartialPlan(ctx context.Context, tree *syntax.Tree, spine Spine, classifier Classifier, query SymbolQuery) ([]syntax.NodeID, error) {
	if len(spine) == 0 {
		return nil, nil
	}
	var ids []syntax.NodeID
	for _, n := range spine[:len(spine)-1] {
		if classifier.Classify(n) != types.TypeContainer {
			continue
		}
		ok, err := query.IsSplittable(ctx, tree, n)
		if err != nil {
			return nil, fmt.Errorf("querying %s %q: %w", n.Type, n.Name, err)
		}
		if !ok {
			ids = append(ids, n.ID)
		}
	}
	return ids, nil
}

// EnsurePartial marks each listed node of tree as partial. Nodes already
// marked are left alone, so applying it twice yields the same tree.
func EnsurePartial(tree *syntax.Tree, ids []syntax.NodeID) (*syntax.Tree, error) {
	for _, id := range ids {
		n, ok := tree.Lookup(id)
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		if n.Modifiers.Has(types.Partial) {
			continue
		}
		next, err := tree.WithModifier(id, types.Partial)
		if err != nil {
			return nil, err
		}
		tree = next
	}
	return tree, nil
}

// EnsurePartialSpine plans and applies the partial modifier for spine in one
// step.
func EnsurePartialSpine(ctx context.Context, tree *syntax.Tree, spine Spine, classifier Classifier, query SymbolQuery) (*syntax.Tree, error) {
	ids, err := PartialPlan(ctx, tree, spine, classifier, query)
	if err != nil {
		return nil, err
	}
	return EnsurePartial(tree, ids)
}
