// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"context"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// Classifier maps a node to its kind. It must be a pure function of the
// node.
type Classifier interface {
	Classify(n *syntax.Node) types.Kind
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(n *syntax.Node) types.Kind

func (f ClassifierFunc) Classify(n *syntax.Node) types.Kind { return f(n) }

// KindClassifier returns the kind tag the frontend stored on the node.
var KindClassifier = ClassifierFunc(func(n *syntax.Node) types.Kind { return n.Kind })

// SymbolQuery answers semantic questions about type declarations.
type SymbolQuery interface {
	// IsSplittable reports whether the type declared by n may already be
	// split across files.
	IsSplittable(ctx context.Context, tree *syntax.Tree, n *syntax.Node) (bool, error)
}

// ImportCleaner removes imports that nothing in the tree references. It must
// be idempotent and must never remove a referenced import.
type ImportCleaner interface {
	RemoveUnusedImports(ctx context.Context, tree *syntax.Tree) (*syntax.Tree, error)
}

// DocumentStore holds the project state a move reads from and commits to.
type DocumentStore interface {
	Current() *workspace.Snapshot
	Commit(ctx context.Context, next *workspace.Snapshot, changed ...types.FileID) ([]workspace.Rendered, error)
}

// Verify interface compliance at compile time.
var _ DocumentStore = (*workspace.Store)(nil)
