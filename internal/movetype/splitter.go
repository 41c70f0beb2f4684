// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// Options configures a Splitter.
type Options struct {
	Classifier Classifier    // Defaults to KindClassifier
	Symbols    SymbolQuery   // Required
	Imports    ImportCleaner // Defaults to leaving imports untouched
	Logger     *slog.Logger  // Defaults to slog.Default()

	// OnTransition, when set, is called after each state is entered.
	OnTransition func(State)
}

// Request names the type to move and where it goes.
type Request struct {
	Source      types.FileID // Document holding the type
	Target      *syntax.Node // The type declaration, a node of the source tree
	Destination types.FileID // New document; must not exist yet
}

// Result describes a committed move.
type Result struct {
	Source      types.FileID
	Destination types.FileID
	NewTree     *syntax.Tree // Tree committed to Destination
	UpdatedTree *syntax.Tree // Tree committed to Source
	Spine       Spine
	Removed     RemovableSet    // Units dropped from the new tree
	Partial     []syntax.NodeID // Containers marked partial in both trees
	Files       []workspace.Rendered
	Trace       []State
}

// Splitter moves a type into a file of its own.
type Splitter struct {
	store  DocumentStore
	opts   Options
	logger *slog.Logger
}

// NewSplitter returns a Splitter committing to store.
func NewSplitter(store DocumentStore, opts Options) *Splitter {
	if opts.Classifier == nil {
		opts.Classifier = KindClassifier
	}
	if opts.Imports == nil {
		opts.Imports = keepImports{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{store: store, opts: opts, logger: logger}
}

// split carries the values the steps hand to each other.
type split struct {
	req      Request
	base     *workspace.Snapshot
	original *syntax.Tree

	spine   Spine
	removed RemovableSet
	partial []syntax.NodeID

	newTree     *syntax.Tree
	updatedTree *syntax.Tree
	files       []workspace.Rendered
	trace       []State
}

type step struct {
	enter State
	run   func(ctx context.Context, sp *split) error
}

// Split runs the move. Spine, removable set and partial plan are computed
// once against the source tree and applied to both output trees. The steps
// run strictly in order; the context is checked before each one. Any error
// aborts the move before the commit, leaving the store untouched.
//
// Returns an *InvalidDestinationError when the destination is the source or
// already exists, a *NotFoundError when the target is not a node of the
// source tree, and an *OverlapError when a removal set is not an antichain.
func (s *Splitter) Split(ctx context.Context, req Request) (*Result, error) {
	if s.opts.Symbols == nil {
		return nil, fmt.Errorf("splitter has no symbol query")
	}

	sp := &split{req: req, base: s.store.Current(), trace: []State{StateStart}}
	if err := s.precheck(sp); err != nil {
		return nil, err
	}
	s.transition(sp, StateStart)

	steps := []step{
		{StateSpineComputed, s.computeSpine},
		{StateCandidatesCollected, s.collectCandidates},
		{StateNewTreePruned, s.pruneNewTree},
		{StateNewTreePartialityFixed, s.fixNewTree},
		{StateNewTreeImportsCleaned, s.cleanNewTree},
		{StateOriginalTreePartialityFixed, s.fixOriginalTree},
		{StateOriginalTreeTargetRemoved, s.removeTarget},
		{StateOriginalTreeImportsCleaned, s.cleanOriginalTree},
		{StateCommitted, s.commit},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("moving %s aborted before %s: %w", req.Source, st.enter, err)
		}
		if err := st.run(ctx, sp); err != nil {
			s.logger.Debug("move failed",
				slog.String("source", string(req.Source)),
				slog.String("state", st.enter.String()),
				slog.String("error", err.Error()))
			return nil, err
		}
		sp.trace = append(sp.trace, st.enter)
		s.transition(sp, st.enter)
	}

	s.logger.Info("type moved",
		slog.String("type", req.Target.Name),
		slog.String("source", string(req.Source)),
		slog.String("destination", string(req.Destination)),
		slog.Int("removed_units", len(sp.removed)),
		slog.Int("partial_containers", len(sp.partial)))

	return &Result{
		Source:      req.Source,
		Destination: req.Destination,
		NewTree:     sp.newTree,
		UpdatedTree: sp.updatedTree,
		Spine:       sp.spine,
		Removed:     sp.removed,
		Partial:     sp.partial,
		Files:       sp.files,
		Trace:       sp.trace,
	}, nil
}

func (s *Splitter) transition(sp *split, st State) {
	s.logger.Debug("move state",
		slog.String("source", string(sp.req.Source)),
		slog.String("state", st.String()))
	if s.opts.OnTransition != nil {
		s.opts.OnTransition(st)
	}
}

// precheck validates the request against the base snapshot.
func (s *Splitter) precheck(sp *split) error {
	req := sp.req
	invalid := func(reason string) error {
		return &InvalidDestinationError{Source: req.Source, Destination: req.Destination, Reason: reason}
	}

	switch {
	case req.Destination == "":
		return invalid("destination is empty")
	case types.NewFileID(string(req.Destination)) == types.NewFileID(string(req.Source)):
		return invalid("destination is the source file")
	case req.Destination.Ext() != req.Source.Ext():
		return invalid("destination extension differs from source")
	}
	if _, exists := sp.base.Document(req.Destination); exists {
		return invalid("destination already exists")
	}

	tree, ok := sp.base.Tree(req.Source)
	if !ok {
		return fmt.Errorf("%w: %s", workspace.ErrFileNotFound, req.Source)
	}
	sp.original = tree
	return nil
}

func (s *Splitter) computeSpine(_ context.Context, sp *split) error {
	spine, err := ComputeSpine(sp.original, sp.req.Target)
	if err != nil {
		return err
	}
	sp.spine = spine
	return nil
}

func (s *Splitter) collectCandidates(ctx context.Context, sp *split) error {
	removed, err := CollectRemovable(sp.original, sp.spine, sp.req.Target, s.opts.Classifier)
	if err != nil {
		return err
	}
	partial, err := PartialPlan(ctx, sp.original, sp.spine, s.opts.Classifier, s.opts.Symbols)
	if err != nil {
		return err
	}
	sp.removed = removed
	sp.partial = partial
	return nil
}

func (s *Splitter) pruneNewTree(_ context.Context, sp *split) error {
	tree, _, err := Prune(sp.original, sp.removed)
	if err != nil {
		return err
	}
	sp.newTree = tree
	return nil
}

func (s *Splitter) fixNewTree(_ context.Context, sp *split) error {
	tree, err := EnsurePartial(sp.newTree, sp.partial)
	if err != nil {
		return err
	}
	sp.newTree = tree
	return nil
}

func (s *Splitter) cleanNewTree(ctx context.Context, sp *split) error {
	tree, err := s.opts.Imports.RemoveUnusedImports(ctx, sp.newTree)
	if err != nil {
		return fmt.Errorf("cleaning imports of %s: %w", sp.req.Destination, err)
	}
	sp.newTree = tree
	return nil
}

func (s *Splitter) fixOriginalTree(_ context.Context, sp *split) error {
	tree, err := EnsurePartial(sp.original, sp.partial)
	if err != nil {
		return err
	}
	sp.updatedTree = tree
	return nil
}

func (s *Splitter) removeTarget(_ context.Context, sp *split) error {
	target, ok := sp.updatedTree.Lookup(sp.req.Target.ID)
	if !ok {
		return newNotFound(sp.req.Target)
	}
	tree, _, err := Prune(sp.updatedTree, []*syntax.Node{target})
	if err != nil {
		return err
	}
	sp.updatedTree = tree
	return nil
}

func (s *Splitter) cleanOriginalTree(ctx context.Context, sp *split) error {
	tree, err := s.opts.Imports.RemoveUnusedImports(ctx, sp.updatedTree)
	if err != nil {
		return fmt.Errorf("cleaning imports of %s: %w", sp.req.Source, err)
	}
	sp.updatedTree = tree
	return nil
}

// commit bundles both trees into one snapshot and commits it.
func (s *Splitter) commit(ctx context.Context, sp *split) error {
	next, err := sp.base.WithNewFile(sp.req.Destination, "")
	if err != nil {
		return &InvalidDestinationError{Source: sp.req.Source, Destination: sp.req.Destination, Reason: err.Error()}
	}
	if next, err = next.WithTreeReplaced(sp.req.Destination, sp.newTree); err != nil {
		return err
	}
	if next, err = next.WithTreeReplaced(sp.req.Source, sp.updatedTree); err != nil {
		return err
	}

	files, err := s.store.Commit(ctx, next, sp.req.Destination, sp.req.Source)
	switch {
	case errors.Is(err, workspace.ErrFileExists):
		// The destination exists on disk without being part of the workspace.
		return &InvalidDestinationError{Source: sp.req.Source, Destination: sp.req.Destination, Reason: err.Error()}
	case err != nil:
		return fmt.Errorf("committing move: %w", err)
	}
	sp.files = files
	return nil
}

// keepImports is the ImportCleaner used when none is configured.
type keepImports struct{}

func (keepImports) RemoveUnusedImports(_ context.Context, tree *syntax.Tree) (*syntax.Tree, error) {
	return tree, nil
}
