// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package frontend turns Go and C# source into syntax trees tagged for the
// move-type refactoring, and supplies the language-specific collaborators
// the refactoring needs: classification, partial-type queries and unused
// import removal.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/petar-djukic/go-movetype/internal/movetype"
	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

var (
	// ErrSyntax is returned, wrapped, when source has syntax errors.
	ErrSyntax = errors.New("syntax error")

	// ErrUnsupported is returned for files no frontend handles.
	ErrUnsupported = errors.New("unsupported file type")
)

// Frontend adapts one source language.
type Frontend interface {
	Language() types.Language

	// Extensions lists the lower-cased file extensions handled, with dot.
	Extensions() []string

	// Parse builds a tree that renders back to src. On syntax errors the
	// recovered tree is returned with an error wrapping ErrSyntax.
	Parse(ctx context.Context, src []byte) (*syntax.Tree, error)

	Classifier() movetype.Classifier
	Symbols() movetype.SymbolQuery

	// Imports returns the unused-import cleaner for documents of snap.
	Imports(snap *workspace.Snapshot) movetype.ImportCleaner

	// DefaultFileName returns the conventional file name for a type.
	DefaultFileName(typeName string) string
}

// Registry selects a frontend by file extension. It implements
// workspace.Parser.
type Registry struct {
	byExt map[string]Frontend
}

var _ workspace.Parser = (*Registry)(nil)

// NewRegistry returns a registry of the given frontends. Later frontends
// win when two claim the same extension.
func NewRegistry(frontends ...Frontend) *Registry {
	r := &Registry{byExt: make(map[string]Frontend)}
	for _, f := range frontends {
		for _, ext := range f.Extensions() {
			r.byExt[ext] = f
		}
	}
	return r
}

// Default returns a registry with the Go and C# frontends.
func Default() *Registry {
	return NewRegistry(NewGo(), NewCSharp())
}

// For returns the frontend for id.
func (r *Registry) For(id types.FileID) (Frontend, error) {
	f, ok := r.byExt[id.Ext()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}
	return f, nil
}

// Extensions returns the handled extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether a frontend handles id.
func (r *Registry) Supports(id types.FileID) bool {
	_, ok := r.byExt[id.Ext()]
	return ok
}

// Parse parses src with the frontend for id.
func (r *Registry) Parse(ctx context.Context, id types.FileID, src []byte) (*syntax.Tree, error) {
	f, err := r.For(id)
	if err != nil {
		return nil, err
	}
	tree, err := f.Parse(ctx, src)
	if err != nil {
		return tree, fmt.Errorf("%s: %w", id, err)
	}
	return tree, nil
}
