// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"errors"
	"fmt"
	"go/format"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	Root   string       // Workspace root on disk; empty keeps commits in memory
	Gofmt  bool         // Run gofmt over committed Go files
	Logger *slog.Logger // Defaults to slog.Default()
}

// Store owns the current snapshot of a workspace. Commits replace it
// wholesale; concurrent committers are serialized and the last one wins.
type Store struct {
	mu      sync.Mutex
	opts    StoreOptions
	current *Snapshot
	logger  *slog.Logger
}

// NewStore returns a store whose current state is initial.
func NewStore(initial *Snapshot, opts StoreOptions) *Store {
	if initial == nil {
		initial = NewSnapshot()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{opts: opts, current: initial, logger: logger}
}

// Current returns the latest committed snapshot.
func (s *Store) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Rendered holds the text a commit wrote for one file.
type Rendered struct {
	ID      types.FileID
	Content []byte
	Created bool
}

// Commit makes next the current snapshot and writes the changed documents.
// Either every changed file is written and the snapshot replaced, or nothing
// changes. A file that is new relative to the current snapshot must not
// exist on disk.
func (s *Store) Commit(ctx context.Context, next *Snapshot, changed ...types.FileID) ([]Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errors.New("nil snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if next.version != s.current.version {
		s.logger.Warn("committing over a newer snapshot",
			slog.Uint64("base", next.version),
			slog.Uint64("current", s.current.version))
	}

	out := make([]Rendered, 0, len(changed))
	pending := make([]*pendingFile, 0, len(changed))
	for _, id := range changed {
		doc, ok := next.docs[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
		}
		content, err := s.render(doc)
		if err != nil {
			return nil, err
		}
		_, existed := s.current.docs[id]
		out = append(out, Rendered{ID: id, Content: content, Created: !existed})
		pending = append(pending, &pendingFile{
			path:    filepath.Join(s.opts.Root, filepath.FromSlash(string(id))),
			content: content,
			create:  !existed,
		})
	}

	if s.opts.Root != "" {
		if err := writeSet(pending); err != nil {
			return nil, err
		}
	}

	committed := &Snapshot{version: s.current.version + 1, docs: next.docs}
	s.current = committed
	s.logger.Debug("snapshot committed",
		slog.Uint64("version", committed.version),
		slog.Int("files", len(changed)))

	return out, nil
}

// render turns a document into file content.
func (s *Store) render(doc *Document) ([]byte, error) {
	content := []byte(syntax.Render(doc.Tree))
	if !s.opts.Gofmt || doc.Lang != types.LangGo {
		return content, nil
	}
	formatted, err := format.Source(content)
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", doc.ID, err)
	}
	return formatted, nil
}
