// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace holds project state as immutable snapshots of parsed
// documents and commits changed documents to disk as one atomic set.
package workspace

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

var (
	// ErrFileExists is returned when a new file would replace an existing one.
	ErrFileExists = errors.New("file already exists")

	// ErrFileNotFound is returned when a document is not in the snapshot.
	ErrFileNotFound = errors.New("file not found")
)

// Document is one parsed file of a snapshot.
type Document struct {
	ID        types.FileID
	Lang      types.Language
	Tree      *syntax.Tree
	HasErrors bool // The parser recovered from syntax errors
}

// Snapshot is an immutable mapping from file identity to document. The With
// methods return new snapshots and leave the receiver untouched.
type Snapshot struct {
	version uint64 // Commit number of the snapshot this one derives from
	docs    map[types.FileID]*Document
}

// NewSnapshot returns a snapshot holding docs.
func NewSnapshot(docs ...*Document) *Snapshot {
	s := &Snapshot{docs: make(map[types.FileID]*Document, len(docs))}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

// Version returns the commit number the snapshot derives from.
func (s *Snapshot) Version() uint64 { return s.version }

// Len returns the number of documents.
func (s *Snapshot) Len() int { return len(s.docs) }

// Document returns the document stored under id.
func (s *Snapshot) Document(id types.FileID) (*Document, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// Tree returns the tree of the document stored under id.
func (s *Snapshot) Tree(id types.FileID) (*syntax.Tree, bool) {
	d, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	return d.Tree, true
}

// Documents returns every document ordered by id.
func (s *Snapshot) Documents() []*Document {
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WithNewFile returns a snapshot with a new document id holding
// initialText as an unparsed token. The tree is expected to be replaced
// before the snapshot is committed.
func (s *Snapshot) WithNewFile(id types.FileID, initialText string) (*Snapshot, error) {
	if _, ok := s.docs[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, id)
	}
	next := s.fork()
	next.docs[id] = &Document{ID: id, Lang: LanguageOf(id), Tree: syntax.FromText(initialText)}
	return next, nil
}

// WithTreeReplaced returns a snapshot in which document id holds tree.
func (s *Snapshot) WithTreeReplaced(id types.FileID, tree *syntax.Tree) (*Snapshot, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	next := s.fork()
	next.docs[id] = &Document{ID: id, Lang: d.Lang, Tree: tree}
	return next, nil
}

func (s *Snapshot) fork() *Snapshot {
	next := &Snapshot{version: s.version, docs: make(map[types.FileID]*Document, len(s.docs)+1)}
	for id, d := range s.docs {
		next.docs[id] = d
	}
	return next
}

// LanguageOf maps a file extension to its language, or "" when unknown.
func LanguageOf(id types.FileID) types.Language {
	switch id.Ext() {
	case ".go":
		return types.LangGo
	case ".cs":
		return types.LangCSharp
	default:
		return ""
	}
}
