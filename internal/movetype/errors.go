// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"errors"
	"fmt"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

var (
	// ErrNotFound matches *NotFoundError.
	ErrNotFound = errors.New("node not reachable from tree root")

	// ErrOverlap matches *OverlapError.
	ErrOverlap = errors.New("removal set is not an antichain")

	// ErrInvalidDestination matches *InvalidDestinationError.
	ErrInvalidDestination = errors.New("invalid destination")
)

// NotFoundError reports a node that is not part of the tree it was used
// with. It indicates a stale node reference held by the caller.
type NotFoundError struct {
	ID   syntax.NodeID
	Type string
	Name string
}

func newNotFound(n *syntax.Node) *NotFoundError {
	if n == nil {
		return &NotFoundError{}
	}
	return &NotFoundError{ID: n.ID, Type: n.Type, Name: n.Name}
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%v: %s %q (id %d)", ErrNotFound, e.Type, e.Name, e.ID)
	}
	return fmt.Sprintf("%v: %s (id %d)", ErrNotFound, e.Type, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// OverlapError reports two nodes of a removal set where one is an ancestor
// of (or the same node as) the other.
type OverlapError struct {
	Ancestor   *syntax.Node
	Descendant *syntax.Node
}

func (e *OverlapError) Error() string {
	if e.Ancestor == e.Descendant {
		return fmt.Sprintf("%v: node %d listed twice", ErrOverlap, e.Ancestor.ID)
	}
	return fmt.Sprintf("%v: node %d (%s) is an ancestor of node %d (%s)",
		ErrOverlap, e.Ancestor.ID, e.Ancestor.Type, e.Descendant.ID, e.Descendant.Type)
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// InvalidDestinationError reports a destination file the move cannot use.
type InvalidDestinationError struct {
	Source      types.FileID
	Destination types.FileID
	Reason      string
}

func (e *InvalidDestinationError) Error() string {
	return fmt.Sprintf("%v %s for %s: %s", ErrInvalidDestination, e.Destination, e.Source, e.Reason)
}

func (e *InvalidDestinationError) Is(target error) bool { return target == ErrInvalidDestination }
