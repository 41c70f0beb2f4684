// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package frontend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

var (
	// ErrTypeNotFound is returned when no type declaration matches a name.
	ErrTypeNotFound = errors.New("type not found")

	// ErrAmbiguousType is returned when several declarations match a name.
	ErrAmbiguousType = errors.New("type name is ambiguous")
)

// FindType returns the type declaration of tree named name. The name may be
// qualified with enclosing types and namespaces (Outer.Inner, N.Outer); the
// qualifier must match a suffix of the declaration's enclosing names.
func FindType(tree *syntax.Tree, name string) (*syntax.Node, error) {
	want := strings.Split(strings.TrimSpace(name), ".")
	for _, part := range want {
		if part == "" {
			return nil, fmt.Errorf("%w: malformed name %q", ErrTypeNotFound, name)
		}
	}
	simple := want[len(want)-1]

	var matches []*syntax.Node
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind == types.TypeContainer && n.Name == simple && hasSuffix(qualifiedName(tree, n), want) {
			matches = append(matches, n)
		}
		return n.Kind != types.Member
	})

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d declarations", ErrAmbiguousType, name, len(matches))
	}
}

// QualifiedName returns the dotted name of n through its enclosing named
// namespaces and types.
func QualifiedName(tree *syntax.Tree, n *syntax.Node) string {
	return strings.Join(qualifiedName(tree, n), ".")
}

func qualifiedName(tree *syntax.Tree, n *syntax.Node) []string {
	path, ok := tree.Path(n)
	if !ok {
		return nil
	}
	var parts []string
	for _, p := range path {
		if p.Name == "" || (p.Kind != types.TypeContainer && p.Kind != types.NamespaceContainer) {
			continue
		}
		parts = append(parts, strings.Split(p.Name, ".")...)
	}
	return parts
}

func hasSuffix(have, want []string) bool {
	if len(want) > len(have) {
		return false
	}
	off := len(have) - len(want)
	for i := range want {
		if have[off+i] != want[i] {
			return false
		}
	}
	return true
}
