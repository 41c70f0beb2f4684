// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-movetype packages.
package types

import "strings"

// Kind classifies a syntax node for the move-type refactoring. The set is
// closed; frontends map their grammar productions onto it.
type Kind int

const (
	Other              Kind = iota // Anything that is not a removal unit
	TypeContainer                  // Type declaration (class, struct, Go type)
	NamespaceContainer             // Namespace or declaration group
	Member                         // Method, field, function, var, const
	Import                         // Import or using directive
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case Other:
		return "Other"
	case TypeContainer:
		return "TypeContainer"
	case NamespaceContainer:
		return "NamespaceContainer"
	case Member:
		return "Member"
	case Import:
		return "Import"
	default:
		return "Unknown"
	}
}

// Unit reports whether nodes of this kind are top-level units, the
// granularity at which removal decisions are made.
func (k Kind) Unit() bool {
	return k == TypeContainer || k == NamespaceContainer || k == Member
}

// Modifier is a bit set of declaration modifiers that live beside the
// structure of a node. Only additive changes are made to it.
type Modifier uint8

const (
	// Partial marks a type declaration that may be split across files.
	Partial Modifier = 1 << iota
)

// Has reports whether every bit of o is set in m.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// Keywords returns the source keywords for the set bits, in a stable order.
func (m Modifier) Keywords() []string {
	var kws []string
	if m.Has(Partial) {
		kws = append(kws, "partial")
	}
	return kws
}

func (m Modifier) String() string {
	if m == 0 {
		return "none"
	}
	return strings.Join(m.Keywords(), "|")
}
