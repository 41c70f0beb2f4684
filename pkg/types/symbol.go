// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// Symbol is a type declared in a workspace document.
type Symbol struct {
	Name      string // Simple name
	Qualified string // Dotted name through enclosing namespaces and types
	Namespace string // Enclosing namespace; empty for the global namespace
	File      FileID // Declaring document
	Kind      Kind   // TypeContainer or Member (delegates)
	Nested    bool   // Declared inside another type
	Partial   bool   // Carries the partial modifier
}
