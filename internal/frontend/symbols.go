// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package frontend

import (
	"strings"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// SymbolTable indexes the types declared across a snapshot and provides
// lookup by name, file and namespace.
type SymbolTable struct {
	symbols     []types.Symbol
	byName      map[string][]int
	byFile      map[types.FileID][]int
	byNamespace map[string][]int
	extensions  map[string]bool
}

// BuildSymbolTable extracts the type declarations of every document in
// snap.
func BuildSymbolTable(snap *workspace.Snapshot) *SymbolTable {
	st := &SymbolTable{
		byName:      make(map[string][]int),
		byFile:      make(map[types.FileID][]int),
		byNamespace: make(map[string][]int),
		extensions:  make(map[string]bool),
	}
	if snap == nil {
		return st
	}

	for _, doc := range snap.Documents() {
		syms, ext := ExtractSymbols(doc.ID, doc.Tree)
		for _, sym := range syms {
			idx := len(st.symbols)
			st.symbols = append(st.symbols, sym)
			st.byName[sym.Name] = append(st.byName[sym.Name], idx)
			st.byFile[sym.File] = append(st.byFile[sym.File], idx)
			st.byNamespace[sym.Namespace] = append(st.byNamespace[sym.Namespace], idx)
		}
		for ns := range ext {
			st.extensions[ns] = true
		}
	}
	return st
}

// ExtractSymbols returns the types declared in tree, and the namespaces in
// which it declares static classes holding extension methods.
func ExtractSymbols(file types.FileID, tree *syntax.Tree) ([]types.Symbol, map[string]bool) {
	var syms []types.Symbol
	ext := make(map[string]bool)

	var visit func(n *syntax.Node, ns, outer []string)
	visit = func(n *syntax.Node, ns, outer []string) {
		fileNS := ns
		for _, c := range n.Children {
			switch {
			case c.Type == "file_scoped_namespace_declaration" && c.Kind != types.NamespaceContainer:
				// Declarations that follow are siblings in this grammar.
				fileNS = appendName(ns, c.Name)
			case c.Kind == types.NamespaceContainer:
				visit(c, appendName(fileNS, c.Name), outer)
			case c.Kind == types.TypeContainer || (c.Type == "delegate_declaration" && len(outer) == 0):
				namespace := strings.Join(fileNS, ".")
				qualified := append(append(append([]string(nil), fileNS...), outer...), c.Name)
				syms = append(syms, types.Symbol{
					Name:      c.Name,
					Qualified: strings.Join(qualified, "."),
					Namespace: namespace,
					File:      file,
					Kind:      c.Kind,
					Nested:    len(outer) > 0,
					Partial:   c.Modifiers.Has(types.Partial),
				})
				if c.Kind == types.TypeContainer {
					if isExtensionHolder(c) {
						ext[namespace] = true
					}
					visit(c, fileNS, append(append([]string(nil), outer...), c.Name))
				}
			case c.Kind == types.Member:
			default:
				visit(c, fileNS, outer)
			}
		}
	}
	if tree != nil {
		visit(tree.Root(), nil, nil)
	}
	return syms, ext
}

func appendName(ns []string, name string) []string {
	out := append([]string(nil), ns...)
	if name == "" {
		return out
	}
	return append(out, strings.Split(name, ".")...)
}

// isExtensionHolder reports whether n is a static class with a parameter
// declared with this.
func isExtensionHolder(n *syntax.Node) bool {
	if !hasModifier(n, "static") {
		return false
	}
	found := false
	var visit func(*syntax.Node)
	visit = func(m *syntax.Node) {
		if found {
			return
		}
		if m.Type == "parameter" {
			for _, t := range leafTexts(m) {
				if t == "this" {
					found = true
					return
				}
			}
		}
		for _, c := range m.Children {
			visit(c)
		}
	}
	visit(n)
	return found
}

// All returns every symbol in the table.
func (st *SymbolTable) All() []types.Symbol {
	result := make([]types.Symbol, len(st.symbols))
	copy(result, st.symbols)
	return result
}

// ByName returns all symbols with the given simple name.
func (st *SymbolTable) ByName(name string) []types.Symbol {
	return st.lookup(st.byName[name])
}

// ByFile returns all symbols declared in the given document.
func (st *SymbolTable) ByFile(file types.FileID) []types.Symbol {
	return st.lookup(st.byFile[file])
}

// ByNamespace returns all symbols declared directly in namespace ns.
func (st *SymbolTable) ByNamespace(ns string) []types.Symbol {
	return st.lookup(st.byNamespace[ns])
}

// HasExtensions reports whether ns declares extension methods. Their use
// does not name the declaring type.
func (st *SymbolTable) HasExtensions(ns string) bool {
	return st.extensions[ns]
}

// Len returns the total number of symbols.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

func (st *SymbolTable) lookup(indices []int) []types.Symbol {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.Symbol, len(indices))
	for i, idx := range indices {
		result[i] = st.symbols[idx]
	}
	return result
}
