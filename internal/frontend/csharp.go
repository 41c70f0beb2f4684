// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package frontend

import (
	"context"
	"strings"

	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/petar-djukic/go-movetype/internal/movetype"
	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

var csharpTypes = map[string]bool{
	"class_declaration":         true,
	"struct_declaration":        true,
	"interface_declaration":     true,
	"record_declaration":        true,
	"record_struct_declaration": true,
	"enum_declaration":          true,
}

var csharpMembers = map[string]bool{
	"method_declaration":              true,
	"field_declaration":               true,
	"property_declaration":            true,
	"constructor_declaration":         true,
	"destructor_declaration":          true,
	"event_declaration":               true,
	"event_field_declaration":         true,
	"indexer_declaration":             true,
	"operator_declaration":            true,
	"conversion_operator_declaration": true,
	"delegate_declaration":            true,
	"global_statement":                true,
}

// globalAttributes are the node types of file-level attribute lists across
// grammar versions.
var globalAttributes = map[string]bool{
	"attribute_list":        true,
	"global_attribute_list": true,
	"global_attribute":      true,
}

type csharpFrontend struct {
	g *grammar
}

// NewCSharp returns the C# frontend. A type with the partial modifier is
// splittable; the modifier is written in front of the type keyword.
func NewCSharp() Frontend {
	return &csharpFrontend{g: &grammar{
		lang:     csharp.GetLanguage(),
		comments: map[string]bool{"comment": true},
		annotate: annotateCSharp,
		finish:   finishCSharp,
	}}
}

func (f *csharpFrontend) Language() types.Language { return types.LangCSharp }

func (f *csharpFrontend) Extensions() []string { return []string{".cs"} }

func (f *csharpFrontend) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	return parseTree(ctx, f.g, src)
}

func (f *csharpFrontend) Classifier() movetype.Classifier { return movetype.KindClassifier }

func (f *csharpFrontend) Symbols() movetype.SymbolQuery { return partialModifier{} }

func (f *csharpFrontend) Imports(snap *workspace.Snapshot) movetype.ImportCleaner {
	return &csharpImports{table: BuildSymbolTable(snap)}
}

// DefaultFileName returns Name.cs.
func (f *csharpFrontend) DefaultFileName(typeName string) string {
	return typeName + ".cs"
}

func annotateCSharp(n, parent *syntax.Node) {
	switch {
	case parent != nil && parent.Type == "compilation_unit" && globalAttributes[n.Type]:
		// [assembly: ...] and [module: ...] belong to the file they are in.
		n.Kind = types.Member
	case n.Type == "using_directive":
		n.Kind = types.Import
	case n.Type == "namespace_declaration":
		n.Kind = types.NamespaceContainer
		n.Name = childText(n, "qualified_name", "identifier")
	case n.Type == "file_scoped_namespace_declaration":
		n.Name = childText(n, "qualified_name", "identifier")
	case csharpTypes[n.Type]:
		n.Kind = types.TypeContainer
		n.Name = childText(n, "identifier")
		annotateModifiers(n)
	case csharpMembers[n.Type]:
		n.Kind = types.Member
		if n.Type == "delegate_declaration" {
			n.Name = childText(n, "identifier")
		}
	}
}

// finishCSharp makes a file-scoped namespace a container only when the
// grammar nests the declarations that follow it.
func finishCSharp(n *syntax.Node) {
	if n.Type != "file_scoped_namespace_declaration" {
		return
	}
	if containsUnit(n) {
		n.Kind = types.NamespaceContainer
	}
}

func containsUnit(n *syntax.Node) bool {
	for _, c := range n.Children {
		if c.Kind.Unit() || containsUnit(c) {
			return true
		}
	}
	return false
}

// annotateModifiers records a written partial modifier and the slot in
// front of which added modifiers are rendered: the first child that is
// neither an attribute list nor a modifier.
func annotateModifiers(n *syntax.Node) {
	n.Slot = -1
	for i, c := range n.Children {
		switch c.Type {
		case "modifier":
			if modifierText(c) == "partial" {
				n.Modifiers |= types.Partial
				n.Written |= types.Partial
			}
		case "attribute_list":
		default:
			if n.Slot < 0 {
				n.Slot = i
			}
		}
	}
	if n.Slot < 0 {
		n.Slot = len(n.Children)
	}
}

func modifierText(n *syntax.Node) string {
	return strings.TrimSpace(strings.Join(leafTexts(n), ""))
}

func hasModifier(n *syntax.Node, kw string) bool {
	for _, c := range n.Children {
		if c.Type == "modifier" && modifierText(c) == kw {
			return true
		}
	}
	return false
}

// partialModifier reports a type as splittable when it is declared partial.
// C# requires every part of a partial type to carry the modifier, so the
// declaration alone decides.
type partialModifier struct{}

func (partialModifier) IsSplittable(_ context.Context, _ *syntax.Tree, n *syntax.Node) (bool, error) {
	return n.Modifiers.Has(types.Partial), nil
}

// csharpImports drops using directives for project namespaces none of
// whose types is named in the tree. Usings of namespaces the project does
// not declare, static usings, aliases and global usings are kept.
type csharpImports struct {
	table *SymbolTable
}

func (c *csharpImports) RemoveUnusedImports(ctx context.Context, tree *syntax.Tree) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make(map[string]bool)
	var usings []*syntax.Node
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind == types.Import {
			usings = append(usings, n)
			return false
		}
		if n.Type == "identifier" {
			names[strings.Join(leafTexts(n), "")] = true
			return false
		}
		if n.Type == "attribute" {
			// [Tag] binds to TagAttribute.
			if name := attributeName(n); name != "" {
				names[name+"Attribute"] = true
			}
		}
		return true
	})

	var unused []syntax.NodeID
	for _, u := range usings {
		ns, ok := usingNamespace(u)
		if !ok || c.table.HasExtensions(ns) {
			continue
		}
		declared := c.table.ByNamespace(ns)
		if len(declared) == 0 {
			continue
		}
		used := false
		for _, sym := range declared {
			if !sym.Nested && names[sym.Name] {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, u.ID)
		}
	}
	return tree.Remove(unused...)
}

// attributeName returns the simple name an attribute is written with.
func attributeName(n *syntax.Node) string {
	name := childText(n, "identifier", "qualified_name", "alias_qualified_name", "generic_name")
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexAny(name, ".:"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// usingNamespace returns the namespace a plain using directive imports.
func usingNamespace(u *syntax.Node) (string, bool) {
	for _, c := range u.Children {
		if c.Type == "name_equals" {
			return "", false
		}
		if c.IsLeaf() {
			switch c.Text {
			case "static", "global", "=":
				return "", false
			}
		}
	}
	ns := childText(u, "qualified_name", "identifier")
	return ns, ns != ""
}
