// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

func leaf(kind types.Kind, typ, leading, text string) *syntax.Node {
	n := syntax.NewLeaf(typ, leading, text)
	n.Kind = kind
	return n
}

// class builds `class Name { children }` with the type keyword at slot 0.
func class(name, indent string, children ...*syntax.Node) *syntax.Node {
	all := []*syntax.Node{
		syntax.NewLeaf("class", "\n"+indent, "class"),
		syntax.NewLeaf("identifier", " ", name),
	}
	if len(children) == 0 {
		all = append(all, syntax.NewLeaf("body", " ", "{}"))
	} else {
		all = append(all, syntax.NewLeaf("{", " ", "{"))
		all = append(all, children...)
		all = append(all, syntax.NewLeaf("}", "\n"+indent, "}"))
	}
	return syntax.NewBranch(types.TypeContainer, "class_declaration", name, all...)
}

// nested is scenario B:
//
//	using System;
//	namespace N {
//	  class Outer {
//	    class Inner {}
//	    void M() {}
//	  }
//	  class Other {}
//	}
type nested struct {
	tree                                   *syntax.Tree
	using, ns, outer, inner, method, other *syntax.Node
}

const nestedText = "using System;\nnamespace N {\n  class Outer {\n    class Inner {}\n    void M() {}\n  }\n  class Other {}\n}\n"

func buildNested(t *testing.T) nested {
	t.Helper()
	f := nested{
		using:  leaf(types.Import, "using_directive", "", "using System;"),
		inner:  class("Inner", "    "),
		method: leaf(types.Member, "method_declaration", "\n    ", "void M() {}"),
		other:  class("Other", "  "),
	}
	f.outer = class("Outer", "  ", f.inner, f.method)
	f.ns = syntax.NewBranch(types.NamespaceContainer, "namespace_declaration", "N",
		syntax.NewLeaf("header", "\n", "namespace N {"),
		f.outer,
		f.other,
		syntax.NewLeaf("}", "\n", "}"),
	)
	root := syntax.NewBranch(types.Other, "compilation_unit", "", f.using, f.ns)
	root.Trailing = "\n"

	tree, err := syntax.NewTree(root)
	require.NoError(t, err)
	require.Equal(t, nestedText, syntax.Render(tree))
	f.tree = tree
	return f
}

// flat is scenario A:
//
//	package a
//
//	import "fmt"
//
//	type A struct{}
//
//	func F() { fmt.Println() }
type flat struct {
	tree                 *syntax.Tree
	pkg, imp, typeA, fnF *syntax.Node
}

const flatText = "package a\n\nimport \"fmt\"\n\ntype A struct{}\n\nfunc F() { fmt.Println() }\n"

func buildFlat(t *testing.T) flat {
	t.Helper()
	f := flat{
		pkg: leaf(types.Other, "package_clause", "", "package a"),
		imp: leaf(types.Import, "import_declaration", "\n\n", "import \"fmt\""),
		typeA: syntax.NewBranch(types.TypeContainer, "type_declaration", "A",
			syntax.NewLeaf("type", "\n\n", "type"),
			syntax.NewLeaf("type_spec", " ", "A struct{}"),
		),
		fnF: leaf(types.Member, "function_declaration", "\n\n", "func F() { fmt.Println() }"),
	}
	root := syntax.NewBranch(types.Other, "source_file", "", f.pkg, f.imp, f.typeA, f.fnF)
	root.Trailing = "\n"

	tree, err := syntax.NewTree(root)
	require.NoError(t, err)
	require.Equal(t, flatText, syntax.Render(tree))
	f.tree = tree
	return f
}

// partialQuery reports a type as splittable when it carries the modifier.
type partialQuery struct{}

func (partialQuery) IsSplittable(_ context.Context, _ *syntax.Tree, n *syntax.Node) (bool, error) {
	return n.Modifiers.Has(types.Partial), nil
}

// quotedImportCleaner drops import leaves whose quoted package name is not
// followed by a selector anywhere else in the tree.
type quotedImportCleaner struct {
	calls  int
	failOn int // Fail on this call number; zero never fails
}

func (c *quotedImportCleaner) RemoveUnusedImports(_ context.Context, tree *syntax.Tree) (*syntax.Tree, error) {
	c.calls++
	if c.calls == c.failOn {
		return nil, errors.New("import analysis failed")
	}

	var code strings.Builder
	var imports []*syntax.Node
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind == types.Import {
			imports = append(imports, n)
			return false
		}
		code.WriteString(n.Text)
		return true
	})

	var unused []syntax.NodeID
	for _, imp := range imports {
		text := imp.Text
		name := text[strings.Index(text, "\"")+1 : strings.LastIndex(text, "\"")]
		if !strings.Contains(code.String(), name+".") {
			unused = append(unused, imp.ID)
		}
	}
	return tree.Remove(unused...)
}

func newStore(t *testing.T, id types.FileID, tree *syntax.Tree) *workspace.Store {
	t.Helper()
	snap := workspace.NewSnapshot(&workspace.Document{ID: id, Lang: workspace.LanguageOf(id), Tree: tree})
	return workspace.NewStore(snap, workspace.StoreOptions{})
}

// assertAntichain fails when one node of set is an ancestor of another.
func assertAntichain(t *testing.T, tree *syntax.Tree, set []*syntax.Node) {
	t.Helper()
	for i, a := range set {
		for j, b := range set {
			if i == j {
				continue
			}
			require.False(t, tree.IsAncestor(a, b), "node %d (%s) is an ancestor of node %d (%s)", a.ID, a.Type, b.ID, b.Type)
			require.NotEqual(t, a.ID, b.ID)
		}
	}
}
