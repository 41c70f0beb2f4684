// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package frontend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/smacker/go-tree-sitter/golang"

	"github.com/petar-djukic/go-movetype/internal/ast"
	"github.com/petar-djukic/go-movetype/internal/movetype"
	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// Go declarations are package scoped. A type moves to another file of the
// same package without any modifier, so every type is splittable.
type goFrontend struct {
	g *grammar
}

// NewGo returns the Go frontend.
//
// An ungrouped type declaration is a TypeContainer. A parenthesised type
// group is a NamespaceContainer whose specs are TypeContainers. Top-level
// functions, methods, var and const declarations are Members.
func NewGo() Frontend {
	return &goFrontend{g: &grammar{
		lang:     golang.GetLanguage(),
		comments: map[string]bool{"comment": true},
		annotate: annotateGo,
	}}
}

func (f *goFrontend) Language() types.Language { return types.LangGo }

func (f *goFrontend) Extensions() []string { return []string{".go"} }

func (f *goFrontend) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	return parseTree(ctx, f.g, src)
}

func (f *goFrontend) Classifier() movetype.Classifier { return movetype.KindClassifier }

func (f *goFrontend) Symbols() movetype.SymbolQuery { return packageScoped{} }

func (f *goFrontend) Imports(*workspace.Snapshot) movetype.ImportCleaner { return goImports{} }

// DefaultFileName returns the snake_case file name for a Go type.
func (f *goFrontend) DefaultFileName(typeName string) string {
	return SnakeCase(typeName) + ".go"
}

func annotateGo(n, parent *syntax.Node) {
	if parent == nil {
		return
	}
	topLevel := parent.Type == "source_file"

	switch n.Type {
	case "import_declaration":
		n.Kind = types.Import
	case "function_declaration":
		if topLevel {
			n.Kind = types.Member
			n.Name = childText(n, "identifier")
		}
	case "method_declaration":
		if topLevel {
			n.Kind = types.Member
			n.Name = childText(n, "field_identifier")
		}
	case "var_declaration", "const_declaration":
		if topLevel {
			n.Kind = types.Member
		}
	case "type_declaration":
		if !topLevel {
			return
		}
		if hasChild(n, "(") {
			n.Kind = types.NamespaceContainer
			return
		}
		n.Kind = types.TypeContainer
		for _, c := range n.Children {
			if c.Type == "type_spec" || c.Type == "type_alias" {
				n.Name = childText(c, "type_identifier")
				break
			}
		}
	case "type_spec", "type_alias":
		if parent.Kind == types.NamespaceContainer {
			n.Kind = types.TypeContainer
			n.Name = childText(n, "type_identifier")
		}
	}
}

// packageScoped answers every partiality query with true.
type packageScoped struct{}

func (packageScoped) IsSplittable(context.Context, *syntax.Tree, *syntax.Node) (bool, error) {
	return true, nil
}

// goImports removes import specs that the rendered file no longer uses. A
// declaration whose specs are all unused is removed as a whole.
type goImports struct{}

func (goImports) RemoveUnusedImports(ctx context.Context, tree *syntax.Tree) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unused, err := ast.UnusedImports("source.go", []byte(syntax.Render(tree)))
	if err != nil {
		return nil, err
	}
	if len(unused) == 0 {
		return tree, nil
	}
	drop := make(map[ast.ImportRef]bool, len(unused))
	for _, ref := range unused {
		drop[ref] = true
	}

	var ids []syntax.NodeID
	for _, decl := range tree.Root().Children {
		if decl.Kind != types.Import {
			continue
		}
		specs := importSpecs(decl)
		var gone []syntax.NodeID
		for _, spec := range specs {
			ref, err := importRef(spec)
			if err != nil {
				return nil, err
			}
			if drop[ref] {
				gone = append(gone, spec.ID)
			}
		}
		switch {
		case len(gone) == 0:
		case len(gone) == len(specs):
			ids = append(ids, decl.ID)
		default:
			ids = append(ids, gone...)
		}
	}
	return tree.Remove(ids...)
}

// importSpecs returns the import_spec nodes of an import declaration.
func importSpecs(decl *syntax.Node) []*syntax.Node {
	var specs []*syntax.Node
	for _, c := range decl.Children {
		switch c.Type {
		case "import_spec":
			specs = append(specs, c)
		case "import_spec_list":
			specs = append(specs, importSpecs(c)...)
		}
	}
	return specs
}

func importRef(spec *syntax.Node) (ast.ImportRef, error) {
	var ref ast.ImportRef
	for _, c := range spec.Children {
		switch c.Type {
		case "package_identifier", "blank_identifier", "dot", ".", "_":
			ref.Name = strings.Join(leafTexts(c), "")
		case "interpreted_string_literal", "raw_string_literal":
			raw := strings.Join(leafTexts(c), "")
			path, err := strconv.Unquote(raw)
			if err != nil {
				return ref, fmt.Errorf("import path %s: %w", raw, err)
			}
			ref.Path = path
		}
	}
	return ref, nil
}

// SnakeCase converts a Go identifier to snake_case, keeping initialisms
// together: HTTPServer becomes http_server.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
