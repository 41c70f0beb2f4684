// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ast inspects Go source with go/parser. It decides which imports of
// a file are still referenced after declarations have been moved out of it.
package ast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// ImportRef identifies one import spec of a Go file.
type ImportRef struct {
	Name string // Explicit local name; empty when the import is unnamed
	Path string // Unquoted import path
}

// UnusedImports parses src and returns the imports that no selector in the
// file refers to. Blank, dot and cgo imports are always treated as used.
//
// For unnamed imports the package name is not known without type
// information; an import counts as used when any of CandidateNames(path)
// appears as a package qualifier.
func UnusedImports(filename string, src []byte) ([]ImportRef, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	qualifiers := packageQualifiers(file)

	var unused []ImportRef
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("import path %s: %w", spec.Path.Value, err)
		}
		ref := ImportRef{Path: path}
		if spec.Name != nil {
			ref.Name = spec.Name.Name
		}
		if isUsed(file, ref, qualifiers) {
			continue
		}
		unused = append(unused, ref)
	}
	return unused, nil
}

func isUsed(file *ast.File, ref ImportRef, qualifiers map[string]bool) bool {
	switch {
	case ref.Name == "_" || ref.Name == ".":
		return true
	case ref.Path == "C":
		return true
	case ref.Name != "":
		return qualifiers[ref.Name]
	case astutil.UsesImport(file, ref.Path):
		return true
	}
	for _, name := range CandidateNames(ref.Path) {
		if qualifiers[name] {
			return true
		}
	}
	return false
}

// packageQualifiers returns the unresolved identifiers used as the left side
// of a selector expression.
func packageQualifiers(file *ast.File) map[string]bool {
	names := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && id.Obj == nil {
			names[id.Name] = true
		}
		return true
	})
	return names
}

// CandidateNames returns the package names an unnamed import of path is
// likely to bind: the last path element with major-version elements and
// gopkg.in version suffixes dropped, plus common go-/-go spellings.
func CandidateNames(path string) []string {
	elems := strings.Split(path, "/")
	last := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(last) {
		last = elems[len(elems)-2]
	}
	if i := strings.LastIndex(last, ".v"); i > 0 && isDigits(last[i+2:]) {
		last = last[:i]
	}

	seen := make(map[string]bool)
	var names []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}

	add(last)
	base := strings.TrimSuffix(strings.TrimPrefix(last, "go-"), "-go")
	base = strings.TrimSuffix(base, ".go")
	add(base)
	add(strings.ReplaceAll(base, "-", ""))
	add(strings.ReplaceAll(base, "-", "_"))
	if i := strings.LastIndex(base, "-"); i >= 0 {
		add(base[i+1:])
	}
	return names
}

func isMajorVersion(s string) bool {
	return len(s) > 1 && s[0] == 'v' && isDigits(s[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
