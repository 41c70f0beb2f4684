// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mover

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-movetype/internal/frontend"
	"github.com/petar-djukic/go-movetype/internal/logging"
	"github.com/petar-djukic/go-movetype/internal/movetype"
)

const shopGo = `// Copyright header.

// Package shop sells things.
package shop

import (
	"fmt"
	"strings"
)

// Item is a thing for sale.
type Item struct {
	Name string // display name
}

// Label formats an item.
func Label(i Item) string {
	return fmt.Sprintf("%s", strings.ToUpper(i.Name))
}
`

const itemGo = `// Copyright header.

// Package shop sells things.
package shop

// Item is a thing for sale.
type Item struct {
	Name string // display name
}
`

const shopAfterGo = `// Copyright header.

// Package shop sells things.
package shop

import (
	"fmt"
	"strings"
)

// Label formats an item.
func Label(i Item) string {
	return fmt.Sprintf("%s", strings.ToUpper(i.Name))
}
`

const outerCS = `using System;

namespace Shop
{
    public class Outer
    {
        public class Inner
        {
        }

        public void M() { Console.WriteLine(); }
    }
}
`

func newRunner(t *testing.T, deps Deps) *Runner {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	r, err := NewRunner(deps)
	require.NoError(t, err)
	return r
}

func TestRunner_MovesGoType(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"shop.go": shopGo})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true, NoGit: true})
	result, err := r.Run(context.Background(), Request{File: "shop.go", Type: "Item"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Committed)
	assert.Equal(t, "shop.go", result.Source)
	assert.Equal(t, "item.go", result.Destination)
	assert.Equal(t, "Item", result.Type)
	assert.Empty(t, result.Partial)
	assert.Equal(t, "start", result.Trace[0])
	assert.Equal(t, "committed", result.Trace[len(result.Trace)-1])

	require.Len(t, result.Files, 2)
	assert.Equal(t, "item.go", result.Files[0].Path)
	assert.True(t, result.Files[0].Created)
	assert.Empty(t, result.Files[0].Patch)

	assert.Equal(t, itemGo, readFile(t, dir, "item.go"))
	assert.Equal(t, shopAfterGo, readFile(t, dir, "shop.go"))
}

func TestRunner_ExplicitDestinationInSubdirectory(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"pkg/shop/shop.go": shopGo})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true, NoGit: true})
	result, err := r.Run(context.Background(), Request{
		File: filepath.Join(dir, "pkg", "shop", "shop.go"),
		Type: "Item",
		Dest: "pkg/shop/models.go",
	})
	require.NoError(t, err)

	assert.Equal(t, "pkg/shop/shop.go", result.Source)
	assert.Equal(t, "pkg/shop/models.go", result.Destination)
	assert.Equal(t, itemGo, readFile(t, dir, "pkg/shop/models.go"))
}

func TestRunner_DryRunWritesNothing(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"shop.go": shopGo})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true, DryRun: true})
	result, err := r.Run(context.Background(), Request{File: "shop.go", Type: "Item"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Files, 2)

	created := result.Files[0]
	assert.Equal(t, itemGo, created.Content)
	assert.True(t, strings.HasPrefix(created.Patch, "--- /dev/null\n+++ b/item.go\n"))
	assert.Contains(t, created.Patch, "+type Item struct {\n")

	updated := result.Files[1]
	assert.True(t, strings.HasPrefix(updated.Patch, "--- a/shop.go\n+++ b/shop.go\n"))
	assert.Contains(t, updated.Patch, "-// Item is a thing for sale.\n")
	for _, line := range strings.Split(updated.Patch, "\n")[2:] {
		assert.False(t, strings.HasPrefix(line, "+"), "unexpected insertion %q", line)
	}

	assert.Equal(t, shopGo, readFile(t, dir, "shop.go"))
	assert.NoFileExists(t, filepath.Join(dir, "item.go"))
}

func TestRunner_CSharpNestedType(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"src/Outer.cs": outerCS})

	r := newRunner(t, Deps{WorkDir: dir, NoGit: true})
	result, err := r.Run(context.Background(), Request{File: "src/Outer.cs", Type: "Outer.Inner"})
	require.NoError(t, err)

	assert.Equal(t, "Shop.Outer.Inner", result.Type)
	assert.Equal(t, "src/Inner.cs", result.Destination)
	assert.Equal(t, []string{"Shop.Outer"}, result.Partial)

	moved := readFile(t, dir, "src/Inner.cs")
	assert.Contains(t, moved, "public partial class Outer")
	assert.Contains(t, moved, "public class Inner")
	assert.NotContains(t, moved, "M()")

	kept := readFile(t, dir, "src/Outer.cs")
	assert.Contains(t, kept, "public partial class Outer")
	assert.Contains(t, kept, "Console.WriteLine()")
	assert.NotContains(t, kept, "class Inner")
}

func TestRunner_Errors(t *testing.T) {
	files := map[string]string{
		"shop.go":   shopGo,
		"label.go":  "package shop\n",
		"broken.go": "package shop\n\ntype Broken struct {\n",
	}

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown type", Request{File: "shop.go", Type: "Missing"}, frontend.ErrTypeNotFound},
		{"source with syntax errors", Request{File: "broken.go", Type: "Broken"}, ErrSourceHasErrors},
		{"existing destination", Request{File: "shop.go", Type: "Item", Dest: "label.go"}, movetype.ErrInvalidDestination},
		{"destination is source", Request{File: "shop.go", Type: "Item", Dest: "./shop.go"}, movetype.ErrInvalidDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, t.TempDir(), files)
			r := newRunner(t, Deps{WorkDir: dir, NoGit: true})

			_, err := r.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)

			for name, content := range files {
				assert.Equal(t, content, readFile(t, dir, name))
			}
			assert.NoFileExists(t, filepath.Join(dir, "item.go"))
		})
	}
}

func TestRunner_SourceOutsideWorkDir(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"shop.go": shopGo})
	other := writeFiles(t, t.TempDir(), map[string]string{"shop.go": shopGo})

	r := newRunner(t, Deps{WorkDir: dir, NoGit: true})
	_, err := r.Run(context.Background(), Request{File: filepath.Join(other, "shop.go"), Type: "Item"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestRunner_CancelledContext(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{"shop.go": shopGo})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(t, Deps{WorkDir: dir, NoGit: true})
	_, err := r.Run(ctx, Request{File: "shop.go", Type: "Item"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "item.go"))
}

func TestRunner_CommitsMove(t *testing.T) {
	dir := initRepo(t, map[string]string{"shop.go": shopGo})
	// Dirty changes are committed separately before the move.
	writeFiles(t, dir, map[string]string{"notes.txt": "todo\n"})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true})
	result, err := r.Run(context.Background(), Request{File: "shop.go", Type: "Item"})
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Empty(t, result.Errors)

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(commit.Message, "refactor: move Item to item.go\n"))

	parent, err := commit.Parent(0)
	require.NoError(t, err)
	assert.Contains(t, parent.Message, "save uncommitted changes")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.True(t, status.IsClean(), "status: %s", status)
}

func TestRunner_VerificationFailureSkipsCommit(t *testing.T) {
	dir := initRepo(t, map[string]string{
		"go.mod":  "module example.com/shop\n\ngo 1.21\n",
		"shop.go": shopGo,
		"tax.go":  "package shop\n\nvar rate = undefinedRate\n",
	})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true, Verify: true})
	result, err := r.Run(context.Background(), Request{File: "shop.go", Type: "Item"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, result.Committed)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, strings.Join(result.Errors, "\n"), "undefinedRate")

	// The move itself stays on disk for the user to inspect.
	assert.Equal(t, itemGo, readFile(t, dir, "item.go"))
}

func TestRunner_VerificationPasses(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{
		"go.mod":  "module example.com/shop\n\ngo 1.21\n",
		"shop.go": shopGo,
	})

	r := newRunner(t, Deps{WorkDir: dir, Gofmt: true, Verify: true, NoGit: true})
	result, err := r.Run(context.Background(), Request{File: "shop.go", Type: "Item"})
	require.NoError(t, err)
	assert.True(t, result.Success, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestUnifiedDiff(t *testing.T) {
	assert.Empty(t, unifiedDiff("f", "same\n", "same\n"))

	assert.Equal(t, "--- a/f\n+++ b/f\n a\n-b\n+c\n", unifiedDiff("f", "a\nb\n", "a\nc\n"))

	var before, after strings.Builder
	for _, l := range []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8"} {
		before.WriteString(l + "\n")
		after.WriteString(l + "\n")
	}
	before.WriteString("l9\n")
	after.WriteString("x\n")
	assert.Equal(t, "--- a/f\n+++ b/f\n@@\n l6\n l7\n l8\n-l9\n+x\n", unifiedDiff("f", before.String(), after.String()))

	assert.Equal(t, "--- /dev/null\n+++ b/f\n+x\n\\ No newline at end of file\n", unifiedDiff("f", "", "x"))
}

func writeFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// initRepo creates a repository holding files in a single commit.
func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := writeFiles(t, t.TempDir(), files)

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	for name := range files {
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestRunner_Types(t *testing.T) {
	dir := writeFiles(t, t.TempDir(), map[string]string{
		"shop.go":      shopGo,
		"src/Outer.cs": outerCS,
	})
	r := newRunner(t, Deps{WorkDir: dir, NoGit: true})

	all, err := r.Types(context.Background(), "")
	require.NoError(t, err)
	var names []string
	for _, s := range all {
		names = append(names, string(s.File)+":"+s.Qualified)
	}
	assert.Equal(t, []string{"shop.go:Item", "src/Outer.cs:Shop.Outer", "src/Outer.cs:Shop.Outer.Inner"}, names)

	one, err := r.Types(context.Background(), "src/Outer.cs")
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.True(t, one[1].Nested)
}
