// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mover runs a complete move against a directory: load the
// workspace, locate the type, split the file, write the result, verify it
// and record it in git.
package mover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-movetype/internal/frontend"
	gitpkg "github.com/petar-djukic/go-movetype/internal/git"
	"github.com/petar-djukic/go-movetype/internal/logging"
	"github.com/petar-djukic/go-movetype/internal/movetype"
	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/internal/verify"
	"github.com/petar-djukic/go-movetype/internal/workspace"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// ErrSourceHasErrors is returned when the source file does not parse
// cleanly. Moving out of a recovered tree could drop code.
var ErrSourceHasErrors = errors.New("source file has syntax errors")

// Request names the type to move.
type Request struct {
	File string // Source file, relative to WorkDir or absolute
	Type string // Type name, optionally qualified (Outer.Inner, Shop.Outer)
	Dest string // Destination file; empty derives it from the type name
}

// FileChange describes one file the move wrote or would write.
type FileChange struct {
	Path    string
	Created bool
	Content string
	Patch   string // Line diff against the previous content; set on dry runs
}

// RunResult holds the outcome of a Runner.Run invocation. This is the
// internal result type; pkg/mover converts it to the public Result.
type RunResult struct {
	Type        string
	Source      string
	Destination string
	Files       []FileChange
	Partial     []string // Containers marked partial
	Trace       []string // States the move passed through
	Errors      []string // Verification and commit problems after the move
	Committed   bool     // A git commit records the move
	Success     bool
}

// Deps holds injected dependencies for the runner. WorkDir is required;
// the other dependencies have defaults.
type Deps struct {
	WorkDir  string
	Registry *frontend.Registry // Defaults to frontend.Default()
	Loader   *workspace.Loader  // Defaults to a loader over Registry
	Logger   *slog.Logger       // Defaults to slog.Default()
	DryRun   bool               // Compute the move without writing
	Gofmt    bool               // Format Go output
	Verify   bool               // Build the workspace after writing
	TestCmd  string             // Run after a successful build when Verify is set
	NoGit    bool
}

// Runner orchestrates a move. It owns no workspace state; each Run loads a
// fresh snapshot, so a Runner may be reused for several moves in sequence.
type Runner struct {
	deps   Deps
	logger *slog.Logger
}

// NewRunner creates a Runner with the given dependencies, filling in the
// defaults. It fails only when the default loader cannot be built.
func NewRunner(deps Deps) (*Runner, error) {
	if deps.Registry == nil {
		deps.Registry = frontend.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Loader == nil {
		loader, err := workspace.NewLoader(deps.Registry, workspace.LoaderOptions{Logger: deps.Logger})
		if err != nil {
			return nil, err
		}
		deps.Loader = loader
	}
	return &Runner{deps: deps, logger: deps.Logger}, nil
}

// Run executes the move: handle git, load, locate, split and commit to
// disk, verify, then commit to git. Errors before the files are written
// are returned; problems after that land in RunResult.Errors.
//
// The destination defaults to the frontend's file name for the type, in
// the source file's directory. On a dry run the store is not rooted on
// disk, git is skipped and each FileChange carries a unified diff against
// the file's previous text.
func (r *Runner) Run(ctx context.Context, req Request) (*RunResult, error) {
	result := &RunResult{Type: req.Type}

	// Step 1: Handle git (dirty files).
	var gitRepo *gitpkg.Repo
	if !r.deps.NoGit && !r.deps.DryRun {
		repo, err := gitpkg.Open(gitpkg.Config{
			WorkDir:     r.deps.WorkDir,
			AutoCommit:  true,
			DirtyCommit: true,
		})
		if err == nil {
			gitRepo = repo
			if err := repo.HandleDirty(); err != nil {
				return result, fmt.Errorf("handling dirty files: %w", err)
			}
		} else {
			r.logger.Debug("git disabled", slog.String("reason", err.Error()))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Step 2: Load the workspace.
	snap, scanErrs, err := r.deps.Loader.Load(ctx, r.deps.WorkDir)
	if err != nil {
		return result, fmt.Errorf("loading workspace: %w", err)
	}
	for _, se := range scanErrs {
		r.logger.Warn("file not parsed cleanly", slog.String("file", string(se.ID)), slog.String("error", se.Err.Error()))
	}

	// Step 3: Locate the source document and the type.
	srcID, err := r.fileID(req.File)
	if err != nil {
		return result, err
	}
	result.Source = string(srcID)

	doc, ok := snap.Document(srcID)
	if !ok {
		return result, fmt.Errorf("%w: %s", workspace.ErrFileNotFound, srcID)
	}
	if doc.HasErrors {
		return result, fmt.Errorf("%w: %s", ErrSourceHasErrors, srcID)
	}
	fe, err := r.deps.Registry.For(srcID)
	if err != nil {
		return result, err
	}
	target, err := frontend.FindType(doc.Tree, req.Type)
	if err != nil {
		return result, fmt.Errorf("%s: %w", srcID, err)
	}
	result.Type = frontend.QualifiedName(doc.Tree, target)

	var destID types.FileID
	if req.Dest == "" {
		destID = types.NewFileID(path.Join(srcID.Dir(), fe.DefaultFileName(target.Name)))
	} else if destID, err = r.fileID(req.Dest); err != nil {
		return result, err
	}
	result.Destination = string(destID)

	// Step 4: Split and write.
	logger := logging.WithFile(r.logger, result.Source)
	root := r.deps.WorkDir
	if r.deps.DryRun {
		root = ""
	}
	store := workspace.NewStore(snap, workspace.StoreOptions{
		Root:   root,
		Gofmt:  r.deps.Gofmt,
		Logger: logger,
	})
	splitter := movetype.NewSplitter(store, movetype.Options{
		Classifier: fe.Classifier(),
		Symbols:    fe.Symbols(),
		Imports:    fe.Imports(snap),
		Logger:     logger,
	})
	moved, err := splitter.Split(ctx, movetype.Request{
		Source:      srcID,
		Target:      target,
		Destination: destID,
	})
	if err != nil {
		return result, err
	}

	for _, st := range moved.Trace {
		result.Trace = append(result.Trace, st.String())
	}
	for _, id := range moved.Partial {
		if n, ok := moved.UpdatedTree.Lookup(id); ok {
			result.Partial = append(result.Partial, frontend.QualifiedName(moved.UpdatedTree, n))
		}
	}
	for _, f := range moved.Files {
		change := FileChange{Path: string(f.ID), Created: f.Created, Content: string(f.Content)}
		if r.deps.DryRun {
			change.Patch = unifiedDiff(string(f.ID), previousText(snap, f.ID), change.Content)
		}
		result.Files = append(result.Files, change)
	}
	result.Success = true

	if r.deps.DryRun {
		return result, nil
	}

	// Step 5: Verify the build.
	if r.deps.Verify {
		r.verify(ctx, doc.Lang, result)
	}

	// Step 6: Auto-commit on success.
	if result.Success && gitRepo != nil {
		err := gitRepo.AutoCommit(gitpkg.Move{
			Type:        target.Name,
			Source:      filepath.FromSlash(result.Source),
			Destination: filepath.FromSlash(result.Destination),
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("auto-commit failed: %v", err))
		} else {
			result.Committed = true
		}
	}

	return result, nil
}

// verify builds the workspace and records diagnostics on result.
func (r *Runner) verify(ctx context.Context, lang types.Language, result *RunResult) {
	if !verify.Supports(lang) {
		r.logger.Debug("verification skipped", slog.String("language", string(lang)))
		return
	}
	vr, err := verify.Run(ctx, verify.Config{
		WorkDir: r.deps.WorkDir,
		Lang:    lang,
		TestCmd: r.deps.TestCmd,
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("verification failed: %v", err))
		result.Success = false
		return
	}
	if vr.Success() {
		return
	}
	result.Success = false
	for _, d := range vr.Diagnostics {
		result.Errors = append(result.Errors, d.String())
	}
	if !vr.TestOK && vr.TestOutput != "" {
		result.Errors = append(result.Errors, "test failure: "+vr.TestOutput)
	}
	if len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "build failed: "+strings.TrimSpace(vr.BuildOut+vr.VetOut))
	}
}

// fileID turns a user-supplied path into a workspace FileID.
func (r *Runner) fileID(p string) (types.FileID, error) {
	if p == "" {
		return "", errors.New("no source file given")
	}
	if filepath.IsAbs(p) {
		root, err := filepath.Abs(r.deps.WorkDir)
		if err != nil {
			return "", fmt.Errorf("resolving work directory: %w", err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%s is outside %s", p, root)
		}
		p = rel
	}
	return types.NewFileID(p), nil
}

// previousText returns the committed text of id before the move, or "" for
// a new file.
func previousText(snap *workspace.Snapshot, id types.FileID) string {
	tree, ok := snap.Tree(id)
	if !ok {
		return ""
	}
	return syntax.Render(tree)
}
