// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "go-movetype"
	authorEmail = "noreply@go-movetype"
)

func signature() *object.Signature {
	return &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
}

// HandleDirty checks for uncommitted changes and either commits them
// separately or returns ErrDirtyWorkTree, depending on Config.DirtyCommit.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging dirty files: %w", err)
	}
	if _, err := wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing dirty files: %w", err)
	}
	return nil
}

// Move describes the files a move touched, as paths inside the work
// directory.
type Move struct {
	Type        string
	Source      string
	Destination string
}

// AutoCommit stages the source and destination of m and commits them with
// a message naming the moved type. It does nothing when Config.AutoCommit
// is false.
func (r *Repo) AutoCommit(m Move) error {
	if !r.cfg.AutoCommit {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	files := make([]string, 0, 2)
	for _, p := range []string{m.Destination, m.Source} {
		rel, err := r.relPath(filepath.Join(r.cfg.WorkDir, p))
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
		files = append(files, rel)
	}

	msg := GenerateMessage(m.Type, files[0], files[1])
	if _, err := wt.Commit(msg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Undo reverts HEAD if go-movetype made it, with the equivalent of
// git reset --soft HEAD~1 so that the changes stay staged.
func (r *Repo) Undo() error {
	isMove, err := r.IsMoveCommit()
	if err != nil {
		return err
	}
	if !isMove {
		return ErrNotMoveCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}
	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}
	return nil
}

func relativeTo(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(resolved, filepath.Base(absPath))
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}
