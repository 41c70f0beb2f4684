// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git records a move as a commit of the two files it touched, and
// undoes such a commit.
package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	movedByTrailer = "Moved-By: go-movetype"
	dirtyCommitMsg = "go-movetype: save uncommitted changes before move"
)

// ErrNotMoveCommit is returned when undo targets a commit go-movetype did
// not make.
var ErrNotMoveCommit = errors.New("HEAD is not a go-movetype commit")

// ErrDirtyWorkTree is returned when uncommitted changes exist and
// DirtyCommit is false.
var ErrDirtyWorkTree = errors.New("uncommitted changes exist")

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures git integration.
type Config struct {
	WorkDir     string // Repository working directory
	AutoCommit  bool   // Commit the moved files
	DirtyCommit bool   // Commit dirty files before moving
}

// Repo wraps a go-git repository.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
}

// Open opens the repository containing cfg.WorkDir. Returns ErrNoGit if
// there is none.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// IsDirty returns true if the working tree has staged or unstaged changes.
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// IsMoveCommit checks whether HEAD carries the Moved-By trailer.
func (r *Repo) IsMoveCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, movedByTrailer), nil
}

// lastCommitMessage returns the message of the HEAD commit.
func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting commit: %w", err)
	}
	return commit.Message, nil
}

// commitCount returns the number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}

// relPath returns path relative to the worktree root, slash separated.
func (r *Repo) relPath(path string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return relativeTo(wt.Filesystem.Root(), path)
}
