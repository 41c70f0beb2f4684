// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mover defines the public interface for go-movetype, which moves a
// type declaration into a file of its own.
//
// A Mover is bound to one workspace directory. Each Move call loads the Go
// and C# sources under that directory, removes the type from its file and
// writes it, with the imports and enclosing declarations it needs, to a new
// file. Containers that end up split across both files are marked partial
// where the language requires it. Both files are written together or not at
// all.
//
//	m, err := mover.New(mover.Config{WorkDir: ".", Gofmt: true})
//	if err != nil {
//		return err
//	}
//	res, err := m.Move(ctx, mover.Request{File: "order.go", Type: "Line"})
package mover

import (
	"context"
	"errors"
)

// Error types for the Mover API. Errors from New wrap ErrInvalidConfig and
// request validation failures from Move wrap ErrInvalidRequest.
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidRequest = errors.New("invalid request")
)

// Config configures a Mover instance. Only WorkDir is required; it must
// name an existing directory. With DryRun set, Move computes the result and
// a patch per file but touches neither the disk nor git.
type Config struct {
	WorkDir  string // Workspace root (required)
	DryRun   bool   // Compute the move without writing or committing
	Gofmt    bool   // Format Go output with gofmt
	Verify   bool   // Build the workspace after the move
	TestCmd  string // Test command run after verification (empty = skip)
	NoGit    bool   // Disable git operations
	LogLevel string // debug, info, warn or error (default info)
	LogJSON  bool   // Log JSON lines instead of text
}

// Request names the type to move and where it goes. Type may be a simple
// name or a dotted path through enclosing types and namespaces, such as
// Outer.Inner or Shop.Outer.Inner. Dest, when given, must use the same
// extension as File and must not exist yet.
type Request struct {
	File string // Source file relative to WorkDir, or absolute (required)
	Type string // Type name, optionally qualified with its enclosing types (required)
	Dest string // Destination file; empty derives it from the type name
}

// FileChange describes a file the move wrote.
type FileChange struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Patch   string `json:"patch,omitempty"` // Line diff; set on dry runs
}

// Result holds the outcome of a Mover.Move invocation. A non-nil Result
// with Success false means the files were written but verification or the
// git commit reported problems, listed in Errors.
type Result struct {
	Type        string       `json:"type"`              // Qualified name of the moved type
	Source      string       `json:"source"`            // File the type was moved out of
	Destination string       `json:"destination"`       // File created for the type
	Files       []FileChange `json:"files"`             // Files written
	Partial     []string     `json:"partial,omitempty"` // Containers marked partial
	Trace       []string     `json:"trace,omitempty"`   // States the move passed through
	Errors      []string     `json:"errors,omitempty"`  // Verification or commit problems
	Committed   bool         `json:"committed"`         // Recorded as a git commit
	Success     bool         `json:"success"`           // True if no errors remain
}

// TypeInfo describes a type declared in the workspace.
type TypeInfo struct {
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	File      string `json:"file"`
	Nested    bool   `json:"nested,omitempty"`
	Partial   bool   `json:"partial,omitempty"`
}

// Mover moves types between files of a workspace. A Mover holds no state
// between calls; every call loads the workspace afresh.
type Mover interface {
	// Move loads the workspace, moves the requested type into its own file,
	// writes both files atomically, optionally verifies the build and
	// commits the result.
	//
	// Unless NoGit or DryRun is set, uncommitted changes in the repository
	// are committed first so the move can be undone with a single revert.
	// Errors before any file is written are returned with an empty Result
	// and leave the workspace untouched.
	Move(ctx context.Context, req Request) (*Result, error)

	// Types lists the types declared in file, or in the whole workspace
	// when file is empty.
	Types(ctx context.Context, file string) ([]TypeInfo, error)
}
