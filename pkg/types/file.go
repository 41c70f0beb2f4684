// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"path"
	"path/filepath"
	"strings"
)

// FileID identifies a document inside a workspace. It is a cleaned,
// slash-separated path relative to the workspace root.
type FileID string

// NewFileID normalizes p into a FileID.
func NewFileID(p string) FileID {
	p = filepath.ToSlash(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	return FileID(strings.TrimPrefix(path.Clean(p), "./"))
}

func (id FileID) String() string { return string(id) }

// Dir returns the directory part of the id ("." for top-level files).
func (id FileID) Dir() string { return path.Dir(string(id)) }

// Ext returns the lower-cased file extension including the dot.
func (id FileID) Ext() string { return strings.ToLower(path.Ext(string(id))) }

// Language names a source language handled by a frontend.
type Language string

const (
	LangGo     Language = "go"
	LangCSharp Language = "csharp"
)
