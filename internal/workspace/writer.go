// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// pendingFile is one file of an atomic write set.
type pendingFile struct {
	path    string
	content []byte
	create  bool // The file must not exist yet

	tmp      string
	perm     os.FileMode
	original []byte // Content before the write; nil for created files
	existed  bool
}

// writeSet writes every file or none. All content is first written to temp
// files next to the targets; the temp files are then renamed into place. If
// a rename fails, the files already renamed are restored to their previous
// content (or removed when they were created).
func writeSet(files []*pendingFile) (err error) {
	defer func() {
		if err != nil {
			for _, f := range files {
				if f.tmp != "" {
					os.Remove(f.tmp)
				}
			}
		}
	}()

	for _, f := range files {
		if err := stage(f); err != nil {
			return err
		}
	}

	for i, f := range files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			rollback(files[:i])
			return fmt.Errorf("renaming temp file to %s: %w", f.path, err)
		}
		f.tmp = ""
	}

	return nil
}

// stage records the file's current state and writes its new content to a
// temp file in the same directory.
func stage(f *pendingFile) error {
	f.perm = os.FileMode(0o644)
	info, err := os.Stat(f.path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s is a directory", f.path)
	case err == nil && f.create:
		return fmt.Errorf("%w: %s", ErrFileExists, f.path)
	case err == nil:
		f.perm = info.Mode().Perm()
		f.existed = true
		if f.original, err = os.ReadFile(f.path); err != nil {
			return fmt.Errorf("reading %s: %w", f.path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".go-movetype-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	f.tmp = tmp.Name()

	if _, err := tmp.Write(f.content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(f.tmp, f.perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	return nil
}

// rollback undoes renames that already happened.
func rollback(done []*pendingFile) {
	for _, f := range done {
		if !f.existed {
			os.Remove(f.path)
			continue
		}
		os.WriteFile(f.path, f.original, f.perm)
	}
}
