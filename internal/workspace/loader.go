// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/petar-djukic/go-movetype/internal/syntax"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

const defaultCacheSize = 4096

// skipDirs contains directory names that Load skips.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
}

// Parser turns source files into trees.
type Parser interface {
	// Supports reports whether the parser handles the file.
	Supports(id types.FileID) bool

	// Parse parses src. When the source has syntax errors it returns the
	// recovered tree together with a non-nil error.
	Parse(ctx context.Context, id types.FileID, src []byte) (*syntax.Tree, error)
}

// ScanError records a parse failure for a single file.
type ScanError struct {
	ID  types.FileID
	Err error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Concurrency int          // Parser goroutines; defaults to runtime.NumCPU()
	CacheSize   int          // Parsed documents kept between loads
	Logger      *slog.Logger // Defaults to slog.Default()
}

// cacheEntry stores a parsed document keyed by path, valid while the file's
// size and modification time are unchanged.
type cacheEntry struct {
	modTime time.Time
	size    int64
	doc     *Document
	err     error
}

// Loader parses the supported files under a root into a Snapshot.
type Loader struct {
	parser Parser
	opts   LoaderOptions
	cache  *lru.Cache[string, cacheEntry]
	logger *slog.Logger
}

// NewLoader returns a loader using parser.
func NewLoader(parser Parser, opts LoaderOptions) (*Loader, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, cacheEntry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating document cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{parser: parser, opts: opts, cache: cache, logger: logger}, nil
}

// Load walks the directory tree rooted at dir and parses every supported
// file with a bounded worker pool. Vendor, VCS, build output and gitignored
// paths are skipped.
//
// Parse errors for individual files are returned as ScanErrors but do not
// abort the load; documents with recovered errors are marked HasErrors.
func (l *Loader) Load(ctx context.Context, dir string) (*Snapshot, []ScanError, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving directory: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignorer := loadGitignore(absDir)

	var ids []types.FileID
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != absDir && (skipDirs[d.Name()] || ignorer.isIgnored(relPath)) {
				return filepath.SkipDir
			}
			return nil
		}
		id := types.NewFileID(relPath)
		if !l.parser.Supports(id) || ignorer.isIgnored(relPath) {
			return nil
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking directory: %w", err)
	}

	type parseResult struct {
		doc *Document
		err error
		id  types.FileID
	}

	jobs := make(chan types.FileID, len(ids))
	results := make(chan parseResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < l.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				doc, parseErr := l.loadFile(ctx, absDir, id)
				results <- parseResult{doc: doc, err: parseErr, id: id}
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var docs []*Document
	var scanErrs []ScanError
	for pr := range results {
		if pr.err != nil {
			scanErrs = append(scanErrs, ScanError{ID: pr.id, Err: pr.err})
		}
		// Even with errors, the parser may return a recovered tree.
		if pr.doc != nil {
			docs = append(docs, pr.doc)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	l.logger.Debug("workspace loaded",
		slog.String("root", absDir),
		slog.Int("documents", len(docs)),
		slog.Int("errors", len(scanErrs)))

	return NewSnapshot(docs...), scanErrs, nil
}

// loadFile returns the cached document for id or parses it.
func (l *Loader) loadFile(ctx context.Context, root string, id types.FileID) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(root, filepath.FromSlash(string(id)))
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if e, ok := l.cache.Get(path); ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.doc, e.err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tree, parseErr := l.parser.Parse(ctx, id, src)
	var doc *Document
	if tree != nil {
		doc = &Document{ID: id, Lang: LanguageOf(id), Tree: tree, HasErrors: parseErr != nil}
	}
	l.cache.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), doc: doc, err: parseErr})
	return doc, parseErr
}

// gitignorer provides simple .gitignore matching.
type gitignorer struct {
	patterns []string
}

// loadGitignore reads .gitignore from the root directory. If no .gitignore
// exists or it cannot be read, returns an ignorer that matches nothing.
func loadGitignore(root string) gitignorer {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return gitignorer{patterns: patterns}
}

// isIgnored checks whether a relative path matches any .gitignore pattern:
// directory prefixes and simple globs via filepath.Match.
func (g gitignorer) isIgnored(relPath string) bool {
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, pattern := range g.patterns {
		dirPattern := strings.TrimPrefix(strings.TrimSuffix(pattern, "/"), "/")
		for _, part := range parts {
			if matched, _ := filepath.Match(dirPattern, part); matched {
				return true
			}
		}
		if matched, _ := filepath.Match(dirPattern, relPath); matched {
			return true
		}
	}
	return false
}
