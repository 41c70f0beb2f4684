// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mover

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/petar-djukic/go-movetype/internal/frontend"
	"github.com/petar-djukic/go-movetype/internal/logging"
	internalmover "github.com/petar-djukic/go-movetype/internal/mover"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

const defaultLogLevel = "info"

// New validates the config and returns a ready-to-use Mover. It does not
// load the workspace; that happens in Move.
//
// New sets up the logger from LogLevel and LogJSON and registers the Go and
// C# frontends. Validation errors wrap ErrInvalidConfig.
func New(cfg Config) (Mover, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	format := "text"
	if cfg.LogJSON {
		format = "json"
	}
	logger := logging.New(cfg.LogLevel, format)

	registry := frontend.Default()
	runner, err := internalmover.NewRunner(internalmover.Deps{
		WorkDir:  cfg.WorkDir,
		Registry: registry,
		Logger:   logger,
		DryRun:   cfg.DryRun,
		Gofmt:    cfg.Gofmt,
		Verify:   cfg.Verify,
		TestCmd:  cfg.TestCmd,
		NoGit:    cfg.NoGit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &moverAdapter{runner: runner, registry: registry}, nil
}

// moverAdapter adapts internal/mover.Runner to the public Mover interface.
type moverAdapter struct {
	runner   *internalmover.Runner
	registry *frontend.Registry
}

func (a *moverAdapter) Move(ctx context.Context, req Request) (*Result, error) {
	if err := a.validateRequest(req); err != nil {
		return &Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ir, err := a.runner.Run(ctx, internalmover.Request{File: req.File, Type: req.Type, Dest: req.Dest})
	if ir == nil {
		return &Result{}, err
	}
	result := &Result{
		Type:        ir.Type,
		Source:      ir.Source,
		Destination: ir.Destination,
		Partial:     ir.Partial,
		Trace:       ir.Trace,
		Errors:      ir.Errors,
		Committed:   ir.Committed,
		Success:     ir.Success && err == nil,
	}
	for _, f := range ir.Files {
		result.Files = append(result.Files, FileChange{Path: f.Path, Created: f.Created, Patch: f.Patch})
	}
	return result, err
}

func (a *moverAdapter) Types(ctx context.Context, file string) ([]TypeInfo, error) {
	syms, err := a.runner.Types(ctx, file)
	if err != nil {
		return nil, err
	}
	out := make([]TypeInfo, 0, len(syms))
	for _, s := range syms {
		out = append(out, TypeInfo{
			Name:      s.Name,
			Qualified: s.Qualified,
			File:      string(s.File),
			Nested:    s.Nested,
			Partial:   s.Partial,
		})
	}
	return out, nil
}

// validateRequest checks that the request names a type in a supported file.
func (a *moverAdapter) validateRequest(req Request) error {
	if strings.TrimSpace(req.File) == "" {
		return fmt.Errorf("File is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		return fmt.Errorf("Type is required")
	}
	if !a.registry.Supports(types.NewFileID(req.File)) {
		return fmt.Errorf("unsupported source file %q, want one of %s", req.File, strings.Join(a.registry.Extensions(), ", "))
	}
	if req.Dest != "" && types.NewFileID(req.Dest).Ext() != types.NewFileID(req.File).Ext() {
		return fmt.Errorf("destination %q must have the source's extension", req.Dest)
	}
	return nil
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown LogLevel %q", cfg.LogLevel)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}
