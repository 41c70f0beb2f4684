// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mover

import (
	"context"
	"fmt"
	"sort"

	"github.com/petar-djukic/go-movetype/internal/frontend"
	"github.com/petar-djukic/go-movetype/pkg/types"
)

// Types lists the type declarations of the workspace, or of one file when
// file is not empty, ordered by file and qualified name.
func (r *Runner) Types(ctx context.Context, file string) ([]types.Symbol, error) {
	snap, _, err := r.deps.Loader.Load(ctx, r.deps.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	table := frontend.BuildSymbolTable(snap)

	var syms []types.Symbol
	if file == "" {
		syms = table.All()
	} else {
		id, err := r.fileID(file)
		if err != nil {
			return nil, err
		}
		syms = table.ByFile(id)
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].File != syms[j].File {
			return syms[i].File < syms[j].File
		}
		return syms[i].Qualified < syms[j].Qualified
	})
	return syms, nil
}
