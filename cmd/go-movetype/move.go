// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/go-movetype/internal/git"
	"github.com/petar-djukic/go-movetype/pkg/mover"
)

// newMoveCmd creates the "move" command.
func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a type into its own file",
		Long:  "Move locates a type in a source file, writes it to a new file together with its enclosing namespaces and types, and removes it from the source.",
		RunE:  runMove,
	}

	cmd.Flags().StringP("file", "f", "", "Source file holding the type (required)")
	cmd.Flags().StringP("type", "t", "", "Type to move, optionally qualified as Outer.Inner (required)")
	cmd.Flags().StringP("dest", "d", "", "Destination file (default: derived from the type name)")
	cmd.Flags().Bool("dry-run", false, "Print the changes without writing them")
	cmd.Flags().Bool("gofmt", true, "Format Go output")
	cmd.Flags().Bool("verify", false, "Build the workspace after the move")
	cmd.Flags().String("test-cmd", "", "Test command run after verification (e.g., 'go test ./...')")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("type")

	viper.BindPFlag("gofmt", cmd.Flags().Lookup("gofmt"))
	viper.BindPFlag("verify", cmd.Flags().Lookup("verify"))
	viper.BindPFlag("test-cmd", cmd.Flags().Lookup("test-cmd"))

	return cmd
}

// runMove executes the move.
func runMove(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	typeName, _ := cmd.Flags().GetString("type")
	dest, _ := cmd.Flags().GetString("dest")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg := config()
	cfg.DryRun = dryRun
	cfg.Gofmt = viper.GetBool("gofmt")
	cfg.Verify = viper.GetBool("verify")
	cfg.TestCmd = viper.GetString("test-cmd")

	m, err := mover.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := m.Move(ctx, mover.Request{File: file, Type: typeName, Dest: dest})
	if err != nil {
		return err
	}

	if dryRun {
		for _, f := range result.Files {
			fmt.Fprint(cmd.OutOrStdout(), f.Patch)
		}
		return nil
	}
	printJSON(cmd.OutOrStdout(), result)
	if !result.Success {
		return fmt.Errorf("move of %s finished with %d error(s)", result.Type, len(result.Errors))
	}
	return nil
}

// newTypesCmd creates the "types" command.
func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types [file]",
		Short: "List the types declared in the workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mover.New(config())
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			infos, err := m.Types(cmd.Context(), file)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\n", info.File, info.Qualified)
			}
			return w.Flush()
		},
	}
	return cmd
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-movetype commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by go-movetype.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: viper.GetString("workdir")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Successfully reverted last go-movetype commit.")
			return nil
		},
	}
}

// config reads the global settings.
func config() mover.Config {
	return mover.Config{
		WorkDir:  viper.GetString("workdir"),
		NoGit:    viper.GetBool("no-git"),
		LogLevel: viper.GetString("log-level"),
		LogJSON:  viper.GetBool("log-json"),
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(out))
}
