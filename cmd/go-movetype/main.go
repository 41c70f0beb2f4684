// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-movetype moves a type declaration into a file of its own.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree and binds global flags to viper.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "go-movetype",
		Short:        "Move a type into its own file",
		Long:         "go-movetype moves a type declaration out of a Go or C# file into a new file, keeping the enclosing namespaces, types and comments intact.",
		SilenceUsage: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Workspace root directory")
	rootCmd.PersistentFlags().Bool("no-git", false, "Disable git operations")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log JSON lines")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("no-git", rootCmd.PersistentFlags().Lookup("no-git"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))

	// Env vars: GO_MOVETYPE_WORKDIR, GO_MOVETYPE_LOG_LEVEL, etc.
	viper.SetEnvPrefix("GO_MOVETYPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-movetype")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-movetype version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-movetype %s\n", version)
		},
	}
}
