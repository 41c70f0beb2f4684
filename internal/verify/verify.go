// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify builds the workspace after a move and reports the
// compiler diagnostics it produced.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/petar-djukic/go-movetype/pkg/types"
)

const (
	defaultCmdTimeout  = 60 * time.Second
	defaultTestTimeout = 120 * time.Second
)

// ErrNoToolchain is returned for languages without a build command.
var ErrNoToolchain = errors.New("no build toolchain for language")

// Diagnostic is a single compiler or vet message.
type Diagnostic struct {
	FilePath string // Source file path as printed by the tool
	Line     int    // 1-based
	Column   int    // 1-based, 0 if not available
	Message  string
}

func (d Diagnostic) String() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", d.FilePath, d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s", d.FilePath, d.Line, d.Message)
}

// Result holds the outcome of build, vet and test.
type Result struct {
	BuildOK     bool // Build succeeded
	VetOK       bool // Vet succeeded; true when the language has no vet step
	TestOK      bool // Test succeeded; true when no test command is set
	Diagnostics []Diagnostic
	BuildOut    string
	VetOut      string
	TestOutput  string
}

// Success reports whether every step passed.
func (r *Result) Success() bool {
	return r.BuildOK && r.VetOK && r.TestOK
}

// Config configures a verification run.
type Config struct {
	WorkDir     string         // Directory the commands run in
	Lang        types.Language // Selects the toolchain
	TestCmd     string         // Test command, empty to skip
	CmdTimeout  time.Duration  // Build and vet timeout (default 60s)
	TestTimeout time.Duration  // Test timeout (default 120s)
}

// toolchain lists the commands run for one language.
type toolchain struct {
	build []string
	vet   []string
	parse func(string) []Diagnostic
}

var toolchains = map[types.Language]toolchain{
	types.LangGo: {
		build: []string{"go", "build", "./..."},
		vet:   []string{"go", "vet", "./..."},
		parse: parseGoDiagnostics,
	},
	types.LangCSharp: {
		build: []string{"dotnet", "build", "--nologo"},
		parse: parseCSharpDiagnostics,
	},
}

// Supports reports whether Run can verify lang.
func Supports(lang types.Language) bool {
	_, ok := toolchains[lang]
	return ok
}

// Run builds, vets and tests the workspace in that order. Vet is skipped
// when the build fails and the test command when either fails.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	tc, ok := toolchains[cfg.Lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoToolchain, cfg.Lang)
	}

	cmdTimeout := cfg.CmdTimeout
	if cmdTimeout == 0 {
		cmdTimeout = defaultCmdTimeout
	}
	testTimeout := cfg.TestTimeout
	if testTimeout == 0 {
		testTimeout = defaultTestTimeout
	}

	result := &Result{VetOK: true, TestOK: true}

	buildOut, buildErr := runCommand(ctx, cfg.WorkDir, cmdTimeout, tc.build[0], tc.build[1:]...)
	result.BuildOut = buildOut
	result.BuildOK = buildErr == nil
	if !result.BuildOK {
		result.VetOK = false
		result.Diagnostics = tc.parse(buildOut)
		return result, nil
	}

	if len(tc.vet) > 0 {
		vetOut, vetErr := runCommand(ctx, cfg.WorkDir, cmdTimeout, tc.vet[0], tc.vet[1:]...)
		result.VetOut = vetOut
		result.VetOK = vetErr == nil
		if !result.VetOK {
			result.Diagnostics = append(result.Diagnostics, tc.parse(vetOut)...)
		}
	}

	testParts := strings.Fields(cfg.TestCmd)
	if len(testParts) == 0 {
		return result, nil
	}
	if !result.VetOK {
		result.TestOK = false
		return result, nil
	}

	testOut, testErr := runCommand(ctx, cfg.WorkDir, testTimeout, testParts[0], testParts[1:]...)
	result.TestOutput = testOut
	result.TestOK = testErr == nil
	return result, nil
}

// runCommand executes a command with a timeout and captures combined output.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}

// goDiagnostic matches file.go:10:5: message and file.go:10: message.
var goDiagnostic = regexp.MustCompile(`^(.+?\.go):(\d+)(?::(\d+))?: (.+)$`)

// csharpDiagnostic matches File.cs(10,5): error CS0246: message [project].
var csharpDiagnostic = regexp.MustCompile(`^(.+?\.cs)\((\d+),(\d+)\): (?:error|warning) (.+?)(?: \[[^\]]*\])?$`)

func parseGoDiagnostics(output string) []Diagnostic {
	return parseDiagnostics(output, goDiagnostic)
}

func parseCSharpDiagnostics(output string) []Diagnostic {
	return dedupe(parseDiagnostics(output, csharpDiagnostic))
}

func parseDiagnostics(output string, re *regexp.Regexp) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		col := 0
		if m[3] != "" {
			col, _ = strconv.Atoi(m[3])
		}
		diags = append(diags, Diagnostic{FilePath: m[1], Line: lineNum, Column: col, Message: m[4]})
	}
	return diags
}

// dedupe drops repeats; dotnet prints every diagnostic again in its summary.
func dedupe(diags []Diagnostic) []Diagnostic {
	seen := make(map[Diagnostic]bool, len(diags))
	out := diags[:0]
	for _, d := range diags {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
