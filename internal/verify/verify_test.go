// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-movetype/pkg/types"
)

func TestRun_BuildErrorAfterMove(t *testing.T) {
	dir := setupGoModule(t, map[string]string{
		"shop/order.go": `package shop

type Order struct{ Lines []Line }
`,
		"shop/line.go": `package shop

type Line struct{ price money }
`,
	})

	result, err := Run(context.Background(), Config{WorkDir: dir, Lang: types.LangGo})
	require.NoError(t, err)

	assert.False(t, result.BuildOK)
	assert.False(t, result.VetOK)
	assert.False(t, result.Success())
	assert.Empty(t, result.VetOut, "vet is skipped when the build fails")
	require.NotEmpty(t, result.Diagnostics)

	found := false
	for _, d := range result.Diagnostics {
		if filepath.Base(d.FilePath) == "line.go" {
			found = true
			assert.Equal(t, 3, d.Line)
			assert.Contains(t, d.Message, "money")
		}
	}
	assert.True(t, found, "expected a diagnostic in line.go, got: %v", result.Diagnostics)
}

func TestRun_VetFindingCaptured(t *testing.T) {
	dir := setupGoModule(t, map[string]string{
		"main.go": `package main

import "fmt"

func main() {
    return
    fmt.Println("unreachable")
}
`,
	})

	result, err := Run(context.Background(), Config{WorkDir: dir, Lang: types.LangGo})
	require.NoError(t, err)

	assert.True(t, result.BuildOK, "build should succeed: %s", result.BuildOut)
	assert.False(t, result.VetOK)
	assert.Contains(t, result.VetOut, "unreachable")
}

func TestRun_TestFailureDetected(t *testing.T) {
	dir := setupGoModule(t, map[string]string{
		"math.go": `package main

func Add(a, b int) int { return a - b }
`,
		"math_test.go": `package main

import "testing"

func TestAdd(t *testing.T) {
    if Add(2, 3) != 5 {
        t.Fatal("expected 5")
    }
}
`,
		"main.go": "package main\n\nfunc main() {}\n",
	})

	result, err := Run(context.Background(), Config{
		WorkDir: dir,
		Lang:    types.LangGo,
		TestCmd: "go test ./...",
	})
	require.NoError(t, err)

	assert.True(t, result.BuildOK)
	assert.True(t, result.VetOK)
	assert.False(t, result.TestOK)
	assert.Contains(t, result.TestOutput, "FAIL")
	assert.False(t, result.Success())
}

func TestRun_SuccessfulBuild(t *testing.T) {
	dir := setupGoModule(t, map[string]string{
		"order.go": "package shop\n\ntype Order struct{ Lines []Line }\n",
		"line.go":  "package shop\n\ntype Line struct{ Price int }\n",
	})

	result, err := Run(context.Background(), Config{WorkDir: dir, Lang: types.LangGo})
	require.NoError(t, err)

	assert.True(t, result.BuildOK)
	assert.True(t, result.VetOK)
	assert.True(t, result.TestOK)
	assert.True(t, result.Success())
	assert.Empty(t, result.Diagnostics)
}

func TestRun_ContextCancellation(t *testing.T) {
	dir := setupGoModule(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, Config{WorkDir: dir, Lang: types.LangGo})
	require.NoError(t, err)
	assert.False(t, result.BuildOK)
}

func TestRun_UnknownLanguage(t *testing.T) {
	_, err := Run(context.Background(), Config{WorkDir: t.TempDir(), Lang: "cobol"})
	assert.ErrorIs(t, err, ErrNoToolchain)
	assert.False(t, Supports("cobol"))
	assert.True(t, Supports(types.LangGo))
	assert.True(t, Supports(types.LangCSharp))
}

func TestParseGoDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantLen int
		check   func(t *testing.T, diags []Diagnostic)
	}{
		{
			name:    "with column",
			output:  "./main.go:4:5: expected operand, found '}'",
			wantLen: 1,
			check: func(t *testing.T, diags []Diagnostic) {
				assert.Equal(t, "./main.go", diags[0].FilePath)
				assert.Equal(t, 4, diags[0].Line)
				assert.Equal(t, 5, diags[0].Column)
				assert.Contains(t, diags[0].Message, "expected operand")
			},
		},
		{
			name:    "without column",
			output:  "main.go:10: undefined: foo",
			wantLen: 1,
			check: func(t *testing.T, diags []Diagnostic) {
				assert.Equal(t, 10, diags[0].Line)
				assert.Equal(t, 0, diags[0].Column)
			},
		},
		{
			name:    "package header ignored",
			output:  "# example.com/shop\n./line.go:3:25: undefined: money\n",
			wantLen: 1,
		},
		{
			name:    "empty",
			output:  "",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := parseGoDiagnostics(tt.output)
			assert.Len(t, diags, tt.wantLen)
			if tt.check != nil {
				tt.check(t, diags)
			}
		})
	}
}

func TestParseCSharpDiagnostics(t *testing.T) {
	output := `  Shop -> /src/Shop/bin/Debug/net8.0/Shop.dll
/src/Shop/Inner.cs(7,12): error CS0246: The type or namespace name 'Price' could not be found [/src/Shop/Shop.csproj]
/src/Shop/Outer.cs(3,1): warning CS8981: The type name 'x' only contains lower-cased ascii characters. [/src/Shop/Shop.csproj]

Build FAILED.

/src/Shop/Inner.cs(7,12): error CS0246: The type or namespace name 'Price' could not be found [/src/Shop/Shop.csproj]
`
	diags := parseCSharpDiagnostics(output)
	require.Len(t, diags, 2)

	assert.Equal(t, "/src/Shop/Inner.cs", diags[0].FilePath)
	assert.Equal(t, 7, diags[0].Line)
	assert.Equal(t, 12, diags[0].Column)
	assert.Equal(t, "CS0246: The type or namespace name 'Price' could not be found", diags[0].Message)
	assert.Equal(t, "/src/Shop/Inner.cs:7:12: CS0246: The type or namespace name 'Price' could not be found", diags[0].String())

	assert.Equal(t, 3, diags[1].Line)
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{FilePath: "main.go", Line: 10, Message: "undefined: foo"}
	assert.Equal(t, "main.go:10: undefined: foo", d.String())
}

func TestResult_Success(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want bool
	}{
		{"all ok", Result{BuildOK: true, VetOK: true, TestOK: true}, true},
		{"build failed", Result{BuildOK: false, VetOK: true, TestOK: true}, false},
		{"vet failed", Result{BuildOK: true, VetOK: false, TestOK: true}, false},
		{"test failed", Result{BuildOK: true, VetOK: true, TestOK: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Success())
		})
	}
}

// setupGoModule creates a temporary Go module with the given files.
func setupGoModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	goMod := "module example.com/shop\n\ngo 1.21\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0o644))

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
