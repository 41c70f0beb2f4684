// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mover

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 3

// unifiedDiff renders a line diff of before and after in the familiar
// ---/+++ layout. Runs of unchanged lines longer than twice diffContext are
// elided. Returns "" when nothing changed.
func unifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	if before == "" {
		out.WriteString("--- /dev/null\n")
	} else {
		out.WriteString("--- a/" + name + "\n")
	}
	out.WriteString("+++ b/" + name + "\n")

	for i, d := range diffs {
		text := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writeLines(&out, "+", text)
		case diffmatchpatch.DiffDelete:
			writeLines(&out, "-", text)
		case diffmatchpatch.DiffEqual:
			head, tail := diffContext, diffContext
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}
			if len(text) <= head+tail {
				writeLines(&out, " ", text)
				continue
			}
			writeLines(&out, " ", text[:head])
			out.WriteString("@@\n")
			writeLines(&out, " ", text[len(text)-tail:])
		}
	}
	return out.String()
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(out *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		out.WriteString(prefix)
		out.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			out.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
