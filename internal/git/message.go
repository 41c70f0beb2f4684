// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
)

const maxSubjectLength = 72

// GenerateMessage returns the conventional commit message for moving
// typeName out of source into dest.
func GenerateMessage(typeName, dest, source string) string {
	subject := fmt.Sprintf("refactor: move %s to %s", typeName, dest)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}

	var buf strings.Builder
	buf.WriteString(subject)
	buf.WriteString("\n\n")
	buf.WriteString("Created:\n")
	buf.WriteString(fmt.Sprintf("- %s\n", dest))
	buf.WriteString("Modified:\n")
	buf.WriteString(fmt.Sprintf("- %s\n", source))
	buf.WriteString("\n")
	buf.WriteString(movedByTrailer)
	return buf.String()
}
