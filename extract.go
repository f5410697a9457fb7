package codeimport

import (
	"runtime"
	"strings"
)

// Line separators accepted by WithLineSeparator.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// HostLineSeparator returns the line terminator of the platform producing the
// documentation. It is what content is split on unless an Importer is given
// another separator; the file's own convention is not detected.
func HostLineSeparator() string {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

// ExtractLines splits content on sep and returns the lines chosen by sel.
//
// Out-of-range bounds clamp instead of failing, and a start past the end
// yields an empty slice. The result never aliases the split of content.
func ExtractLines(content string, sel Selection, sep string) []string {
	if sep == "" {
		sep = HostLineSeparator()
	}
	lines := strings.Split(content, sep)

	from := sel.FirstLine() - 1
	to := sel.LastLine(len(lines))
	from = min(from, len(lines))
	to = min(max(to, 0), len(lines))
	if from >= to {
		return []string{}
	}

	out := make([]string, to-from)
	copy(out, lines[from:to])
	return out
}
