package codeimport

import (
	"regexp"
	"strconv"
)

// referencePattern is the whole reference grammar:
//
//	<path>[#[L[<from>]][-][L<to>]]
//
// A bare "L" before the dash stands for an absent start, so "#L-L10" selects
// lines 1 through 10.
//
// The path is lazy so that a trailing selector is always split off, and it may
// be empty so that "#L1" is reported as an empty path rather than silently
// read as a file named "#L1".
var referencePattern = regexp.MustCompile(`^(?P<path>.*?)(?:#(?:L(?P<from>\d+)?)?(?P<dash>-)?(?:L(?P<to>\d+))?)?$`)

var (
	groupPath = referencePattern.SubexpIndex("path")
	groupFrom = referencePattern.SubexpIndex("from")
	groupDash = referencePattern.SubexpIndex("dash")
	groupTo   = referencePattern.SubexpIndex("to")
)

// Selection is a line selector. Start and End are 1-based; zero means absent.
// When IsRange is false End is ignored and exactly one line is selected.
type Selection struct {
	Start   int  `json:"start,omitempty"`
	End     int  `json:"end,omitempty"`
	IsRange bool `json:"is_range"`
}

// Reference is a parsed reference string: a raw (unresolved) path plus a
// line selector.
type Reference struct {
	Path string `json:"path"`
	Selection
}

// ParseReference decomposes s into a Reference.
//
//	src/lib.rs          whole file
//	src/lib.rs#L5       line 5
//	src/lib.rs#L5-      line 5 through the open-range end
//	src/lib.rs#L5-L10   lines 5..10
//	src/lib.rs#L-L10    lines 1..10
func ParseReference(s string) (Reference, error) {
	m := referencePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return Reference{}, newError(InvalidReference, nil, "invalid reference %q", s)
	}

	captured := func(group int) (string, bool) {
		if m[2*group] < 0 {
			return "", false
		}
		return s[m[2*group]:m[2*group+1]], true
	}

	path, _ := captured(groupPath)
	if path == "" {
		return Reference{}, newError(InvalidReference, nil, "invalid reference %q: empty path", s)
	}

	fromText, hasFrom := captured(groupFrom)
	_, hasDash := captured(groupDash)
	toText, hasTo := captured(groupTo)

	ref := Reference{Path: path}
	if hasFrom {
		ref.Start = LenientLineNumber(fromText)
	}
	if hasTo {
		ref.End = LenientLineNumber(toText)
	}
	// A selector without a start ("", "#", "#-L10") is always a range.
	ref.IsRange = hasDash || !hasFrom
	return ref, nil
}

// LenientLineNumber parses a captured line number under the permissive
// policy: text that fails to parse as a base-10 integer, and zero, both
// yield 0 (absent) instead of an error.
func LenientLineNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FirstLine returns the effective 1-based first line.
func (s Selection) FirstLine() int {
	if s.Start > 0 {
		return s.Start
	}
	return 1
}

// LastLine returns the effective 1-based last line for a file split into
// lineCount elements.
func (s Selection) LastLine(lineCount int) int {
	switch {
	case !s.IsRange:
		return s.FirstLine()
	case s.End > 0:
		return s.End
	default:
		return OpenRangeEnd(lineCount)
	}
}

// OpenRangeEnd is the last line selected by a range without an end bound.
//
// It is lineCount-1, so the final element of the split is excluded. For
// newline-terminated content that element is the empty string after the last
// terminator; for content without a trailing terminator it is the real last
// line, which is then dropped. This boundary is observable and kept as is.
func OpenRangeEnd(lineCount int) int {
	return lineCount - 1
}
