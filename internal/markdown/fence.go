// Package markdown finds fenced code blocks in Markdown documents, parses
// their info strings and rewrites block bodies.
package markdown

import (
	"regexp"
	"strings"
)

var (
	// Up to three spaces of indentation, then a run of at least three
	// backticks or tildes, then the info string.
	fenceOpenPattern  = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})(.*)$")
	fenceClosePattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t\r]*$")
)

// Fence is a fenced code block within a slice of document lines.
type Fence struct {
	Indent    string  // indentation of the opening fence
	Delimiter string  // opening run, e.g. "```" or "~~~~"
	Info      string  // raw info string, trimmed
	Lang      string  // first info token when it is not key=value
	Options   Options // remaining info tokens
	OpenLine  int     // 1-based line of the opening fence
	BodyStart int     // 0-based index of the first body line
	BodyEnd   int     // 0-based index one past the last body line
	Closed    bool    // false when the document ends inside the block
}

// Scan returns the fenced code blocks of lines in document order. A block
// ends at a closing run of the same character at least as long as the
// opening run; an unclosed block runs to the end of the document.
func Scan(lines []string) []Fence {
	var fences []Fence
	for i := 0; i < len(lines); i++ {
		m := fenceOpenPattern.FindStringSubmatch(strings.TrimSuffix(lines[i], "\r"))
		if m == nil {
			continue
		}
		delim, info := m[2], strings.TrimSpace(m[3])
		// A backtick fence's info string may not contain backticks.
		if delim[0] == '`' && strings.Contains(info, "`") {
			continue
		}

		f := Fence{
			Indent:    m[1],
			Delimiter: delim,
			Info:      info,
			OpenLine:  i + 1,
			BodyStart: i + 1,
			BodyEnd:   len(lines),
		}
		f.Lang, f.Options = ParseInfo(info)

		for j := i + 1; j < len(lines); j++ {
			if closes(lines[j], delim) {
				f.BodyEnd = j
				f.Closed = true
				break
			}
		}
		fences = append(fences, f)
		i = f.BodyEnd
	}
	return fences
}

func closes(line, open string) bool {
	m := fenceClosePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return m[1][0] == open[0] && len(m[1]) >= len(open)
}

// Rewrite calls fn for every fenced block and inserts the returned lines at
// the top of the block body, indented like the opening fence. Blocks for
// which fn returns nil are left as they are. Inserted lines take the CRLF
// ending of the opening fence line when it has one. The first error from fn
// aborts the rewrite.
func Rewrite(src []byte, fn func(Fence) ([]string, error)) ([]byte, error) {
	lines := strings.Split(string(src), "\n")
	fences := Scan(lines)
	if len(fences) == 0 {
		return src, nil
	}

	out := make([]string, 0, len(lines))
	next := 0
	for _, f := range fences {
		insert, err := fn(f)
		if err != nil {
			return nil, err
		}
		out = append(out, lines[next:f.BodyStart]...)
		crlf := strings.HasSuffix(lines[f.BodyStart-1], "\r")
		for _, l := range insert {
			if crlf && !strings.HasSuffix(l, "\r") {
				l += "\r"
			}
			out = append(out, f.Indent+l)
		}
		next = f.BodyStart
	}
	out = append(out, lines[next:]...)
	return []byte(strings.Join(out, "\n")), nil
}
