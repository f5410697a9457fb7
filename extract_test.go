package codeimport

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// tenLines is "line1\n...line10\n": ten lines plus a trailing terminator, so
// it splits into eleven elements.
func tenLines(sep string) string {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "line%d%s", i, sep)
	}
	return b.String()
}

func TestExtractLines(t *testing.T) {
	t.Parallel()

	content := tenLines(LF)

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"single line", Selection{Start: 5}, []string{"line5"}},
		{"closed range", Selection{Start: 3, End: 6, IsRange: true}, []string{"line3", "line4", "line5", "line6"}},
		{"open range stops before final element", Selection{Start: 8, IsRange: true}, []string{"line8", "line9", "line10"}},
		{"range from start", Selection{End: 2, IsRange: true}, []string{"line1", "line2"}},
		{"end past eof clamps", Selection{Start: 9, End: 50, IsRange: true}, []string{"line9", "line10", ""}},
		{"start past eof", Selection{Start: 40}, []string{}},
		{"start after end", Selection{Start: 6, End: 3, IsRange: true}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractLines(content, tt.sel, LF))
		})
	}
}

func TestExtractLines_WholeFile(t *testing.T) {
	t.Parallel()

	whole := Selection{IsRange: true}

	// With a trailing terminator the excluded element is the empty tail.
	got := ExtractLines(tenLines(LF), whole, LF)
	assert.Len(t, got, 10)
	assert.Equal(t, "line10", got[9])

	// Without one, the open-range boundary drops the real last line.
	got = ExtractLines(strings.TrimSuffix(tenLines(LF), LF), whole, LF)
	assert.Len(t, got, 9)
	assert.Equal(t, "line9", got[8])

	assert.Empty(t, ExtractLines("", whole, LF))
}

func TestExtractLines_SeparatorIsNotDetected(t *testing.T) {
	t.Parallel()

	crlf := tenLines(CRLF)

	// Split on the configured separator, CR stays on every line.
	got := ExtractLines(crlf, Selection{Start: 2}, LF)
	assert.Equal(t, []string{"line2\r"}, got)

	got = ExtractLines(crlf, Selection{Start: 2}, CRLF)
	assert.Equal(t, []string{"line2"}, got)

	// LF content split on CRLF is a single element.
	got = ExtractLines(tenLines(LF), Selection{Start: 2}, CRLF)
	assert.Empty(t, got)
}

func TestExtractLines_EmptySeparatorUsesHost(t *testing.T) {
	t.Parallel()

	content := "a" + HostLineSeparator() + "b" + HostLineSeparator()
	assert.Equal(t, []string{"b"}, ExtractLines(content, Selection{Start: 2}, ""))
}

func TestExtractLines_ResultDoesNotAlias(t *testing.T) {
	t.Parallel()

	got := ExtractLines("a\nb\nc\n", Selection{Start: 1, End: 2, IsRange: true}, LF)
	got = append(got, "x")
	assert.Equal(t, []string{"a", "b", "x"}, got)
}

func TestHostLineSeparator(t *testing.T) {
	t.Parallel()

	sep := HostLineSeparator()
	assert.Contains(t, []string{LF, CRLF}, sep)
}
