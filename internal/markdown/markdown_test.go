package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info string
		lang string
		opts Options
	}{
		{"empty", "", "", Options{}},
		{"lang only", "go", "go", Options{}},
		{"file option", "ts file=src/a.ts#L1-L3", "ts", Options{{"file", "src/a.ts#L1-L3"}}},
		{"no lang", "file=a.go", "", Options{{"file", "a.go"}}},
		{"quoted", `rust title="My file" file='x y.rs'`, "rust",
			Options{{"title", "My file"}, {"file", "x y.rs"}}},
		{"escaped space kept", `go file=my\ dir/a.go#L2`, "go", Options{{"file", `my\ dir/a.go#L2`}}},
		{"bare flag", "sh wrap showLineNumbers", "sh", Options{{"wrap", ""}, {"showLineNumbers", ""}}},
		{"extra spaces", "  go   file=a.go  ", "go", Options{{"file", "a.go"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lang, opts := ParseInfo(strings.TrimSpace(tt.info))
			assert.Equal(t, tt.lang, lang)
			assert.Equal(t, tt.opts, opts)
		})
	}
}

func TestOptions_GetLastWins(t *testing.T) {
	t.Parallel()

	opts := Options{{"file", "a"}, {"title", "t"}, {"file", "b"}}
	v, ok := opts.Get("file")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = opts.Get("missing")
	assert.False(t, ok)
}

func TestScan(t *testing.T) {
	t.Parallel()

	doc := strings.Split("# Title\n"+
		"```go file=a.go\n"+
		"body\n"+
		"```\n"+
		"text\n"+
		"~~~~ sh\n"+
		"~~~\n"+
		"still inside\n"+
		"~~~~\n", "\n")

	fences := Scan(doc)
	require.Len(t, fences, 2)

	assert.Equal(t, "go", fences[0].Lang)
	assert.Equal(t, 2, fences[0].OpenLine)
	assert.Equal(t, 2, fences[0].BodyStart)
	assert.Equal(t, 3, fences[0].BodyEnd)
	assert.True(t, fences[0].Closed)
	file, _ := fences[0].Options.Get("file")
	assert.Equal(t, "a.go", file)

	// A shorter closing run does not end a longer fence.
	assert.Equal(t, "~~~~", fences[1].Delimiter)
	assert.Equal(t, 6, fences[1].BodyStart)
	assert.Equal(t, 8, fences[1].BodyEnd)
}

func TestScan_UnclosedRunsToEnd(t *testing.T) {
	t.Parallel()

	doc := []string{"```", "a", "b"}
	fences := Scan(doc)
	require.Len(t, fences, 1)
	assert.False(t, fences[0].Closed)
	assert.Equal(t, 3, fences[0].BodyEnd)
}

func TestScan_CRLFDocument(t *testing.T) {
	t.Parallel()

	doc := strings.Split("```go file=a.go\r\nx\r\n```\r\n", "\n")
	fences := Scan(doc)
	require.Len(t, fences, 1)
	assert.Equal(t, "go", fences[0].Lang)
	assert.True(t, fences[0].Closed)
	file, _ := fences[0].Options.Get("file")
	assert.Equal(t, "a.go", file)
}

func TestScan_BacktickInfoWithBacktickIsNotFence(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Scan([]string{"```a`b", "x"}))
}

func TestRewrite_InsertsAtTopOfBody(t *testing.T) {
	t.Parallel()

	src := "intro\n  ```go file=x\n  existing\n  ```\n```\nplain\n```\n"
	out, err := Rewrite([]byte(src), func(f Fence) ([]string, error) {
		if _, ok := f.Options.Get("file"); !ok {
			return nil, nil
		}
		return []string{"one", "two"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t,
		"intro\n  ```go file=x\n  one\n  two\n  existing\n  ```\n```\nplain\n```\n",
		string(out))
}

func TestRewrite_CRLFDocumentKeepsLineEndings(t *testing.T) {
	t.Parallel()

	src := "intro\r\n```go file=x\r\n```\r\n"
	out, err := Rewrite([]byte(src), func(Fence) ([]string, error) {
		return []string{"one", "two\r"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "intro\r\n```go file=x\r\none\r\ntwo\r\n```\r\n", string(out))
}

func TestRewrite_NoFencesReturnsInput(t *testing.T) {
	t.Parallel()

	src := []byte("just text\n")
	out, err := Rewrite(src, func(Fence) ([]string, error) {
		t.Fatal("callback should not run")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestRewrite_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	_, err := Rewrite([]byte("```\n```\n```\n```\n"), func(Fence) ([]string, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
