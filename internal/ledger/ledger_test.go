package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/codeimport"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, l.Migrate())
	t.Cleanup(func() { l.Close() })
	return l
}

func testEntry(meta, path string, lines ...string) *Entry {
	return &Entry{
		DocLine:      1,
		Meta:         meta,
		ResolvedPath: path,
		StartLine:    1,
		IsRange:      true,
		LineCount:    len(lines),
		LinesHash:    HashLines(lines),
	}
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_TablesExist(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	for _, table := range []string{"documents", "imports"} {
		var name string
		err := l.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	require.NoError(t, l.Migrate())
}

func TestOpen_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "ledger.db"))
	require.Error(t, err)
}

// =============================================================================
// Recording
// =============================================================================

func TestRecordDocument_SetsIDs(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	doc := &Document{Path: "/repo/docs/a.md", Hash: "h1", RenderedAt: time.Now().Truncate(time.Second)}
	entries := []*Entry{
		testEntry("x.go#L1", "/repo/x.go", "package x"),
		testEntry("y.go", "/repo/y.go", "a", "b"),
	}
	require.NoError(t, l.RecordDocument(doc, entries))
	assert.Positive(t, doc.ID)
	for _, e := range entries {
		assert.Positive(t, e.ID)
		assert.Equal(t, doc.ID, e.DocumentID)
	}

	got, err := l.DocumentByPath("/repo/docs/a.md")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h1", got.Hash)
	assert.True(t, doc.RenderedAt.Equal(got.RenderedAt))

	stored, err := l.EntriesByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "x.go#L1", stored[0].Meta)
	assert.Equal(t, 2, stored[1].LineCount)
	assert.True(t, stored[1].IsRange)
}

func TestRecordDocument_ReplacesPrevious(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	first := &Document{Path: "/repo/a.md", Hash: "old", RenderedAt: time.Now()}
	require.NoError(t, l.RecordDocument(first, []*Entry{
		testEntry("a.go", "/repo/a.go", "1"),
		testEntry("b.go", "/repo/b.go", "2"),
	}))

	second := &Document{Path: "/repo/a.md", Hash: "new", RenderedAt: time.Now()}
	require.NoError(t, l.RecordDocument(second, []*Entry{testEntry("c.go", "/repo/c.go", "3")}))

	docs, err := l.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "new", docs[0].Hash)

	entries, err := l.EntriesByDocument(second.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c.go", entries[0].Meta)

	var total int
	require.NoError(t, l.DB().QueryRow("SELECT COUNT(*) FROM imports").Scan(&total))
	assert.Equal(t, 1, total)
}

func TestDocumentByPath_Unknown(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	doc, err := l.DocumentByPath("/nope.md")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentsImporting(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	require.NoError(t, l.RecordDocument(&Document{Path: "/r/b.md"}, []*Entry{
		testEntry("x.go", "/r/x.go"), testEntry("x.go#L2", "/r/x.go"),
	}))
	require.NoError(t, l.RecordDocument(&Document{Path: "/r/a.md"}, []*Entry{testEntry("x.go", "/r/x.go")}))
	require.NoError(t, l.RecordDocument(&Document{Path: "/r/c.md"}, []*Entry{testEntry("y.go", "/r/y.go")}))

	paths, err := l.DocumentsImporting("/r/x.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/a.md", "/r/b.md"}, paths)
}

func TestForgetDocument(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	require.NoError(t, l.RecordDocument(&Document{Path: "/r/a.md"}, []*Entry{testEntry("x.go", "/r/x.go")}))
	require.NoError(t, l.ForgetDocument("/r/a.md"))
	require.NoError(t, l.ForgetDocument("/r/unknown.md"))

	docs, err := l.Documents()
	require.NoError(t, err)
	assert.Empty(t, docs)

	var total int
	require.NoError(t, l.DB().QueryRow("SELECT COUNT(*) FROM imports").Scan(&total))
	assert.Zero(t, total)
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	s := codeimport.RenderedSnippet{
		Snippet: codeimport.Snippet{
			Meta:      "a.go#L2-L3",
			Reference: codeimport.Reference{Path: "a.go", Selection: codeimport.Selection{Start: 2, End: 3, IsRange: true}},
			Path:      "/r/a.go",
			Lines:     []string{"b", "c"},
		},
		DocLine: 7,
	}
	e := NewEntry(s)
	assert.Equal(t, 7, e.DocLine)
	assert.Equal(t, "/r/a.go", e.ResolvedPath)
	assert.Equal(t, 2, e.StartLine)
	assert.Equal(t, 3, e.EndLine)
	assert.True(t, e.IsRange)
	assert.Equal(t, 2, e.LineCount)
	assert.Equal(t, HashLines([]string{"b", "c"}), e.LinesHash)
}

func TestHashLines_SeparatorMatters(t *testing.T) {
	t.Parallel()
	assert.NotEqual(t, HashLines([]string{"ab"}), HashLines([]string{"a", "b"}))
	assert.Equal(t, HashLines([]string{"a", "b"}), HashLines([]string{"a", "b"}))
}

// =============================================================================
// Staleness
// =============================================================================

func TestStale_DetectsChangedAndFailed(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	root := t.TempDir()
	docsDir := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	write("a.txt", "one\ntwo\nthree\n")
	write("b.txt", "x\ny\n")

	im, err := codeimport.New(root, codeimport.WithLineSeparator(codeimport.LF))
	require.NoError(t, err)

	docPath := filepath.Join(docsDir, "guide.md")
	src := "```txt file=../a.txt#L1-L2\n```\n```txt file=../b.txt#L2\n```\n```txt file=../a.txt#L3\n```\n"
	_, snippets, err := im.RenderMarkdown([]byte(src), docPath)
	require.NoError(t, err)

	entries := make([]*Entry, len(snippets))
	for i, s := range snippets {
		entries[i] = NewEntry(s)
	}
	require.NoError(t, l.RecordDocument(&Document{Path: docPath, RenderedAt: time.Now()}, entries))

	stale, err := l.Stale(im)
	require.NoError(t, err)
	assert.Empty(t, stale)

	// Line 2 of a.txt changes; line 3 does not. b.txt disappears.
	write("a.txt", "one\nTWO\nthree\n")
	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))

	stale, err = l.Stale(im)
	require.NoError(t, err)
	require.Len(t, stale, 2)

	assert.Equal(t, docPath, stale[0].DocPath)
	assert.Equal(t, "../a.txt#L1-L2", stale[0].Entry.Meta)
	assert.Equal(t, StaleChanged, stale[0].Reason)

	assert.Equal(t, "../b.txt#L2", stale[1].Entry.Meta)
	assert.Equal(t, StaleFailed, stale[1].Reason)
	assert.Contains(t, stale[1].Message, "FILE_READ")
}

type failingImporter struct{}

func (failingImporter) Import(string, string) ([]string, error) {
	return nil, errors.New("unavailable")
}

func TestStale_UsesDocumentDirectory(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	require.NoError(t, l.RecordDocument(&Document{Path: "/r/docs/a.md"}, []*Entry{testEntry("x.go", "/r/docs/x.go")}))

	var gotBase string
	im := importerFunc(func(meta, baseDir string) ([]string, error) {
		gotBase = baseDir
		return nil, nil
	})
	stale, err := l.Stale(im)
	require.NoError(t, err)
	assert.Equal(t, "/r/docs", gotBase)
	// nil lines hash like an empty recording.
	assert.Empty(t, stale)

	stale, err = l.Stale(failingImporter{})
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "unavailable", stale[0].Message)
}

type importerFunc func(meta, baseDir string) ([]string, error)

func (f importerFunc) Import(meta, baseDir string) ([]string, error) { return f(meta, baseDir) }
