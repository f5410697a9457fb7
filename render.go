package codeimport

import (
	"fmt"
	"path/filepath"

	"github.com/jward/codeimport/internal/markdown"
)

// MetaKey is the code block meta option holding a reference.
const MetaKey = "file"

// RenderedSnippet is a Snippet together with the document line of the code
// block it was inserted into.
type RenderedSnippet struct {
	Snippet
	DocLine int `json:"doc_line"`
}

// RenderMarkdown fills every fenced code block of src whose info string has
// a file=<reference> option. The imported lines are inserted at the top of
// the block body; any existing body is kept below them. References resolve
// relative to the directory of docPath. A bare file flag without a value
// leaves the block untouched.
//
// The first failing reference aborts the whole document. The returned error
// names docPath and the block's line and still matches the package sentinels.
func (im *Importer) RenderMarkdown(src []byte, docPath string) ([]byte, []RenderedSnippet, error) {
	baseDir := filepath.Dir(docPath)

	var snippets []RenderedSnippet
	out, err := markdown.Rewrite(src, func(f markdown.Fence) ([]string, error) {
		meta, ok := f.Options.Get(MetaKey)
		if !ok || meta == "" {
			return nil, nil
		}
		s, err := im.Fetch(meta, baseDir)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", docPath, f.OpenLine, err)
		}
		snippets = append(snippets, RenderedSnippet{Snippet: *s, DocLine: f.OpenLine})
		return s.Lines, nil
	})
	if err != nil {
		return nil, nil, err
	}

	im.logger.Info("rendered document", "doc", docPath, "imports", len(snippets))
	return out, snippets, nil
}
