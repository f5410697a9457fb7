package codeimport

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
)

// DocumentResult is the outcome of rendering one document in a batch.
type DocumentResult struct {
	Path     string
	Output   []byte
	Snippets []RenderedSnippet
	Err      error
}

// RenderDocuments renders the Markdown files at paths with a worker pool and
// returns one result per path, in the order given. A failing document does
// not stop the others; its error is on its result. The returned error is
// non-nil only when ctx was cancelled, in which case unattempted documents
// carry ctx's error.
//
//	Phase A (serial):   read every document.
//	Phase B (parallel): render via worker pool.
//	Phase C (serial):   collect results by index.
func (im *Importer) RenderDocuments(ctx context.Context, paths []string) ([]DocumentResult, error) {
	results := make([]DocumentResult, len(paths))

	// ---- Phase A: Serial read ----
	type workItem struct {
		index int
		src   []byte
	}
	var items []workItem
	for i, path := range paths {
		results[i].Path = path
		src, err := os.ReadFile(path)
		if err != nil {
			results[i].Err = newError(FileRead, err, "cannot read document %s", path)
			continue
		}
		items = append(items, workItem{index: i, src: src})
	}

	if len(items) == 0 {
		return results, nil
	}

	// ---- Phase B: Parallel render ----
	numWorkers := max(min(runtime.NumCPU(), len(items)), 1)

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		index    int
		out      []byte
		snippets []RenderedSnippet
		err      error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				if err := ctx.Err(); err != nil {
					resultCh <- result{index: item.index, err: err}
					continue
				}
				out, snippets, err := im.RenderMarkdown(item.src, paths[item.index])
				resultCh <- result{index: item.index, out: out, snippets: snippets, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: Serial collect ----
	for res := range resultCh {
		r := &results[res.index]
		r.Output = res.out
		r.Snippets = res.snippets
		r.Err = res.err
	}

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("rendering cancelled: %w", err)
	}
	return results, nil
}
