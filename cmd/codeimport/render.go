package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/codeimport"
	"github.com/jward/codeimport/internal/ledger"
)

var (
	flagOutput string
	flagOutDir string
	flagRecord bool
)

var renderCmd = &cobra.Command{
	Use:   "render <doc.md>...",
	Short: "Fill file= code blocks of Markdown documents",
	Long: "Inserts the lines selected by every file=<reference> code block option at the top of the block. " +
		"References resolve relative to each document's directory. The first failing reference aborts its document and nothing is written for it. " +
		"A single document is printed unless -o is given; several documents need --out-dir and are rendered in parallel.",
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the rendered document to a file instead of stdout")
	renderCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "write rendered documents under this directory, keeping their path relative to the root")
	renderCmd.Flags().BoolVar(&flagRecord, "ledger", false, "record each rendered document's imports in the ledger")
	renderCmd.MarkFlagsMutuallyExclusive("output", "out-dir")
}

func runRender(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && flagOutDir == "" {
		return outputError("render", fmt.Errorf("rendering %d documents requires --out-dir", len(args)))
	}

	s, err := openSession()
	if err != nil {
		return outputError("render", err)
	}

	docPaths := make([]string, len(args))
	for i, a := range args {
		if docPaths[i], err = resolveFilePath(a); err != nil {
			return outputError("render", err)
		}
	}

	start := time.Now()
	rendered, err := s.importer.RenderDocuments(context.Background(), docPaths)
	if err != nil {
		return outputError("render", err)
	}

	var l *ledger.Ledger
	if flagRecord {
		if l, err = openLedger(s, true); err != nil {
			return outputError("render", err)
		}
		defer l.Close()
	}

	results := make([]CLIRender, len(rendered))
	var failed int
	for i, doc := range rendered {
		results[i], err = finishDocument(s, l, doc)
		if err != nil {
			if len(rendered) == 1 {
				return outputError("render", err)
			}
			results[i].Error = err.Error()
			failed++
		}
	}
	s.logger.Info("rendered documents", "count", len(rendered), "failed", failed,
		"duration", time.Since(start).Round(time.Millisecond))

	var out any = results
	if len(results) == 1 {
		out = results[0]
	}
	if err := outputResult(CLIResult{Command: "render", Results: out}); err != nil {
		return err
	}
	if failed > 0 {
		errorHandled = flagFormat != "text"
		return fmt.Errorf("%d of %d documents failed", failed, len(rendered))
	}
	return nil
}

// finishDocument writes a rendered document to its destination and records
// it in l when l is non-nil.
func finishDocument(s *session, l *ledger.Ledger, doc codeimport.DocumentResult) (CLIRender, error) {
	result := CLIRender{Document: doc.Path}
	if doc.Err != nil {
		return result, doc.Err
	}

	result.Imports = make([]CLISnippet, len(doc.Snippets))
	for i, sn := range doc.Snippets {
		result.Imports[i] = toCLISnippet(sn.Snippet, sn.DocLine)
	}

	outPath, err := outputPath(s, doc.Path)
	if err != nil {
		return result, err
	}
	if outPath == "" {
		content := string(doc.Output)
		result.Content = &content
	} else {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return result, fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}
		if err := os.WriteFile(outPath, doc.Output, 0o644); err != nil {
			return result, fmt.Errorf("writing output: %w", err)
		}
		result.Output = outPath
	}

	if l != nil {
		entries := make([]*ledger.Entry, len(doc.Snippets))
		for i, sn := range doc.Snippets {
			entries[i] = ledger.NewEntry(sn)
		}
		record := &ledger.Document{
			Path:       doc.Path,
			Hash:       ledger.HashContent(doc.Output),
			RenderedAt: time.Now(),
		}
		if err := l.RecordDocument(record, entries); err != nil {
			return result, err
		}
		result.Recorded = true
	}
	return result, nil
}

// outputPath returns where a rendered document goes, or "" for stdout.
// Under --out-dir the document keeps its path relative to the root directory,
// or just its base name when it lies outside the root.
func outputPath(s *session, docPath string) (string, error) {
	switch {
	case flagOutput != "":
		return resolveFilePath(flagOutput)
	case flagOutDir != "":
		outDir, err := resolveFilePath(flagOutDir)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(s.cfg.RootDir, docPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = filepath.Base(docPath)
		}
		return filepath.Join(outDir, rel), nil
	default:
		return "", nil
	}
}
