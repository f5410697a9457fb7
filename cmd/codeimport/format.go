package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatReferenceText formats a CLIReference as "path start end range".
func formatReferenceText(w io.Writer, ref CLIReference) {
	kind := "line"
	if ref.IsRange {
		kind = "range"
	}
	fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", ref.Path, ref.Start, ref.End, kind)
}

// formatLinesText writes the imported lines, one per output line.
func formatLinesText(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// formatRenderText writes the rendered document, or a one-line summary when
// it was written to a file.
func formatRenderText(w io.Writer, r CLIRender) {
	if r.Error != "" {
		fmt.Fprintf(w, "Failed %s: %s\n", r.Document, r.Error)
		return
	}
	if r.Content != nil {
		io.WriteString(w, *r.Content)
		return
	}
	fmt.Fprintf(w, "Rendered %s -> %s (%d imports)\n", r.Document, r.Output, len(r.Imports))
}

// formatStaleText formats CLIStale results as aligned columns.
func formatStaleText(w io.Writer, stale []CLIStale) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tLINE\tREFERENCE\tREASON\tMESSAGE")
	for _, s := range stale {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			s.Document, s.DocLine, s.Meta, s.Reason, s.Message)
	}
	tw.Flush()
}

// formatPathsText writes one path per line.
func formatPathsText(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case CLIReference:
		formatReferenceText(w, v)
	case CLISnippet:
		formatLinesText(w, v.Lines)
	case CLIRender:
		formatRenderText(w, v)
	case []CLIRender:
		for _, r := range v {
			formatRenderText(w, r)
		}
	case []CLIStale:
		formatStaleText(w, v)
	case []string:
		formatPathsText(w, v)
	case CLIPath:
		fmt.Fprintln(w, v.Path)
	case CLIRun:
		// Scripts print their own output.
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
