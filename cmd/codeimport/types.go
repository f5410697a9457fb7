package main

import (
	"github.com/jward/codeimport"
	"github.com/jward/codeimport/internal/ledger"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIReference is a JSON-friendly parsed reference. Absent line numbers are 0.
type CLIReference struct {
	Path    string `json:"path"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	IsRange bool   `json:"is_range"`
}

// CLISnippet is a JSON-friendly imported snippet.
type CLISnippet struct {
	Meta    string   `json:"meta"`
	Path    string   `json:"path"`
	DocLine int      `json:"doc_line,omitempty"`
	Start   int      `json:"start"`
	End     int      `json:"end"`
	IsRange bool     `json:"is_range"`
	Lines   []string `json:"lines"`
}

// CLIRender is the result of rendering one document.
type CLIRender struct {
	Document string       `json:"document"`
	Output   string       `json:"output,omitempty"`
	Content  *string      `json:"content,omitempty"`
	Imports  []CLISnippet `json:"imports"`
	Recorded bool         `json:"recorded"`
	Error    string       `json:"error,omitempty"`
}

// CLIStale is a recorded import whose lines changed or no longer import.
type CLIStale struct {
	Document string `json:"document"`
	DocLine  int    `json:"doc_line"`
	Meta     string `json:"meta"`
	Path     string `json:"path"`
	Reason   string `json:"reason"`
	Message  string `json:"message,omitempty"`
}

// CLIPath is a single file path result.
type CLIPath struct {
	Path string `json:"path"`
}

// CLIRun is the result of running a script.
type CLIRun struct {
	Script     string `json:"script"`
	DurationMS int64  `json:"duration_ms"`
}

func toCLIReference(ref codeimport.Reference) CLIReference {
	return CLIReference{
		Path:    ref.Path,
		Start:   ref.Start,
		End:     ref.End,
		IsRange: ref.IsRange,
	}
}

func toCLISnippet(s codeimport.Snippet, docLine int) CLISnippet {
	return CLISnippet{
		Meta:    s.Meta,
		Path:    s.Path,
		DocLine: docLine,
		Start:   s.Reference.Start,
		End:     s.Reference.End,
		IsRange: s.Reference.IsRange,
		Lines:   s.Lines,
	}
}

func toCLIStale(s ledger.StaleEntry) CLIStale {
	return CLIStale{
		Document: s.DocPath,
		DocLine:  s.Entry.DocLine,
		Meta:     s.Entry.Meta,
		Path:     s.Entry.ResolvedPath,
		Reason:   string(s.Reason),
		Message:  s.Message,
	}
}
