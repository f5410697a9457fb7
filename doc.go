// Package codeimport resolves compact file references into lines of source
// code for embedding in rendered documentation.
//
// # References
//
// A reference is a path optionally followed by a line selector:
//
//	src/lib.rs           whole file (see OpenRangeEnd)
//	src/lib.rs#L5        line 5
//	src/lib.rs#L5-       line 5 to the open-range end
//	src/lib.rs#L5-L10    lines 5 through 10
//	src/lib.rs#L-L10     lines 1 through 10
//	^<rootDir>/a.go#L3   path relative to the configured root directory
//
// Line numbers are 1-based. Unparseable or zero line numbers are treated as
// absent rather than rejected (see [LenientLineNumber]). Escaped spaces
// ("my\ file.go") are unescaped before resolution.
//
// # Pipeline
//
// Each call runs three stateless steps:
//
//  1. Parse: [ParseReference] validates the string and splits it into a
//     [Reference].
//  2. Resolve: [ResolvePath] substitutes the root-directory placeholder and
//     resolves relative paths against the referencing document's directory.
//  3. Extract: [ExtractLines] splits the file content on the configured line
//     separator and slices out the selection.
//
// # Usage
//
//	im, err := codeimport.New("/abs/project", codeimport.WithLineSeparator(codeimport.LF))
//	if err != nil { ... }
//
//	lines, err := im.ImportForDocument("../src/main.go#L10-L20", "/abs/project/docs/guide.md")
//
// [Importer.RenderMarkdown] applies the same call to every fenced code block
// carrying a file=<reference> option, and [Importer.RenderDocuments] renders
// many documents with a worker pool.
//
// # Errors
//
// Every error is an [*Error] with a code. Match with errors.Is against
// [ErrInvalidConfiguration], [ErrInvalidReference] or [ErrFileRead].
package codeimport
