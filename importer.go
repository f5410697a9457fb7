package codeimport

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jward/codeimport/internal/logging"
)

// Importer resolves references against a fixed root directory and reads the
// selected lines from disk. It holds only configuration, so one Importer may
// serve concurrent calls.
type Importer struct {
	rootDir string
	sep     string
	logger  *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLineSeparator sets the separator file content is split on. The default
// is HostLineSeparator().
func WithLineSeparator(sep string) Option {
	return func(im *Importer) {
		if sep != "" {
			im.sep = sep
		}
	}
}

// WithLogger sets the logger used for per-import debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// New creates an Importer. rootDir replaces RootDirPlaceholder in reference
// paths and must be absolute; otherwise the error matches
// ErrInvalidConfiguration.
func New(rootDir string, opts ...Option) (*Importer, error) {
	if !filepath.IsAbs(rootDir) {
		return nil, newError(InvalidConfiguration, nil,
			"root directory must be an absolute path - received: %q", rootDir)
	}
	im := &Importer{
		rootDir: filepath.Clean(rootDir),
		sep:     HostLineSeparator(),
		logger:  logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

// RootDir returns the configured root directory.
func (im *Importer) RootDir() string {
	return im.rootDir
}

// LineSeparator returns the separator content is split on.
func (im *Importer) LineSeparator() string {
	return im.sep
}

// Snippet is the result of one resolve-and-extract call.
type Snippet struct {
	Meta      string    `json:"meta"`
	Reference Reference `json:"reference"`
	Path      string    `json:"path"`
	Lines     []string  `json:"lines"`
}

// Resolve parses meta and resolves its path against baseDir without reading
// the file.
func (im *Importer) Resolve(meta, baseDir string) (Reference, string, error) {
	ref, err := ParseReference(meta)
	if err != nil {
		return Reference{}, "", err
	}
	return ref, ResolvePath(ref.Path, im.rootDir, baseDir), nil
}

// Fetch parses meta, resolves it relative to baseDir, reads the file and
// extracts the selected lines. Parse failures match ErrInvalidReference;
// read failures match ErrFileRead and wrap the underlying os error.
func (im *Importer) Fetch(meta, baseDir string) (*Snippet, error) {
	ref, path, err := im.Resolve(meta, baseDir)
	if err != nil {
		return nil, err
	}

	content, err := readRegularFile(path)
	if err != nil {
		return nil, err
	}

	lines := ExtractLines(content, ref.Selection, im.sep)
	im.logger.Debug("imported lines",
		"ref", meta,
		"path", path,
		"start", ref.FirstLine(),
		"lines", len(lines),
	)
	return &Snippet{Meta: meta, Reference: ref, Path: path, Lines: lines}, nil
}

// Import returns just the lines of Fetch.
func (im *Importer) Import(meta, baseDir string) ([]string, error) {
	s, err := im.Fetch(meta, baseDir)
	if err != nil {
		return nil, err
	}
	return s.Lines, nil
}

// ImportForDocument imports meta relative to the directory holding docPath.
func (im *Importer) ImportForDocument(meta, docPath string) ([]string, error) {
	return im.Import(meta, filepath.Dir(docPath))
}

func readRegularFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", newError(FileRead, err, "cannot read %s", path)
	}
	if !info.Mode().IsRegular() {
		return "", newError(FileRead, nil, "cannot read %s: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newError(FileRead, err, "cannot read %s", path)
	}
	return string(data), nil
}
