package ledger

import (
	"fmt"
	"path/filepath"
)

// Importer re-imports a recorded reference. *codeimport.Importer satisfies it.
type Importer interface {
	Import(meta, baseDir string) ([]string, error)
}

// StaleReason explains why an entry is stale.
type StaleReason string

const (
	StaleChanged StaleReason = "changed" // imported lines differ from the recorded hash
	StaleFailed  StaleReason = "failed"  // the reference no longer imports
)

// StaleEntry is a recorded import whose current result differs.
type StaleEntry struct {
	DocPath string
	Entry   *Entry
	Reason  StaleReason
	Message string
}

// Stale imports every recorded reference again, relative to its document's
// directory, and returns the entries whose result changed or now fails.
func (l *Ledger) Stale(im Importer) ([]StaleEntry, error) {
	docs, err := l.Documents()
	if err != nil {
		return nil, err
	}

	var stale []StaleEntry
	for _, doc := range docs {
		entries, err := l.EntriesByDocument(doc.ID)
		if err != nil {
			return nil, err
		}
		baseDir := filepath.Dir(doc.Path)
		for _, e := range entries {
			lines, err := im.Import(e.Meta, baseDir)
			switch {
			case err != nil:
				stale = append(stale, StaleEntry{
					DocPath: doc.Path,
					Entry:   e,
					Reason:  StaleFailed,
					Message: err.Error(),
				})
			case HashLines(lines) != e.LinesHash:
				stale = append(stale, StaleEntry{
					DocPath: doc.Path,
					Entry:   e,
					Reason:  StaleChanged,
					Message: fmt.Sprintf("%d lines recorded, %d now", e.LineCount, len(lines)),
				})
			}
		}
	}
	return stale, nil
}
