package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/codeimport/internal/ledger"
)

// errStale is returned by "stale --check" when stale imports exist.
var errStale = errors.New("stale imports found")

// openLedger opens the ledger configured for the session. When create is
// false a missing ledger is an error.
func openLedger(s *session, create bool) (*ledger.Ledger, error) {
	dbPath := s.cfg.Ledger
	if dbPath == "" {
		return nil, fmt.Errorf("no ledger configured")
	}
	if create {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
		}
	} else if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("ledger not found: %s (run 'codeimport render --ledger' first)", dbPath)
	}

	l, err := ledger.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := l.Migrate(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

var flagCheck bool

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List recorded imports whose lines changed since rendering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return outputError("stale", err)
		}
		l, err := openLedger(s, false)
		if err != nil {
			return outputError("stale", err)
		}
		defer l.Close()

		entries, err := l.Stale(s.importer)
		if err != nil {
			return outputError("stale", err)
		}
		results := make([]CLIStale, len(entries))
		for i, e := range entries {
			results[i] = toCLIStale(e)
		}
		if err := outputResult(CLIResult{Command: "stale", Results: results}); err != nil {
			return err
		}
		if flagCheck && len(results) > 0 {
			errorHandled = true
			return errStale
		}
		return nil
	},
}

func init() {
	staleCmd.Flags().BoolVar(&flagCheck, "check", false, "exit with status 1 when stale imports exist")
}

var importersCmd = &cobra.Command{
	Use:   "importers <file>",
	Short: "List recorded documents that import a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return outputError("importers", err)
		}
		path, err := resolveFilePath(args[0])
		if err != nil {
			return outputError("importers", err)
		}
		l, err := openLedger(s, false)
		if err != nil {
			return outputError("importers", err)
		}
		defer l.Close()

		docs, err := l.DocumentsImporting(path)
		if err != nil {
			return outputError("importers", err)
		}
		if docs == nil {
			docs = []string{}
		}
		return outputResult(CLIResult{Command: "importers", Results: docs})
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <doc.md>",
	Short: "Remove a document and its imports from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return outputError("forget", err)
		}
		path, err := resolveFilePath(args[0])
		if err != nil {
			return outputError("forget", err)
		}
		l, err := openLedger(s, false)
		if err != nil {
			return outputError("forget", err)
		}
		defer l.Close()

		if err := l.ForgetDocument(path); err != nil {
			return outputError("forget", err)
		}
		return outputResult(CLIResult{Command: "forget", Results: CLIPath{Path: path}})
	},
}
