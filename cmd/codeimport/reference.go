package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/codeimport"
)

var parseCmd = &cobra.Command{
	Use:   "parse <ref>",
	Short: "Parse a reference without reading any file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := codeimport.ParseReference(args[0])
		if err != nil {
			return outputError("parse", err)
		}
		return outputResult(CLIResult{Command: "parse", Results: toCLIReference(ref)})
	},
}

var (
	flagBase string
	flagDoc  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <ref>",
	Short: "Print the lines a reference selects",
	Long:  "Resolves <ref> relative to --base, or to the directory of --doc, and prints the selected lines. Without either, relative references resolve against the root directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return outputError("extract", err)
		}

		baseDir := ""
		switch {
		case flagDoc != "":
			doc, err := resolveFilePath(flagDoc)
			if err != nil {
				return outputError("extract", err)
			}
			baseDir = filepath.Dir(doc)
		case flagBase != "":
			if baseDir, err = resolveFilePath(flagBase); err != nil {
				return outputError("extract", err)
			}
		}

		snippet, err := s.importer.Fetch(args[0], baseDir)
		if err != nil {
			return outputError("extract", err)
		}
		return outputResult(CLIResult{Command: "extract", Results: toCLISnippet(*snippet, 0)})
	},
}

func init() {
	extractCmd.Flags().StringVar(&flagBase, "base", "", "directory relative references resolve against")
	extractCmd.Flags().StringVar(&flagDoc, "doc", "", "document whose directory relative references resolve against")
	extractCmd.MarkFlagsMutuallyExclusive("base", "doc")
}
