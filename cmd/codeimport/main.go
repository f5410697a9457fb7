package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/codeimport"
	"github.com/jward/codeimport/internal/config"
	"github.com/jward/codeimport/internal/logging"
)

var (
	flagRoot     string
	flagEOL      string
	flagFormat   string
	flagConfig   string
	flagLogLevel string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codeimport",
	Short:         "Import line ranges of source files into documentation",
	Long:          "Codeimport resolves references such as src/lib.rs#L10-L20 and fills Markdown code blocks that carry a file=<reference> option with the selected lines.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "root directory substituted for ^<rootDir> (default: repo root)")
	rootCmd.PersistentFlags().StringVar(&flagEOL, "eol", "", "line separator files are split on: lf|crlf|os")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .codeimport.yaml in the repo root)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error|off")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(staleCmd)
	rootCmd.AddCommand(importersCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(runCmd)
}

// session is the configuration-derived state shared by commands.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	importer *codeimport.Importer
}

// openSession loads configuration for the repository containing the working
// directory, applies flag overrides and builds the logger and Importer.
func openSession() (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)

	cfg, err := config.Load(repoRoot, flagConfig)
	if err != nil {
		return nil, err
	}
	if flagRoot != "" {
		abs, err := filepath.Abs(flagRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving root %q: %w", flagRoot, err)
		}
		cfg.RootDir = abs
	}
	if flagEOL != "" {
		cfg.LineSeparator = flagEOL
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(os.Stderr, logging.Format(cfg.Logging.Format),
		logging.LevelFromString(cfg.Logging.Level))
	if err != nil {
		return nil, err
	}

	sep, err := config.ParseLineSeparator(cfg.LineSeparator)
	if err != nil {
		return nil, err
	}
	im, err := codeimport.New(cfg.RootDir,
		codeimport.WithLineSeparator(sep),
		codeimport.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, importer: im}, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding .git.
			return startDir
		}
		dir = parent
	}
}

// resolveFilePath converts a file argument to an absolute path.
// If the path is already absolute, it's returned as-is.
// Otherwise, it's resolved relative to the current working directory.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .codeimport.yaml to the repo root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return outputError("init", fmt.Errorf("getting cwd: %w", err))
		}
		repoRoot := findRepoRoot(cwd)
		if _, err := os.Stat(filepath.Join(repoRoot, config.FileName)); err == nil {
			return outputError("init", fmt.Errorf("%s already exists in %s", config.FileName, repoRoot))
		}
		path, err := config.DefaultConfig().Save(repoRoot)
		if err != nil {
			return outputError("init", err)
		}
		return outputResult(CLIResult{Command: "init", Results: CLIPath{Path: path}})
	},
}
