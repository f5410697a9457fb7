package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/risor-io/risor/object"
	"github.com/spf13/cobra"

	"github.com/jward/codeimport/internal/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run <script.risor> [args...]",
	Short: "Run a Risor documentation pipeline script",
	Long:  "Runs a Risor script with parse_ref, resolve_path, import_lines, render_markdown, root_dir and log available as globals. Remaining arguments are exposed as the args list. Imports resolve against the script's directory.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		s, err := openSession()
		if err != nil {
			return outputError("run", err)
		}
		script, err := resolveFilePath(args[0])
		if err != nil {
			return outputError("run", err)
		}

		scriptArgs := make([]object.Object, 0, len(args)-1)
		for _, a := range args[1:] {
			scriptArgs = append(scriptArgs, object.NewString(a))
		}

		rt := runtime.NewRuntime(s.importer, filepath.Dir(script), runtime.WithRuntimeLogger(s.logger))
		err = rt.RunScript(context.Background(), filepath.Base(script), map[string]any{
			"args": object.NewList(scriptArgs),
		})
		if err != nil {
			return outputError("run", fmt.Errorf("running %s: %w", script, err))
		}

		duration := time.Since(start)
		s.logger.Info("ran script", "script", script, "duration", duration.Round(time.Millisecond))
		return outputResult(CLIResult{Command: "run", Results: CLIRun{
			Script:     script,
			DurationMS: duration.Milliseconds(),
		}})
	},
}
