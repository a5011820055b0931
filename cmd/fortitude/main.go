// Package main is Fortitude's CLI entry point: a cobra root command with a
// watch subcommand that composes the file watcher, gap analyzer, semantic
// validator, scheduler, executor, and progress tracker into the
// file-change → research-task pipeline, mirroring the demo composition
// watch path → gap analyzer → print.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fortitude/internal/logging"
)

var (
	verbose   bool
	workspace string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fortitude",
	Short: "Fortitude - proactive research core",
	Long: `Fortitude watches a workspace for gaps in documentation, TODOs, and
undocumented technology, validates them semantically against a vector
knowledge base, and schedules research tasks to close them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("fortitude: initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(watchCmd, statusCmd)
}

func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		return os.Getwd()
	}
	return filepath.Abs(ws)
}

func nowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
