package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docuverify/fieldcheck/version"
)

var (
	cfgFile string
	homeDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fieldcheck",
	Short: "Score document extractions against ground truth",
	Long: `Fieldcheck compares a model-produced document extraction against its
ground truth, field by field, using configurable comparison strategies:
exact, numeric, fuzzy edit distance, optimal list matching, semantic
embeddings, and LLM judgment.

Results aggregate into precision/recall/F1 metrics per section and per
document, rendered as JSON and Markdown reports.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.fieldcheck/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "fieldcheck home directory (default: ~/.fieldcheck)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(validateSchemaCmd)
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
