package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions carries the persistent flags down to the dialect commands.
type rootOptions struct {
	configPath string
	noOpen     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "driftreport",
		Short: "driftreport - aggregate regeneration-consistency evaluation results",
		Long: `driftreport collects the result artifacts written by regeneration
consistency evaluation runs, computes cross-run statistics per
(model, prompt variant) combination, and publishes a self-contained
HTML report under the results root.

Each subcommand handles one result dialect; the dialect is chosen by
the subcommand, never guessed from file contents.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to .driftreport.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.noOpen, "no-open", false, "Do not open the published report in the default viewer")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			// slog.SetLogLoggerLevel requires Go 1.22; this is the
			// closest equivalent available on Go 1.21.
			slog.SetDefault(slog.New(slog.NewTextHandler(log.Writer(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	}

	// Add subcommands
	cmd.AddCommand(newConsistencyCommand(opts))
	cmd.AddCommand(newMultistageCommand(opts))
	cmd.AddCommand(newComparisonCommand(opts))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
