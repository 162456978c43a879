package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/prompteval/driftreport/internal/pipeline"
	"github.com/prompteval/driftreport/internal/projectconfig"
	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/warnings"
)

func newConsistencyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Report on single-stage consistency results",
		Long: `Aggregates consistency_result.json artifacts: per-run baseline and
generated counts plus a similarity score, with count differences and
ratios derived against the run's canonical baseline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(records.DialectConsistency, opts)
		},
	}
}

func newMultistageCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "multistage",
		Short: "Report on multi-stage consistency results",
		Long: `Aggregates multistage_result.json artifacts: pairwise similarity
scores across two regeneration stages, with the per-run stage decay
derived as the primary drift signal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(records.DialectMultistage, opts)
		},
	}
}

func newComparisonCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "comparison",
		Short: "Report on a pre-aggregated model comparison",
		Long: `Renders a comparison_results.json artifact whose statistics were
already computed upstream. Nothing is recomputed; the upstream numbers
pass through verbatim, with the individual run details preserved in
collapsible report sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(records.DialectComparison, opts)
		},
	}
}

func runReport(d records.Dialect, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	run := &pipeline.Run{
		Config:     cfg,
		Dialect:    d,
		Warnings:   &warnings.Sink{},
		OpenViewer: cfg.ShouldOpenReport() && !opts.noOpen,
	}

	res, err := pipeline.Execute(run)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, d, res)
	return nil
}

func loadConfig(opts *rootOptions) (*projectconfig.Config, error) {
	if opts.configPath != "" {
		return projectconfig.LoadFile(opts.configPath)
	}
	return projectconfig.Load(".")
}
