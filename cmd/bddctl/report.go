package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cposada23/BDDPlaywrightFramework/internal/allure"
	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
	"github.com/cposada23/BDDPlaywrightFramework/internal/correlate"
	"github.com/cposada23/BDDPlaywrightFramework/internal/cucumber"
	"github.com/cposada23/BDDPlaywrightFramework/internal/exporter"
	"github.com/cposada23/BDDPlaywrightFramework/internal/fs"
)

var (
	reportPathFlag    string
	screenshotDirFlag string
	outputDirFlag     string
	allStepsFlag      bool
	forwardExitCode   bool
	allureSuiteFlag   string
	allureTagsFlag    string
	allureLayersFlag  string
	allureLabelsFlag  string
	silentOutput      bool
)

func init() {
	flags := reportCmd.Flags()
	flags.StringVarP(
		&reportPathFlag,
		"report",
		"r",
		"reports/cucumber-report.json",
		"cucumber JSON report written by the run: -r <report-path>",
	)
	flags.StringVarP(
		&screenshotDirFlag,
		"screenshots",
		"d",
		artifact.DefaultDir,
		"screenshot directory: -d <dir>",
	)
	flags.StringVarP(
		&outputDirFlag,
		"output",
		"o",
		"",
		"output path to allure results: -o <results-path>",
	)
	flags.BoolVarP(
		&allStepsFlag,
		"all-steps",
		"a",
		false,
		"attach screenshots to every step, for runs with DEBUG_SCREENSHOTS on",
	)
	flags.BoolVarP(
		&forwardExitCode,
		"forward-exit",
		"e",
		false,
		"exit with code 1 when a scenario failed",
	)
	flags.StringVar(
		&allureSuiteFlag,
		"allure-suite",
		"",
		"add allure suite to all tests: --allure-suite MyFirstSuite",
	)
	flags.StringVar(
		&allureTagsFlag,
		"allure-tags",
		"",
		"add allure tags to all tests: --allure-tags UI,SMOKE",
	)
	flags.StringVar(
		&allureLayersFlag,
		"allure-layers",
		"",
		"add allure layers to all tests: --allure-layers UI,E2E",
	)
	flags.StringVar(
		&allureLabelsFlag,
		"allure-labels",
		"",
		"add allure custom labels to all tests: --allure-labels key:value,key:value1,key1:value",
	)
	flags.BoolVarP(
		&silentOutput,
		"silent",
		"s",
		false,
		"silent allure report output(JSON)",
	)

	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:          "report",
	Short:        "build allure results from a run",
	Long:         "Join the cucumber report with the captured screenshots and export allure results",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		features, err := cucumber.ReadFile(ctx, reportPathFlag)
		if err != nil {
			return fmt.Errorf("cucumber.ReadFile: %w", err)
		}

		candidates, err := correlate.Scan(fs.New(screenshotDirFlag))
		if err != nil {
			return fmt.Errorf("correlate.Scan: %w", err)
		}

		opts := []correlate.Option{
			correlate.WithLogger(logger),
			correlate.WithAllureLabels(parseLabels(allureSuiteFlag, allureTagsFlag, allureLayersFlag, allureLabelsFlag)...),
		}
		if allStepsFlag {
			opts = append(opts, correlate.WithAllSteps())
		}

		report, err := correlate.New(opts...).Correlate(ctx, features, candidates)
		if err != nil {
			return fmt.Errorf("correlator Correlate: %w", err)
		}

		outputWriter := cmd.OutOrStdout()
		if silentOutput {
			outputWriter = io.Discard
		}

		outOpts := []exporter.WriterOption{exporter.WriteReportTo(outputWriter)}
		if outputDirFlag != "" {
			outOpts = append(outOpts, exporter.WriteToFile(outputDirFlag))
		}

		writer := exporter.NewWriter(outOpts...)

		if err := writer.WriteReport(ctx, report.Tests); err != nil {
			return fmt.Errorf("exporter.NewWriter WriteReport: %w", err)
		}

		if err := writer.WriteAttachments(ctx, report.Attachments); err != nil {
			return fmt.Errorf("exporter.NewWriter WriteAttachments: %w", err)
		}

		summarize(cmd.ErrOrStderr(), report)

		if forwardExitCode && report.Failed() {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "One or more scenarios failed. exiting with error 1\n")
			os.Exit(1)
		}

		return nil
	},
}

func summarize(w io.Writer, report correlate.Report) {
	var passed, failed, skipped int
	for _, tc := range report.Tests {
		switch {
		case tc.Failed():
			failed++
		case tc.Status == allure.StatusSkip:
			skipped++
		default:
			passed++
		}
	}

	_, _ = fmt.Fprintf(
		w, "%s %d scenario(s): %s, %s, %s, %d screenshot(s) attached\n",
		color.CyanString("▶"),
		len(report.Tests),
		color.GreenString("%d passed", passed),
		color.RedString("%d failed", failed),
		color.YellowString("%d skipped", skipped),
		len(report.Attachments),
	)
}
