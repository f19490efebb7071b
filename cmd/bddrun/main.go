package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cposada23/BDDPlaywrightFramework/internal/config"
	"github.com/cposada23/BDDPlaywrightFramework/internal/correlate"
	"github.com/cposada23/BDDPlaywrightFramework/internal/cucumber"
	"github.com/cposada23/BDDPlaywrightFramework/internal/exporter"
	"github.com/cposada23/BDDPlaywrightFramework/internal/fs"
	"github.com/cposada23/BDDPlaywrightFramework/internal/logging"
	"github.com/cposada23/BDDPlaywrightFramework/internal/suite"
)

var (
	configPathFlag string
	tagsFlag       string
	allureFlag     bool
	verboseFlag    bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPathFlag, "config", "c", "", "path to a YAML config file: -c bdd.yaml")
	flags.StringVarP(&tagsFlag, "tags", "t", "", "tag expression to filter scenarios: -t '@smoke && ~@wip'")
	flags.BoolVar(&allureFlag, "allure", false, "export allure results after the run")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "verbose")
}

var rootCmd = &cobra.Command{
	Use:          "bddrun [features...]",
	Short:        "run the BDD features against a browser",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.Init(verboseFlag)

		cfg, err := config.Load(configPathFlag)
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}

		if tagsFlag != "" {
			cfg.Run.Tags = tagsFlag
		}
		if len(args) > 0 {
			cfg.Run.Features = args
		}

		status, err := suite.New(cfg, suite.WithLogger(logger), suite.WithOutput(cmd.OutOrStdout())).Run(cmd.Context())
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.RedString("setup failed:"), err)
			os.Exit(status)
		}

		if allureFlag {
			if err := exportAllure(cmd.Context(), cfg); err != nil {
				logger.Error("allure export failed", "err", err)
			} else {
				logger.Info("allure results written", "dir", cfg.Paths.Results)
			}
		}

		os.Exit(status)

		return nil
	},
}

func exportAllure(ctx context.Context, cfg config.Config) error {
	features, err := cucumber.ReadFile(ctx, cfg.Paths.Report)
	if err != nil {
		return fmt.Errorf("cucumber.ReadFile: %w", err)
	}

	candidates, err := correlate.Scan(fs.New(cfg.Paths.Screenshots))
	if err != nil {
		return fmt.Errorf("correlate.Scan: %w", err)
	}

	var opts []correlate.Option
	if cfg.Run.DebugScreenshots {
		opts = append(opts, correlate.WithAllSteps())
	}

	report, err := correlate.New(opts...).Correlate(ctx, features, candidates)
	if err != nil {
		return fmt.Errorf("correlator Correlate: %w", err)
	}

	w := exporter.NewWriter(exporter.WriteToFile(cfg.Paths.Results))
	if err := w.WriteReport(ctx, report.Tests); err != nil {
		return fmt.Errorf("exporter.NewWriter WriteReport: %w", err)
	}

	return w.WriteAttachments(ctx, report.Attachments)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(suite.StatusSetupFailed)
	}
}
