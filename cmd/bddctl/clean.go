package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
)

var cleanDirFlag string

func init() {
	cleanCmd.Flags().StringVarP(
		&cleanDirFlag,
		"screenshots",
		"d",
		artifact.DefaultDir,
		"screenshot directory to clear: -d <dir>",
	)

	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "delete captured screenshots",
	Long:         "Delete every image in the screenshot directory",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := artifact.New(cleanDirFlag, artifact.WithLogger(slog.Default())).ClearAll()
		if err != nil {
			return fmt.Errorf("store.ClearAll: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d screenshot(s) from %s\n", color.GreenString("✓"), n, cleanDirFlag)

		return nil
	},
}
