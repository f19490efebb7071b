package main

import (
	"github.com/spf13/cobra"

	"github.com/cposada23/BDDPlaywrightFramework/internal/logging"
)

var verboseFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verboseFlag,
		"verbose",
		"v",
		false,
		"verbose",
	)
}

var rootCmd = &cobra.Command{
	Use:          "bddctl",
	Long:         "Correlate BDD run reports with step screenshots and export allure results",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verboseFlag)
	},
}
