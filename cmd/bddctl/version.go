package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var (
	BuildName = "bddctl"
	BuildTag  string
)

var versionCmd = &cobra.Command{
	Use:          "version",
	Long:         "Print actual version",
	Short:        "actual version",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version())
		return err
	},
}

func init() {
	if info, available := debug.ReadBuildInfo(); available {
		if BuildTag == "" {
			BuildTag = info.Main.Version
		}
	}

	rootCmd.AddCommand(versionCmd)
}

func version() string {
	return fmt.Sprintf(
		"%s version %s %s %s", BuildName, strings.TrimPrefix(BuildTag, "v"), runtime.GOOS, runtime.GOARCH,
	)
}
