// Package cli defines the timenest command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ziyi127/TimeNest-sub002/internal/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "timenest",
	Short:   "Live class timetable overlay",
	Long:    `TimeNest shows what is happening right now: the active class or break, what comes next, and how much time remains.`,
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "timenest.yaml", "Path to the configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(countdownCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
