package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Personal pregnancy record keeper",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file with configuration")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts for destructive actions")

	rootCmd.AddCommand(countdownCmd())
	rootCmd.AddCommand(checkupCmd())
	rootCmd.AddCommand(reminderCmd())
	rootCmd.AddCommand(familyCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(clinicCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(listenCmd())
	return rootCmd
}
