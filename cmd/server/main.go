package main

import (
	"os"

	"github.com/spf13/cobra"
)

const programName = "accredit"

var globalFlags = struct {
	logLevel string
}{}

// main only assembles the command tree. Wiring lives in serve.go.
func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Advocacy certificate eligibility, issuance and verification service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "override ACCREDIT_LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(tiersCommand())
	rootCmd.AddCommand(tokenCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
