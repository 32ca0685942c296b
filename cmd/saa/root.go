// Package main provides the entry point for the saa CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for saa.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saa",
		Short: "Website audit agent",
		Long: `saa is a website audit agent. It crawls a site with a headless
browser, runs SEO and content checks over the rendered pages, and
writes a markdown report with an optional model-written narrative.

Two modes are supported: "own" performs a deep audit of a site you
control, "competitor" performs a shallow, low-footprint scan of a
third-party site.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
