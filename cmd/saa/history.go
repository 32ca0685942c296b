package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ixanadu/saa/internal/config"
	"github.com/ixanadu/saa/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [URL]",
		Short: "List past audits",
		Long: `History lists audits stored in the local database, newest first.
Pass a URL to show only the audits of that site.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of audits to show (0 = all)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.DataDir(), opts)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit history yet")
			return nil
		}
		return err
	}
	defer db.Close()

	startURL := ""
	if len(args) == 1 {
		startURL = args[0]
	}
	limit, _ := cmd.Flags().GetInt("limit")

	audits, err := db.ListAudits(cmd.Context(), startURL, limit)
	if err != nil {
		return err
	}
	if len(audits) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit history yet")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, a := range audits {
		marker := ""
		if a.Incomplete {
			marker = color.YellowString(" (interrupted)")
		}
		fmt.Fprintf(out, "#%-4d %s  %-10s  %s%s\n",
			a.ID,
			a.StartedAt.Local().Format("2006-01-02 15:04"),
			a.Mode,
			a.StartURL,
			marker,
		)
		fmt.Fprintf(out, "      %d fetched, %d failed  |  %s %s %s\n",
			a.PagesCrawled,
			a.PagesFailed,
			color.RedString("%d critical", a.CriticalCount),
			color.YellowString("%d warning", a.WarningCount),
			color.WhiteString("%d info", a.InfoCount),
		)
	}
	return nil
}
