package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ixanadu/saa/internal/config"
	"github.com/ixanadu/saa/internal/plan"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command and its subcommands.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage the audit plan",
		Long: `The audit plan is a markdown document that constrains the narrative
summary: tone, structure, and grounding rules. Installing a new plan
archives the previous one, so changes can be rolled back.`,
	}

	cmd.AddCommand(newPlanShowCmd())
	cmd.AddCommand(newPlanInstallCmd())
	cmd.AddCommand(newPlanRollbackCmd())
	cmd.AddCommand(newPlanListCmd())

	return cmd
}

func planManager() *plan.Manager {
	return plan.NewManager(config.ConfigDir())
}

func newPlanShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active audit plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := planManager().Load("")
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newPlanInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install FILE",
		Short: "Install a new audit plan, archiving the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) //nolint:gosec // user-provided plan path is intentional
			if err != nil {
				return fmt.Errorf("failed to read plan %s: %w", args[0], err)
			}

			manager := planManager()
			if err := manager.Install(string(data)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s as the active plan\n", args[0])
			return nil
		},
	}
}

func newPlanRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Restore the previously active audit plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := planManager()
			if err := manager.Rollback(); err != nil {
				if errors.Is(err, plan.ErrNoArchive) {
					return errors.New("nothing to roll back: no plan has been replaced yet")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restored the previous audit plan")
			return nil
		},
	}
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived audit plans, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			archives, err := planManager().ListArchives()
			if err != nil {
				return err
			}
			if len(archives) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived plans")
				return nil
			}
			for _, a := range archives {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Base(a))
			}
			return nil
		},
	}
}
