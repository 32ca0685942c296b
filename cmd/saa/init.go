package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ixanadu/saa/internal/config"
	"github.com/ixanadu/saa/internal/plan"
	"github.com/spf13/cobra"
)

//go:embed templates/saa.yaml
var templates embed.FS

// keysTemplate is the skeleton keys file written by init. It lives
// under the config directory with 0600 permissions, never in the
// project-local .saa.yaml.
const keysTemplate = `# saa API keys. Keep this file private.
#
# Environment variables (XAI_API_KEY, ANTHROPIC_API_KEY) override
# the values here.
#xai_api_key: ""
#anthropic_api_key: ""
`

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration",
		Long: `Init writes a commented .saa.yaml into the current directory, a
keys.yaml skeleton into the saa config directory, and installs the
bundled audit plan if no plan is active yet.`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Configuration file path")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().Bool("update-plan", false, "Replace the active audit plan with the bundled one")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")
	updatePlan, _ := cmd.Flags().GetBool("update-plan")

	if updatePlan {
		manager := plan.NewManager(config.ConfigDir())
		if err := manager.InstallDefault(); err != nil {
			return fmt.Errorf("failed to update audit plan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed the bundled audit plan at %s\n", manager.ActivePath())
		return nil
	}

	if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", output)
		}
	}

	data, err := templates.ReadFile("templates/saa.yaml")
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", output)

	if err := writeKeysSkeleton(cmd); err != nil {
		return err
	}
	if err := installPlanIfMissing(cmd); err != nil {
		return err
	}
	reportConfiguredKeys(cmd)
	return nil
}

// reportConfiguredKeys tells the operator which provider credentials
// are already available. Key values themselves are never printed.
func reportConfiguredKeys(cmd *cobra.Command) {
	cfg := config.New()
	config.LoadKeys(cfg)

	status := func(key string) string {
		if key != "" {
			return "configured"
		}
		return "not configured"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "xai API key:       %s\n", status(cfg.XAIAPIKey))
	fmt.Fprintf(cmd.OutOrStdout(), "anthropic API key: %s\n", status(cfg.AnthropicAPIKey))
}

// writeKeysSkeleton creates the keys file under the config directory
// unless one exists. Never overwrites: the file may hold real keys.
func writeKeysSkeleton(cmd *cobra.Command) error {
	path := filepath.Join(config.ConfigDir(), config.KeysFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(keysTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

// installPlanIfMissing installs the bundled audit plan as the active
// plan when none is configured yet.
func installPlanIfMissing(cmd *cobra.Command) error {
	manager := plan.NewManager(config.ConfigDir())
	if _, err := os.Stat(manager.ActivePath()); err == nil {
		return nil
	}

	if err := manager.InstallDefault(); err != nil {
		return fmt.Errorf("failed to install default audit plan: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed default audit plan at %s\n", manager.ActivePath())
	return nil
}
