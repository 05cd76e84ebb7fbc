package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/pkg/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output.Info("# %s", cfg.Path())
		return output.YAML(cfg)
	},
}

var configSetURLCmd = &cobra.Command{
	Use:     "set-url URL",
	Short:   "Set the backend API base URL",
	Example: `  flowsearch config set-url http://flows.internal:8000/api`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetBackendURL(args[0]); err != nil {
			return err
		}
		output.Success("Backend URL set to %s (saved to %s)", cfg.Backend.URL, cfg.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetURLCmd)
}
