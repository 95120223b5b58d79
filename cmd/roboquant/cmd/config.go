package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage roboquant configuration files.

Examples:
  roboquant config init -o roboquant.yaml
  roboquant config validate -f roboquant.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "roboquant.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Base currency: %s\n", cfg.Account.BaseCurrency)
			fmt.Fprintf(out, "  Initial cash: %s\n", cfg.InitialCash())
			codes := make([]string, 0, len(cfg.Rates.Table))
			for code := range cfg.Rates.Table {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			fmt.Fprintf(out, "  Rates: %d against %s %v\n", len(codes), cfg.Rates.Base, codes)
			if cfg.Journal.Type != "" {
				fmt.Fprintf(out, "  Journal: %s %s\n", cfg.Journal.Type, cfg.Journal.Path)
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
