package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/StinkyLord/sbom-license-exporter/internal/config"
)

func newConfigCommand(g *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the sbomlx configuration file.

Available commands:
  init    Write a configuration file with default values
  show    Print the effective configuration`,
	}

	configCmd.AddCommand(newConfigInitCommand(g))
	configCmd.AddCommand(newConfigShowCommand(g))

	return configCmd
}

func newConfigInitCommand(g *globalOptions) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with default values.

If no path is given the file is created as sbomlx.yml in the current directory.

Examples:
  sbomlx config init
  sbomlx config init ~/.config/sbomlx/config.yml`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: g.setupDefaults,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sbomlx.yml"
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("cannot access %s: %w", path, err)
			}

			cfg := config.Default()
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file created at: %s\n", path)
			fmt.Fprintf(out, "  Output format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "  License table: %s\n", cfg.Output.LicenseFile)
			fmt.Fprintf(out, "  Reference table: %s\n", cfg.Output.ReferenceFile)
			fmt.Fprintf(out, "  SPDX mode: %s\n", cfg.SPDX.Mode)
			fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
			return nil
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return initCmd
}

func newConfigShowCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(g.cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
