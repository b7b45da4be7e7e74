package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-license-exporter/internal/config"
	"github.com/StinkyLord/sbom-license-exporter/internal/utils/logger"
)

const (
	toolName    = "sbomlx"
	toolVersion = "1.0.0"
)

// globalOptions carries the persistent flags and the state set up from them
// before any subcommand runs.
type globalOptions struct {
	configFile string
	logLevel   string
	logFile    string

	cfg     *config.Config
	cleanup func()
}

func newRootCommand(g *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   toolName,
		Short: "SBOM license exporter",
		Long: `sbomlx reads a CycloneDX or SPDX JSON SBOM and writes one flat row per
license per component, ready for spreadsheet review or compliance tooling.

For SPDX input a second table transcribes the document's extracted license
texts (hasExtractedLicensingInfos).

Settings are read from sbomlx.yml in the working directory or
~/.config/sbomlx/config.yml when present; flags override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: g.setup,
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Log file path (empty string disables the file log)")

	rootCmd.AddCommand(newExportCommand(g))
	rootCmd.AddCommand(newBatchCommand(g))
	rootCmd.AddCommand(newConfigCommand(g))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads the configuration, applies the logging flags and installs the
// logger.
func (g *globalOptions) setup(cmd *cobra.Command, _ []string) error {
	path := g.configFile
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	return g.install(cmd, cfg, path)
}

// setupDefaults ignores any configuration file so that a broken one can be
// replaced.
func (g *globalOptions) setupDefaults(cmd *cobra.Command, _ []string) error {
	return g.install(cmd, config.Default(), "")
}

// install starts the logger at the configured level and then applies
// --log-level on top of it.
func (g *globalOptions) install(cmd *cobra.Command, cfg *config.Config, path string) error {
	level := cfg.Logging.Level
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.File = g.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, cleanup, err := logger.InitWithConfig(logger.Config{
		Level:    level,
		FilePath: cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		logger.SetLogLevel(g.logLevel)
	}
	g.cfg = cfg
	g.cleanup = cleanup

	if path != "" {
		log.Debugf("Using configuration from: %s", path)
	}
	return nil
}

func (g *globalOptions) close() {
	if g.cleanup != nil {
		g.cleanup()
		g.cleanup = nil
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	g := &globalOptions{}
	err := newRootCommand(g).Execute()
	g.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
