package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-license-exporter/internal/config"
	"github.com/StinkyLord/sbom-license-exporter/internal/exporter"
	"github.com/StinkyLord/sbom-license-exporter/internal/flatten"
	"github.com/StinkyLord/sbom-license-exporter/internal/model"
	"github.com/StinkyLord/sbom-license-exporter/internal/output"
	"github.com/StinkyLord/sbom-license-exporter/internal/utils/logger"
)

// pipelineFlags are shared by export and batch. Empty values fall back to
// the configuration.
type pipelineFlags struct {
	sbomType    string
	format      string
	delimiter   string
	spdxMode    string
	includeRoot bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sbomType, "sbom-type", "t", "", "SBOM format of the input: cdx or spdx (required)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: csv, tsv or json")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV field delimiter (single character)")
	cmd.Flags().StringVar(&f.spdxMode, "spdx-mode", "", "SPDX row policy: per-identifier or whole-expression")
	cmd.Flags().BoolVar(&f.includeRoot, "include-root", false, "Also export the CycloneDX metadata component")
	_ = cmd.MarkFlagRequired("sbom-type")
}

// options merges the flags over cfg.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg *config.Config) (exporter.Options, error) {
	sbomType, err := model.ParseFormat(f.sbomType)
	if err != nil {
		return exporter.Options{}, err
	}

	merged := *cfg
	if f.format != "" {
		merged.Output.Format = f.format
	}
	if f.delimiter != "" {
		if format, err := output.ParseFormat(merged.Output.Format); err == nil && format != output.FormatCSV {
			return exporter.Options{}, fmt.Errorf("--delimiter only applies to csv output, not %s", merged.Output.Format)
		}
		merged.Output.Delimiter = f.delimiter
	}
	if f.spdxMode != "" {
		merged.SPDX.Mode = f.spdxMode
	}
	if cmd.Flags().Changed("include-root") {
		merged.CycloneDX.IncludeRoot = f.includeRoot
	}

	outOpts, err := merged.OutputOptions()
	if err != nil {
		return exporter.Options{}, err
	}
	mode, err := flatten.ParseSPDXMode(merged.SPDX.Mode)
	if err != nil {
		return exporter.Options{}, err
	}

	return exporter.Options{
		Format: sbomType,
		Flatten: flatten.Options{
			SPDXMode:    mode,
			IncludeRoot: merged.CycloneDX.IncludeRoot,
		},
		Output: outOpts,
	}, nil
}

func newExportCommand(g *globalOptions) *cobra.Command {
	var (
		flags    pipelineFlags
		sbomFile string
		csvPath  string
		refPath  string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the licenses of one SBOM as a flat table",
		Long: `Read one CycloneDX or SPDX JSON document and write one row per license
per component. For SPDX input the extracted license texts are written to a
second table.

Examples:
  sbomlx export -p bom.json -t cdx
  sbomlx export -p sbom.spdx.json -t spdx -o licenses.csv -r license_refs.csv
  sbomlx export -p sbom.spdx.json -t spdx --spdx-mode whole-expression --format tsv -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, g.cfg)
			if err != nil {
				return err
			}

			job := exporter.Job{
				InputPath:     sbomFile,
				LicensePath:   firstSet(csvPath, g.cfg.Output.LicenseFile),
				ReferencePath: firstSet(refPath, g.cfg.Output.ReferenceFile),
			}

			log := logger.Logger()
			log.Infof("%s v%s", toolName, toolVersion)
			log.Infof("Exporting %s (%s)", job.InputPath, opts.Format)

			res, err := exporter.New(opts).Export(job)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if job.LicensePath != "-" {
				log.Infof("%d license record(s) written to: %s", len(res.Records), job.LicensePath)
			}
			if opts.Format == model.FormatSPDX && job.ReferencePath != "-" {
				log.Infof("%d license reference(s) written to: %s", len(res.References), job.ReferencePath)
			}
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&sbomFile, "sbom-file", "p", "", "Path to the SBOM JSON file (required)")
	exportCmd.Flags().StringVarP(&csvPath, "csv-path", "o", "", "License table path (use '-' for stdout; default from config: license.csv)")
	exportCmd.Flags().StringVarP(&refPath, "ref-file-path", "r", "", "SPDX license reference table path (default from config: license_ref.csv)")
	flags.register(exportCmd)
	_ = exportCmd.MarkFlagRequired("sbom-file")

	return exportCmd
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
