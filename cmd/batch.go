package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-license-exporter/internal/exporter"
	"github.com/StinkyLord/sbom-license-exporter/internal/utils/logger"
)

func newBatchCommand(g *globalOptions) *cobra.Command {
	var (
		flags  pipelineFlags
		outDir string
	)

	batchCmd := &cobra.Command{
		Use:   "batch <sbom-file>...",
		Short: "Export the licenses of several SBOMs of the same type",
		Long: `Export several documents concurrently. Each input <name>.json produces
<name>_license.<format> and, for SPDX, <name>_license_ref.<format> in the
output directory. A failing document does not stop the others.

Examples:
  sbomlx batch -t spdx -d out/ sboms/*.spdx.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, g.cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("cannot create output directory %q: %w", outDir, err)
			}
			jobs, err := batchJobs(args, outDir, string(opts.Output.Format))
			if err != nil {
				return err
			}

			log := logger.Logger()
			log.Infof("Exporting %d %s document(s) into %s", len(jobs), opts.Format, outDir)

			results, err := exporter.New(opts).ExportAll(jobs)
			done := 0
			for _, res := range results {
				if res != nil {
					done++
				}
			}
			log.Infof("%d of %d document(s) exported", done, len(jobs))

			if err != nil {
				return fmt.Errorf("batch export failed: %w", err)
			}
			return nil
		},
	}

	batchCmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "Directory for the generated tables")
	flags.register(batchCmd)

	return batchCmd
}

// batchJobs derives output paths from the input file names. Two inputs with
// the same stem would overwrite each other and are rejected.
func batchJobs(inputs []string, outDir, ext string) ([]exporter.Job, error) {
	seen := make(map[string]string, len(inputs))
	jobs := make([]exporter.Job, 0, len(inputs))

	for _, in := range inputs {
		base := filepath.Base(in)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if prev, ok := seen[stem]; ok {
			return nil, fmt.Errorf("inputs %q and %q would write the same output files", prev, in)
		}
		seen[stem] = in

		jobs = append(jobs, exporter.Job{
			InputPath:     in,
			LicensePath:   filepath.Join(outDir, stem+"_license."+ext),
			ReferencePath: filepath.Join(outDir, stem+"_license_ref."+ext),
		})
	}
	return jobs, nil
}
