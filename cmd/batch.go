package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/sourcegen/internal/importer"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
	"github.com/jonesrussell/sourcegen/internal/orchestrator"
)

func newBatchCmd() *cobra.Command {
	var (
		inputFile string
		outputDir string
		workers   int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "batch -f domains.txt",
		Short: "Run the pipeline for a list of domains",
		Long: `Reads domains from a plain text file (one per line, # comments) or an
.xlsx workbook and runs the full pipeline for each on a worker pool.
Larger lists are processed in chunks; one failing domain never stops the
rest.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(appOptions{
				needsLoader: true,
				noBrowser:   noBrowser,
				workers:     workers,
			})
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := importer.FromFile(inputFile)
			if err != nil {
				return fmt.Errorf("loading %s: %w", inputFile, err)
			}
			for _, skipped := range list.Skipped {
				app.log.Warn("skipping input row",
					logger.Int("row", skipped.Row),
					logger.String("value", skipped.Value),
					logger.String("reason", skipped.Reason),
				)
			}

			var records []models.GenerationRecord
			for _, chunk := range chunkDomains(list.Domains, orchestrator.MaxBatchSize) {
				chunkRecords, err := app.orch.GenerateBatch(cmd.Context(), chunk, app.cfg.Options())
				for _, rec := range chunkRecords {
					records = append(records, *rec)
				}
				if err != nil {
					return fmt.Errorf("batch aborted after %d domains: %w", len(records), err)
				}
			}

			out := cmd.OutOrStdout()
			renderHistory(out, records)

			if outputDir == "" {
				outputDir = app.cfg.Generation.OutputDir
			}
			written := 0
			for _, rec := range records {
				if rec.Artifact.IsEmpty() {
					continue
				}
				if _, err := writeArtifact(outputDir, rec.Artifact); err != nil {
					return err
				}
				written++
			}
			fmt.Fprintf(out, "\n%d domains processed, %d artifacts written to %s\n",
				len(records), written, outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "domain list (.txt or .xlsx)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact output directory (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size 1..8 (default from config)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "analyze with plain HTTP instead of headless Chrome")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// chunkDomains splits domains into runs of at most size.
func chunkDomains(domains []string, size int) [][]string {
	var chunks [][]string
	for len(domains) > 0 {
		n := min(size, len(domains))
		chunks = append(chunks, domains[:n])
		domains = domains[n:]
	}
	return chunks
}
