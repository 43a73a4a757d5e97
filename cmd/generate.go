package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		outputDir    string
		templateName string
		noBrowser    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <domain>",
		Short: "Run the full pipeline and write the scraper artifact",
		Long: `Assesses compliance, analyzes structure, renders a scraper from the
matching template family and grades it. The artifact is written when the
run produces one; the exit status is zero for every terminal verdict, the
verdict itself is in the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(appOptions{
				needsLoader:   true,
				noBrowser:     noBrowser,
				forceTemplate: templateName,
			})
			if err != nil {
				return err
			}
			defer app.Close()

			record, err := app.orch.Generate(cmd.Context(), args[0], app.cfg.Options())
			if err != nil {
				return fmt.Errorf("generating %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			renderRecord(out, record)

			if !record.Artifact.IsEmpty() {
				if outputDir == "" {
					outputDir = app.cfg.Generation.OutputDir
				}
				path, err := writeArtifact(outputDir, record.Artifact)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nartifact: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact output directory (default from config)")
	cmd.Flags().StringVar(&templateName, "template", "", "force a specific template family")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "analyze with plain HTTP instead of headless Chrome")
	return cmd
}
