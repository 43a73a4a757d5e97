package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		format    string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <domain>",
		Short: "Analyze a domain's structure",
		Long: `Loads the homepage, classifies the platform, discovers selectors and
article listings, and scores rendering complexity. Analysis never fails:
unreachable sites produce a conservative fallback structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(appOptions{needsLoader: true, noBrowser: noBrowser})
			if err != nil {
				return err
			}
			defer app.Close()

			structure, err := app.analyzer.Analyze(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return renderJSON(out, structure)
			case formatYAML:
				return renderYAML(out, structure)
			case formatTable:
				renderStructure(out, structure)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table|json|yaml)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "analyze with plain HTTP instead of headless Chrome")
	return cmd
}
