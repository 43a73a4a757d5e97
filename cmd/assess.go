package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssessCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "assess <domain>",
		Short: "Run the compliance checks for a domain",
		Long: `Checks robots.txt, legal contact discoverability and terms-of-service
language for a domain without generating anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			assessment, err := app.assessor.Assess(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("assessing %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return renderJSON(out, assessment)
			case formatYAML:
				return renderYAML(out, assessment)
			case formatTable:
				renderAssessment(out, assessment)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table|json|yaml)")
	return cmd
}
