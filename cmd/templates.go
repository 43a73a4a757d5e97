package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/templates"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available template families",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := templates.New(templates.Config{Logger: logger.NewNop()})
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Template"})
			for _, name := range engine.Templates() {
				t.AppendRow(table.Row{name})
			}
			t.Render()
			return nil
		},
	}
}
