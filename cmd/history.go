package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/orchestrator"
	"github.com/jonesrussell/sourcegen/internal/store"
)

// openRecords opens the configured record store for read-side commands.
func openRecords() (store.RecordStore, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LoggerOptions())
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.Path == "" {
		return store.NewMemory(), func() { _ = log.Sync() }, nil
	}
	s, err := store.NewSQLite(cfg.Database.Path, log)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close(); _ = log.Sync() }, nil
}

func newHistoryCmd() *cobra.Command {
	var (
		format string
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generation runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, closeStore, err := openRecords()
			if err != nil {
				return err
			}
			defer closeStore()

			if clear {
				if err := records.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}

			history, err := records.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "no runs recorded (set database.path or --db to persist history)")
				return nil
			}

			switch format {
			case formatJSON:
				return renderJSON(out, history)
			case formatYAML:
				return renderYAML(out, history)
			case formatTable:
				renderHistory(out, history)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table|json|yaml)")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all recorded runs")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate generation statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, closeStore, err := openRecords()
			if err != nil {
				return err
			}
			defer closeStore()

			history, err := records.List(cmd.Context())
			if err != nil {
				return err
			}
			stats := orchestrator.DeriveStats(history)

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return renderJSON(out, stats)
			case formatYAML:
				return renderYAML(out, stats)
			case formatTable:
				renderStats(out, stats)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table|json|yaml)")
	return cmd
}
