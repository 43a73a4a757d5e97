// Package cmd implements the sourcegen command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Version metadata, overridable at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile  string
	debug    bool
	logLevel string
	dbPath   string

	rootCmd = &cobra.Command{
		Use:   "sourcegen",
		Short: "Generate compliant news scrapers from automated site analysis",
		Long: `sourcegen onboards news sources without hand-written scraping code.

For a domain it checks robots.txt and terms compliance, analyzes the site
structure (CMS, selectors, complexity), renders a scraper from the matching
template family and grades the artifact before recommending deployment.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite record store path (overrides database.path)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTemplatesCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sourcegen %s (%s)\n", version, commit)
		},
	}
}
