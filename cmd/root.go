// Package cmd implements the command-line interface for newsradar. It
// provides the root command and subcommands for running and scheduling
// crawls and inspecting configured sources.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsradar/cmd/common"
	"github.com/jonesrussell/newsradar/cmd/crawl"
	"github.com/jonesrussell/newsradar/cmd/schedule"
	"github.com/jonesrussell/newsradar/cmd/sources"
)

// version is set via -ldflags at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newsradar",
	Short: "A concurrent news-discovery crawler",
	Long: `newsradar crawls configured seed sites for candidate article links,
scores them against a keyword list, and writes a ranked, deduplicated
report as CSV and JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&common.CfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&common.Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsradar version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(schedule.Command())
	rootCmd.AddCommand(sources.Command())
}
