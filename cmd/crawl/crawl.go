// Package crawl implements the crawl command: one full discovery run
// over the configured sources.
package crawl

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsradar/cmd/common"
)

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var (
		maxResults       int
		maxLinks         int
		deepScrape       bool
		validateLinks    bool
		todayOnly        bool
		includeYesterday bool
		output           string
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl over the configured sources",
		Long: `Crawl every configured seed source for article links, score the
articles against the keyword list, and write the ranked report. An
interrupt stops new work and writes whatever completed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}

			applyFlagOverrides(cmd, deps, flagValues{
				maxResults:       maxResults,
				maxLinks:         maxLinks,
				deepScrape:       deepScrape,
				validateLinks:    validateLinks,
				todayOnly:        todayOnly,
				includeYesterday: includeYesterday,
				output:           output,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return common.RunCrawl(ctx, deps)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "cap the total result count (0 = unbounded)")
	cmd.Flags().IntVar(&maxLinks, "max-links", 0, "cap the links considered per source")
	cmd.Flags().BoolVar(&deepScrape, "deep-scrape", false, "follow links found on first-hop article pages")
	cmd.Flags().BoolVar(&validateLinks, "validate-links", false, "HEAD-check links before processing")
	cmd.Flags().BoolVar(&todayOnly, "today-only", false, "accept only articles dated today")
	cmd.Flags().BoolVar(&includeYesterday, "include-yesterday", false, "with --today-only, also accept yesterday")
	cmd.Flags().StringVar(&output, "output", "", "report CSV path (JSON written alongside)")

	return cmd
}

type flagValues struct {
	maxResults       int
	maxLinks         int
	deepScrape       bool
	validateLinks    bool
	todayOnly        bool
	includeYesterday bool
	output           string
}

// applyFlagOverrides lets explicitly set flags override the config file.
func applyFlagOverrides(cmd *cobra.Command, deps *common.Deps, v flagValues) {
	cfg := &deps.Config.Crawler

	if cmd.Flags().Changed("max-results") {
		cfg.MaxResults = v.maxResults
	}
	if cmd.Flags().Changed("max-links") {
		cfg.MaxLinksPerSource = v.maxLinks
	}
	if cmd.Flags().Changed("deep-scrape") {
		cfg.DeepScrape = v.deepScrape
	}
	if cmd.Flags().Changed("validate-links") {
		cfg.ValidateLinks = v.validateLinks
	}
	if cmd.Flags().Changed("today-only") {
		cfg.TodayOnly = v.todayOnly
	}
	if cmd.Flags().Changed("include-yesterday") {
		cfg.IncludeYesterday = v.includeYesterday
	}
	if cmd.Flags().Changed("output") {
		deps.Config.Report.Output = v.output
	}
}
