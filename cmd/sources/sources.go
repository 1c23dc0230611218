// Package sources implements the sources command, which displays the
// configured seed sources in a formatted table.
package sources

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsradar/cmd/common"
)

// Command returns the sources command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured seed sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}

			renderSources(deps)
			return nil
		},
	}
}

func renderSources(deps *common.Deps) {
	cfg := deps.Config.Crawler

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Source URL"})
	for i, src := range cfg.Sources {
		t.AppendRow(table.Row{i + 1, src})
	}
	t.Render()

	if len(cfg.SocialAccounts) > 0 {
		s := table.NewWriter()
		s.SetOutputMirror(os.Stdout)
		s.SetStyle(table.StyleLight)

		s.AppendHeader(table.Row{"#", "Social Account"})
		for i, acct := range cfg.SocialAccounts {
			s.AppendRow(table.Row{i + 1, acct})
		}
		s.Render()
	}
}
