package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/newsradar/internal/domain"
)

// titleColumnWidth bounds the rendered title column.
const titleColumnWidth = 60

// RenderTable writes a human-readable summary of the ranked results.
func RenderTable(w io.Writer, records []domain.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Score", "Date", "Title", "Source"})

	for i, r := range records {
		title := r.Title
		if runes := []rune(title); len(runes) > titleColumnWidth {
			title = string(runes[:titleColumnWidth-1]) + "…"
		}
		t.AppendRow(table.Row{i + 1, r.RelevanceScore, r.Date, title, r.Source})
	}

	t.Render()
}
