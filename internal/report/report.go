// Package report serializes a ranked result set to its persisted formats
// (CSV and JSON) and renders a console summary table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonesrussell/newsradar/internal/domain"
	"github.com/jonesrussell/newsradar/internal/logger"
)

// csvHeader is the report wire contract's column order.
var csvHeader = []string{"title", "date", "url", "description", "source", "relevance_score"}

// Records converts ranked articles to their wire representation,
// preserving order.
func Records(articles []domain.Article) []domain.Record {
	records := make([]domain.Record, 0, len(articles))
	for _, a := range articles {
		records = append(records, a.Record())
	}
	return records
}

// WriteCSV writes a header row plus one row per record with minimal
// quoting.
func WriteCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Title, r.Date, r.URL, r.Description, r.Source, strconv.Itoa(r.RelevanceScore)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}

	return nil
}

// Writer persists reports to a CSV path and its sibling JSON path.
type Writer struct {
	csvPath string
	log     logger.Interface
}

// NewWriter creates a writer targeting the given CSV path. The JSON
// report is written next to it with a .json extension.
func NewWriter(csvPath string, log logger.Interface) *Writer {
	return &Writer{csvPath: csvPath, log: log}
}

// JSONPath returns the derived JSON output path.
func (w *Writer) JSONPath() string {
	ext := filepath.Ext(w.csvPath)
	if ext == "" {
		return w.csvPath + ".json"
	}
	return strings.TrimSuffix(w.csvPath, ext) + ".json"
}

// Write persists both report files, creating parent directories as
// needed. An empty result set still produces valid files.
func (w *Writer) Write(articles []domain.Article) error {
	records := Records(articles)

	if dir := filepath.Dir(w.csvPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	if err := writeFile(w.csvPath, func(f io.Writer) error {
		return WriteCSV(f, records)
	}); err != nil {
		return err
	}

	if err := writeFile(w.JSONPath(), func(f io.Writer) error {
		return WriteJSON(f, records)
	}); err != nil {
		return err
	}

	w.log.Info("report written",
		"csv", w.csvPath,
		"json", w.JSONPath(),
		"records", len(records),
	)

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
