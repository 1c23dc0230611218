package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsradar/internal/domain"
	"github.com/jonesrussell/newsradar/internal/logger"
	"github.com/jonesrussell/newsradar/internal/report"
)

func sampleArticles() []domain.Article {
	return []domain.Article{
		{
			Title:     "El ayuntamiento aprueba el presupuesto",
			Text:      "El pleno aprobó este jueves las cuentas.\nLa oposición anunció un recurso.",
			URL:       "https://diario.example.com/noticia/presupuesto-2027",
			Source:    "https://diario.example.com",
			Published: time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC),
			Score:     2,
		},
		{
			Title:     "Elecciones, con \"comillas\" y comas",
			Text:      "Texto breve.",
			URL:       "https://otro.example.com/elecciones",
			Source:    "https://otro.example.com",
			Published: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			Score:     1,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, report.Records(sampleArticles())))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"title", "date", "url", "description", "source", "relevance_score"}, rows[0])
	assert.Equal(t, []string{
		"El ayuntamiento aprueba el presupuesto",
		"2026-08-28",
		"https://diario.example.com/noticia/presupuesto-2027",
		"El pleno aprobó este jueves las cuentas. La oposición anunció un recurso.",
		"https://diario.example.com",
		"2",
	}, rows[1])
	assert.Equal(t, "Elecciones, con \"comillas\" y comas", rows[2][0])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, nil))

	assert.Equal(t, "title,date,url,description,source,relevance_score\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, report.Records(sampleArticles())))

	var records []domain.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "El ayuntamiento aprueba el presupuesto", records[0].Title)
	assert.Equal(t, "2026-08-28", records[0].Date)
	assert.Equal(t, 2, records[0].RelevanceScore)

	// URLs are not HTML-escaped in the JSON output.
	assert.Contains(t, buf.String(), "https://diario.example.com/noticia/presupuesto-2027")
	assert.NotContains(t, buf.String(), `&`)
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, nil))

	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestRecord_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("ñ", 400)

	rec := domain.Article{Title: "t", Text: long, URL: "u"}.Record()

	assert.Equal(t, 300, len([]rune(rec.Description)))
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "salidas", "noticias.csv")

	w := report.NewWriter(csvPath, logger.NewNoOp())
	assert.Equal(t, filepath.Join(dir, "salidas", "noticias.json"), w.JSONPath())

	require.NoError(t, w.Write(sampleArticles()))

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "presupuesto-2027")

	jsonData, err := os.ReadFile(w.JSONPath())
	require.NoError(t, err)

	var records []domain.Record
	require.NoError(t, json.Unmarshal(jsonData, &records))
	assert.Len(t, records, 2)
}

func TestWriter_EmptyRun(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "noticias.csv")

	w := report.NewWriter(csvPath, logger.NewNoOp())
	require.NoError(t, w.Write(nil))

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "title,date,url,description,source,relevance_score\n", string(csvData))

	jsonData, err := os.ReadFile(w.JSONPath())
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(jsonData)))
}
