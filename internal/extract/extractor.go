// Package extract implements the content-extraction collaborator: given a
// fetched page, it returns a best-effort title, main text, and publish
// date. The crawl core depends only on the Extractor interface and makes
// no assumption about extraction quality beyond it.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/newsradar/internal/dates"
)

// ErrNoContent indicates the page yielded neither a title nor body text.
var ErrNoContent = errors.New("no extractable content")

// nonContentSelectors lists elements stripped before extracting body text.
const nonContentSelectors = "script, style, nav, header, footer, aside"

// Content is the result of a successful extraction. Published is zero
// when the page carried no recognizable structured date; the date
// resolver handles recovery in that case.
type Content struct {
	Title     string
	Text      string
	Published time.Time
}

// Extractor is the content-extraction capability used by the orchestrator.
type Extractor interface {
	Extract(pageURL string, body []byte) (*Content, error)
}

// GoqueryExtractor extracts article content from HTML using goquery.
type GoqueryExtractor struct{}

// New creates the default extractor.
func New() *GoqueryExtractor {
	return &GoqueryExtractor{}
}

// Extract parses the page and returns its title, main text, and publish
// date when a structured one is present. Fails when the markup cannot be
// parsed or carries no content at all.
func (e *GoqueryExtractor) Extract(pageURL string, body []byte) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", pageURL, err)
	}

	content := &Content{
		Title:     extractTitle(doc),
		Text:      extractBodyText(doc),
		Published: extractPublished(doc),
	}

	if content.Title == "" && content.Text == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, pageURL)
	}

	return content, nil
}

// extractTitle prefers og:title, then <title>, then the first <h1>.
func extractTitle(doc *goquery.Document) string {
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		if t := strings.TrimSpace(ogTitle); t != "" {
			return t
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// extractBodyText prefers <article> content and falls back to <body> with
// non-content elements stripped.
func extractBodyText(doc *goquery.Document) string {
	article := doc.Find("article").First()
	if article.Length() > 0 {
		article.Find(nonContentSelectors).Remove()
		return collapseSpace(article.Text())
	}

	body := doc.Find("body").First()
	if body.Length() > 0 {
		body.Find(nonContentSelectors).Remove()
		return collapseSpace(body.Text())
	}

	return ""
}

// extractPublished returns the publish date from structured metadata, or
// zero when none is present.
func extractPublished(doc *goquery.Document) time.Time {
	if value, exists := doc.Find("meta[property='article:published_time']").Attr("content"); exists {
		if t, ok := dates.ParseStamp(value); ok {
			return t
		}
	}

	if value, exists := doc.Find("time[datetime]").First().Attr("datetime"); exists {
		if t, ok := dates.ParseStamp(value); ok {
			return t
		}
	}

	return time.Time{}
}

// collapseSpace trims the text and collapses runs of blank lines left
// behind by removed elements.
func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	parts := make([]string, 0, len(lines))

	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, "\n")
}
