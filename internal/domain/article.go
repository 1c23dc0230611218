// Package domain defines the core types shared across the crawl pipeline.
package domain

import (
	"strings"
	"time"
)

// descriptionLimit is the maximum number of characters carried into a
// report record's description.
const descriptionLimit = 300

// CandidateLink is a normalized absolute URL discovered on a page, tagged
// with its originating source and hop depth (0 = found on the source page,
// 1 = found on a first-hop article page during deep scrape).
type CandidateLink struct {
	URL    string
	Source string
	Depth  int
}

// Article is a candidate link that survived fetching, extraction, and
// relevance scoring. Immutable once created.
type Article struct {
	Title string
	Text  string
	URL   string
	// Source is the seed URL the article was discovered from.
	Source string
	// Published is the resolved publish date. When DateFallback is true the
	// date could not be recovered and the run date was substituted.
	Published    time.Time
	DateFallback bool
	// Score counts the distinct configured keywords present in title+text.
	Score int
}

// Record is the report wire contract handed to the report writer.
type Record struct {
	Title          string `json:"title"`
	Date           string `json:"date"`
	URL            string `json:"url"`
	Description    string `json:"description"`
	Source         string `json:"source"`
	RelevanceScore int    `json:"relevance_score"`
}

// Record converts the article into its report representation. The
// description is the leading slice of the article text with line breaks
// collapsed to spaces.
func (a Article) Record() Record {
	return Record{
		Title:          a.Title,
		Date:           a.Published.Format("2006-01-02"),
		URL:            a.URL,
		Description:    describe(a.Text),
		Source:         a.Source,
		RelevanceScore: a.Score,
	}
}

func describe(text string) string {
	runes := []rune(text)
	if len(runes) > descriptionLimit {
		runes = runes[:descriptionLimit]
	}

	s := string(runes)
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.TrimSpace(s)
}
