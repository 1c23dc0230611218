// Package dates recovers article publish dates from page markup when the
// content extractor yields none. Absence of a parseable date is a normal
// outcome, not an error.
package dates

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// defaultTextLimit bounds how much visible text is scanned for date
// patterns, to bound cost on large pages.
const defaultTextLimit = 2000

// stampFormats are tried in order when parsing structured date values.
var stampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// metaSelectors identify structured elements that carry publish dates.
// First match wins.
var metaSelectors = []string{
	"meta[property='article:published_time']",
	"meta[property='og:published_time']",
	"meta[property='datePublished']",
	"meta[name='pubdate']",
	"meta[name='dc.date']",
	"time[datetime]",
	"time",
}

// Text date patterns, scanned in order over the bounded text prefix.
var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDatePattern   = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	dashDatePattern    = regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`)
	publishedOnPattern = regexp.MustCompile(`(?i)publicado\s+el\s+(\d{1,2}/\d{1,2}/\d{4})`)
	spanishTextualDate = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+([a-záéíóú]+)\s+de\s+(\d{4})\b`)
)

var spanishMonthNumbers = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ParseStamp parses a structured date value (ISO-8601 or date-only).
// Reports false when the value does not match any known format.
func ParseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range stampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Resolver extracts publish dates from raw markup.
type Resolver struct {
	textLimit int
}

// NewResolver creates a resolver with the default text scan bound.
func NewResolver() *Resolver {
	return &Resolver{textLimit: defaultTextLimit}
}

// Resolve attempts date recovery from the page markup: structured
// time/meta elements first, then date patterns in a bounded prefix of the
// visible text. Reports false when no date is found; it never guesses.
func (r *Resolver) Resolve(body []byte) (time.Time, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return time.Time{}, false
	}

	if t, ok := r.fromStructuredTags(doc); ok {
		return t, ok
	}

	return r.fromText(doc)
}

func (r *Resolver) fromStructuredTags(doc *goquery.Document) (time.Time, bool) {
	for _, selector := range metaSelectors {
		var found time.Time
		var ok bool

		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			value := sel.AttrOr("datetime", sel.AttrOr("content", sel.Text()))
			if t, parsed := ParseStamp(value); parsed {
				found, ok = t, true
				return false
			}
			return true
		})

		if ok {
			return found, true
		}
	}

	return time.Time{}, false
}

func (r *Resolver) fromText(doc *goquery.Document) (time.Time, bool) {
	// Script and style bodies are not visible text; drop them before
	// scanning so their content neither yields dates nor eats the bound.
	doc.Find("script, style, noscript").Remove()

	text := doc.Text()
	if runes := []rune(text); len(runes) > r.textLimit {
		text = string(runes[:r.textLimit])
	}

	if m := publishedOnPattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2/1/2006", m[1]); err == nil {
			return t, true
		}
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t, true
		}
	}

	if m := slashDatePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2/1/2006", m[1]); err == nil {
			return t, true
		}
	}

	if m := dashDatePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2-1-2006", m[1]); err == nil {
			return t, true
		}
	}

	if m := spanishTextualDate.FindStringSubmatch(text); m != nil {
		if t, ok := parseSpanishTextual(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseSpanishTextual builds a date from "día de mes de año" captures.
func parseSpanishTextual(day, month, year string) (time.Time, bool) {
	m, ok := spanishMonthNumbers[strings.ToLower(month)]
	if !ok {
		return time.Time{}, false
	}

	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}

	if d < 1 || d > 31 {
		return time.Time{}, false
	}

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
