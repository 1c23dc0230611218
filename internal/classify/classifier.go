// Package classify decides whether a discovered URL plausibly identifies
// a single news article. The pattern sets are configuration so that
// locale or site-family tuning does not require touching core logic.
package classify

import (
	"fmt"
	"net/url"
	"regexp"
)

// Config holds the allow and deny pattern sets. Empty slices fall back to
// the built-in defaults.
type Config struct {
	AllowPatterns []string `mapstructure:"allow_patterns" yaml:"allow_patterns"`
	DenyPatterns  []string `mapstructure:"deny_patterns" yaml:"deny_patterns"`
}

// DefaultAllowPatterns match URL paths that typically identify articles:
// dated paths, topical sections, trailing numeric IDs, and document
// extensions. Tuned for Spanish-language news sites.
func DefaultAllowPatterns() []string {
	return []string{
		`/noticia`,
		`/noticias`,
		`/article`,
		`/\d{4}/\d{2}/\d{2}`,
		`/politica`,
		`/economia`,
		`/sociedad`,
		`-[0-9]+$`,
		`\.html$`,
	}
}

// DefaultDenyPatterns match URLs that are never articles: auth, taxonomy,
// search, and pagination paths, plus social networks, link shorteners,
// and non-article document formats. Deny patterns are tested against the
// full URL so they can match foreign domains.
func DefaultDenyPatterns() []string {
	return []string{
		`/login/`,
		`/tag/`,
		`/category/`,
		`/search/`,
		`/page/`,
		`/archive/`,
		`\.pdf$`,
		`twitter\.com`,
		`x\.com`,
		`t\.co`,
		`bitly\.ws`,
		`facebook\.com`,
		`instagram\.com`,
		`youtube\.com`,
		`whatsapp\.com`,
	}
}

// Classifier applies the configured pattern sets to candidate URLs.
type Classifier struct {
	allow []*regexp.Regexp
	deny  []*regexp.Regexp
}

// New compiles the configured pattern sets into a classifier. Empty sets
// use the defaults. Invalid patterns are a configuration error.
func New(cfg Config) (*Classifier, error) {
	allowPatterns := cfg.AllowPatterns
	if len(allowPatterns) == 0 {
		allowPatterns = DefaultAllowPatterns()
	}

	denyPatterns := cfg.DenyPatterns
	if len(denyPatterns) == 0 {
		denyPatterns = DefaultDenyPatterns()
	}

	allow, err := compilePatterns(allowPatterns)
	if err != nil {
		return nil, fmt.Errorf("allow patterns: %w", err)
	}

	deny, err := compilePatterns(denyPatterns)
	if err != nil {
		return nil, fmt.Errorf("deny patterns: %w", err)
	}

	return &Classifier{allow: allow, deny: deny}, nil
}

// Classify reports whether the URL is likely a single news article.
// A URL is accepted only when its path matches at least one allow pattern
// and the full URL matches no deny pattern. The classifier is a
// precision/recall trade-off: false positives are filtered later by
// relevance scoring.
func (c *Classifier) Classify(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	for _, p := range c.deny {
		if p.MatchString(rawURL) {
			return false
		}
	}

	for _, p := range c.allow {
		if p.MatchString(parsed.Path) {
			return true
		}
	}

	return false
}

// compilePatterns compiles patterns case-insensitively.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return compiled, nil
}
