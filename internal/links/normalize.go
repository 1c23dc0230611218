// Package links extracts and normalizes candidate article links from
// fetched pages. URLs are normalized before deduplication so the same URL
// expressed differently is processed at most once.
package links

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams lists query parameters stripped during normalization.
// These are advertising and analytics trackers that do not affect content.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
}

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var (
	errEmptyURL     = errors.New("normalize url: empty input")
	errNotAbsolute  = errors.New("normalize url: missing scheme or host")
	errBadScheme    = errors.New("normalize url: scheme is not http or https")
	errEmptyHostURL = errors.New("extract host: empty input")
)

// Normalize applies deterministic transformations to a raw URL so that
// equivalent URLs produce identical strings: lowercased scheme and host,
// default ports removed, dot-segments resolved, trailing slashes trimmed,
// fragments dropped, query keys sorted, and tracking parameters stripped.
// Only absolute http(s) URLs are accepted.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errNotAbsolute
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errBadScheme
	}

	parsed.Host = normalizeHost(parsed)
	parsed.Fragment = ""
	parsed.RawQuery = cleanQuery(parsed.Query())
	parsed.Path = normalizePath(parsed.Path)

	return parsed.String(), nil
}

// Host returns the lowercased hostname (without port) of a URL. Used as
// the key for per-domain throttling.
func Host(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyHostURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("extract host: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("extract host: no host in %q", rawURL)
	}

	return strings.ToLower(parsed.Hostname()), nil
}

func normalizeHost(u *url.URL) string {
	hostname := strings.ToLower(u.Hostname())

	port := u.Port()
	if port == "" || port == defaultPorts[u.Scheme] {
		return hostname
	}

	return hostname + ":" + port
}

// cleanQuery strips tracking parameters and re-encodes the remaining
// parameters with sorted keys. Returns an empty string when nothing is left.
func cleanQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, tracking := trackingParams[key]; !tracking {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return ""
	}

	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		for j, val := range values[key] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}

	return b.String()
}

// normalizePath resolves dot-segments and trims trailing slashes while
// preserving the root path.
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return ""
	}

	return strings.TrimRight(path.Clean(p), "/")
}
