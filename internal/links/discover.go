package links

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Discover parses page markup and returns the unique absolute http(s)
// URLs found in anchor tags, with relative targets resolved against the
// page's own URL. The result preserves first-encounter order with
// duplicates collapsed. Pure function of (base URL, markup).
func Discover(baseURL string, body []byte) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("discover links: parse base: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("discover links: parse html: %w", err)
	}

	seen := make(map[string]struct{})
	var found []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := anchorHref(n); ok {
				if resolved, ok := resolveHref(base, href); ok {
					if _, dup := seen[resolved]; !dup {
						seen[resolved] = struct{}{}
						found = append(found, resolved)
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return found, nil
}

func anchorHref(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href := strings.TrimSpace(attr.Val)
			if href != "" {
				return href, true
			}
		}
	}
	return "", false
}

// resolveHref resolves an anchor target against the page URL and
// normalizes it. Non-http(s) results are discarded.
func resolveHref(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)

	normalized, err := Normalize(resolved.String())
	if err != nil {
		return "", false
	}

	return normalized, true
}
