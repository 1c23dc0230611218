// Package score quantifies how strongly an article matches the
// configured keyword list.
package score

import "strings"

// Relevance counts the distinct keywords present anywhere in the
// concatenation of title and text, case-insensitive substring match.
// Duplicate keywords in the list are counted once. An article is relevant
// iff the returned score is greater than zero.
func Relevance(title, text string, keywords []string) int {
	haystack := strings.ToLower(text + " " + title)

	matched := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		if _, seen := matched[k]; seen {
			continue
		}
		if strings.Contains(haystack, k) {
			matched[k] = struct{}{}
		}
	}

	return len(matched)
}
