package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsradar/internal/classify"
)

func TestClassify_Defaults(t *testing.T) {
	c, err := classify.New(classify.Config{})
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"dated path", "https://example.com/2026/08/28/titular-del-dia", true},
		{"noticia section", "https://example.com/noticia/algo-paso", true},
		{"politics section", "https://example.com/politica/nueva-ley", true},
		{"numeric id suffix", "https://example.com/gran-titular-48213", true},
		{"html extension", "https://example.com/seccion/nota.html", true},
		{"uppercase path still matches", "https://example.com/POLITICA/nota", true},

		{"tag page", "https://example.com/tag/economia/", false},
		{"category page", "https://example.com/category/deportes/", false},
		{"search page", "https://example.com/search/?q=x", false},
		{"login page", "https://example.com/login/", false},
		{"pdf document", "https://example.com/informe.pdf", false},
		{"twitter link", "https://twitter.com/alguien/status/1", false},
		{"shortener", "https://t.co/Ab12", false},
		{"facebook", "https://facebook.com/pagina/posts/9", false},
		{"bare homepage", "https://example.com/", false},
		{"non-http scheme", "ftp://example.com/noticia/x", false},
		{"unparseable", "http://%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.url), tt.url)
		})
	}
}

func TestClassify_DenyWinsOverAllow(t *testing.T) {
	c, err := classify.New(classify.Config{})
	require.NoError(t, err)

	// Path matches an allow pattern but the URL sits on a denied domain.
	assert.False(t, c.Classify("https://twitter.com/politica/nota-123"))
}

func TestClassify_CustomPatterns(t *testing.T) {
	c, err := classify.New(classify.Config{
		AllowPatterns: []string{`/story/`},
		DenyPatterns:  []string{`/story/sponsored/`},
	})
	require.NoError(t, err)

	assert.True(t, c.Classify("https://example.com/story/big-news"))
	assert.False(t, c.Classify("https://example.com/story/sponsored/ad"))
	// Default patterns are replaced, not merged.
	assert.False(t, c.Classify("https://example.com/politica/nota"))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := classify.New(classify.Config{AllowPatterns: []string{`[`}})
	assert.Error(t, err)
}
