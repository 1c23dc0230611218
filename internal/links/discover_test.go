package links_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsradar/internal/links"
)

func TestDiscover(t *testing.T) {
	page := `<html><body>
		<a href="/politica/articulo-uno.html">Uno</a>
		<a href="https://news.example.com/economia/articulo-dos.html">Dos</a>
		<a href="/politica/articulo-uno.html">Uno otra vez</a>
		<a href="mailto:redaccion@example.com">Correo</a>
		<a href="ftp://example.com/archivo">FTP</a>
		<a href="#top">Arriba</a>
		<a>sin href</a>
	</body></html>`

	got, err := links.Discover("https://news.example.com/portada", []byte(page))
	require.NoError(t, err)

	// Relative targets resolved, duplicates collapsed, non-http dropped.
	// "#top" resolves to the page itself, which is a valid absolute URL.
	assert.Equal(t, []string{
		"https://news.example.com/politica/articulo-uno.html",
		"https://news.example.com/economia/articulo-dos.html",
		"https://news.example.com/portada",
	}, got)
}

func TestDiscover_NoAnchors(t *testing.T) {
	got, err := links.Discover("https://example.com", []byte("<html><body><p>nada</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_BadBaseURL(t *testing.T) {
	_, err := links.Discover("://broken", []byte("<a href='/x'>x</a>"))
	assert.Error(t, err)
}

func TestDiscover_PureFunction(t *testing.T) {
	page := []byte(`<a href="/a-1.html">a</a><a href="/b-2.html">b</a>`)

	first, err := links.Discover("https://example.com", page)
	require.NoError(t, err)

	second, err := links.Discover("https://example.com", page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
