package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsradar/internal/extract"
)

const articlePage = `<html>
<head>
  <title>Titular de respaldo | Diario</title>
  <meta property="og:title" content="El ayuntamiento aprueba el presupuesto">
  <meta property="article:published_time" content="2026-08-28T08:00:00Z">
</head>
<body>
  <nav>Portada Política Economía</nav>
  <article>
    <h1>El ayuntamiento aprueba el presupuesto</h1>
    <p>El pleno aprobó este jueves las cuentas del próximo año.</p>
    <script>trackPageView();</script>
    <p>La oposición anunció un recurso.</p>
  </article>
  <footer>© Diario 2026</footer>
</body>
</html>`

func TestExtract_Article(t *testing.T) {
	content, err := extract.New().Extract("https://diario.example.com/noticia", []byte(articlePage))
	require.NoError(t, err)

	assert.Equal(t, "El ayuntamiento aprueba el presupuesto", content.Title)
	assert.Contains(t, content.Text, "El pleno aprobó este jueves")
	assert.Contains(t, content.Text, "La oposición anunció un recurso.")
	assert.NotContains(t, content.Text, "trackPageView")
	assert.NotContains(t, content.Text, "Portada Política")
	assert.True(t, content.Published.Equal(time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)))
}

func TestExtract_TitleFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"title tag when no og title",
			`<html><head><title>Desde el title</title></head><body><p>texto</p></body></html>`,
			"Desde el title",
		},
		{
			"h1 when nothing else",
			`<html><body><h1>Desde el h1</h1><p>texto</p></body></html>`,
			"Desde el h1",
		},
		{
			"empty og title skipped",
			`<html><head><meta property="og:title" content="  "><title>Respaldo</title></head><body><p>texto</p></body></html>`,
			"Respaldo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := extract.New().Extract("https://diario.example.com/x", []byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, content.Title)
		})
	}
}

func TestExtract_BodyFallback(t *testing.T) {
	html := `<html><body>
	<header>Cabecera</header>
	<p>Texto principal sin elemento article.</p>
	<aside>Lo más leído</aside>
	</body></html>`

	content, err := extract.New().Extract("https://diario.example.com/x", []byte(html))
	require.NoError(t, err)

	assert.Contains(t, content.Text, "Texto principal sin elemento article.")
	assert.NotContains(t, content.Text, "Cabecera")
	assert.NotContains(t, content.Text, "Lo más leído")
}

func TestExtract_TimeElementDate(t *testing.T) {
	html := `<html><body><article>
	<time datetime="2026-08-27">jueves</time>
	<p>Cuerpo de la noticia.</p>
	</article></body></html>`

	content, err := extract.New().Extract("https://diario.example.com/x", []byte(html))
	require.NoError(t, err)

	assert.True(t, content.Published.Equal(time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)))
}

func TestExtract_NoDateIsZero(t *testing.T) {
	html := `<html><body><article><p>Sin fecha estructurada.</p></article></body></html>`

	content, err := extract.New().Extract("https://diario.example.com/x", []byte(html))
	require.NoError(t, err)

	assert.True(t, content.Published.IsZero())
}

func TestExtract_NoContent(t *testing.T) {
	html := `<html><head></head><body><script>nada()</script></body></html>`

	_, err := extract.New().Extract("https://diario.example.com/x", []byte(html))
	assert.ErrorIs(t, err, extract.ErrNoContent)
}
