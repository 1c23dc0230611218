package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/newsradar/internal/score"
)

func TestRelevance(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		text     string
		keywords []string
		want     int
	}{
		{
			name:     "no keywords match",
			title:    "Resultados deportivos del fin de semana",
			text:     "El equipo local ganó por dos goles.",
			keywords: []string{"presupuesto", "elecciones"},
			want:     0,
		},
		{
			name:     "single match in title",
			title:    "El presupuesto municipal sube un 3%",
			text:     "Sin más detalles.",
			keywords: []string{"presupuesto", "elecciones"},
			want:     1,
		},
		{
			name:     "matches across title and text count separately",
			title:    "Elecciones anticipadas",
			text:     "El presupuesto queda congelado hasta después de las urnas.",
			keywords: []string{"presupuesto", "elecciones"},
			want:     2,
		},
		{
			name:     "case insensitive",
			title:    "PRESUPUESTO aprobado",
			text:     "",
			keywords: []string{"Presupuesto"},
			want:     1,
		},
		{
			name:     "repeated occurrences count once",
			title:    "Presupuesto, presupuesto y más presupuesto",
			text:     "presupuesto",
			keywords: []string{"presupuesto"},
			want:     1,
		},
		{
			name:     "duplicate keywords count once",
			title:    "Presupuesto aprobado",
			text:     "",
			keywords: []string{"presupuesto", "PRESUPUESTO", " presupuesto "},
			want:     1,
		},
		{
			name:     "blank keywords ignored",
			title:    "Cualquier cosa",
			text:     "",
			keywords: []string{"", "   "},
			want:     0,
		},
		{
			name:     "empty keyword list",
			title:    "Cualquier cosa",
			text:     "texto",
			keywords: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := score.Relevance(tt.title, tt.text, tt.keywords)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Adding a keyword that matches never lowers the score, and the score is
// bounded by the number of distinct keywords.
func TestRelevance_Monotonic(t *testing.T) {
	title := "El ayuntamiento debate el presupuesto y las elecciones"
	text := "La sesión trató sanidad, vivienda y transporte."

	keywords := []string{"presupuesto", "elecciones", "sanidad", "vivienda", "transporte"}

	prev := 0
	for i := 1; i <= len(keywords); i++ {
		got := score.Relevance(title, text, keywords[:i])
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, i)
		prev = got
	}
}
