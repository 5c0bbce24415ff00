package pathseg

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var segmentPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain lowercase", "fundaciones", "fundaciones"},
		{"mixed case", "Edificio Centro", "edificio-centro"},
		{"symbols collapse to single hyphen", "Obra de Prueba #1", "obra-de-prueba-1"},
		{"leading and trailing symbols trimmed", "  --Obra--  ", "obra"},
		{"consecutive separators", "a___b...c", "a-b-c"},
		{"digits kept", "Etapa 2 / Fase 3", "etapa-2-fase-3"},
		{"non-ascii treated as separator", "Añadido", "a-adido"},
		{"fully symbolic yields empty", "###", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.input))
		})
	}
}

func TestSegmentIdempotent(t *testing.T) {
	inputs := []string{
		"Edificio Centro",
		"Obra de Prueba #1",
		"  weird -- input ++ here  ",
		"ya-canonico",
		"",
	}
	for _, in := range inputs {
		once := Segment(in)
		assert.Equal(t, once, Segment(once), "Segment must be idempotent for %q", in)
	}
}

func TestSegmentShape(t *testing.T) {
	inputs := []string{
		"Edificio Centro",
		"a", "A#B", "1 2 3", "--x--", "CamelCaseName",
	}
	for _, in := range inputs {
		got := Segment(in)
		if got == "" {
			continue
		}
		assert.Regexp(t, segmentPattern, got, "input %q", in)
	}
}
