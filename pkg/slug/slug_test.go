package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dealerhub-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Motos & Repuestos":        "motos-repuestos",
		"  Ñandú Café Eléctrico ":  "nandu-cafe-electrico",
		"Llantas---R15":            "llantas-r15",
		"¡¡¡":                      "",
		"Accesorios / Cascos 2024": "accesorios-cascos-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), in)
	}
}

func TestMake_TruncaSinGuionFinal(t *testing.T) {
	out := slug.Make(strings.Repeat("ab ", 60))
	assert.LessOrEqual(t, len(out), 80)
	assert.False(t, strings.HasSuffix(out, "-"))
}
