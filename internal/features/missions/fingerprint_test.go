package missions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContent(t *testing.T) {
	assert.Equal(t, "kimchi stew recipe", NormalizeContent("  Kimchi   Stew\n\tRECIPE  "))
	assert.Equal(t, "", NormalizeContent("   \n\t  "))
}

func TestFingerprintIgnoresCaseAndWhitespace(t *testing.T) {
	a := Fingerprint("Ingredients: Kimchi, Pork\n\nSteps: simmer")
	b := Fingerprint("ingredients:   kimchi, pork\tsteps: SIMMER")

	// Пробелы, переносы и регистр не делают контент другим
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex sha256
}

func TestFingerprintDiffersForDifferentContent(t *testing.T) {
	assert.NotEqual(t, Fingerprint("recipe one"), Fingerprint("recipe two"))
}
