package missions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateXProfile(t *testing.T) {
	ok, _, _ := Validate(ValidatorXProfile, "https://x.com/satoshi")
	assert.True(t, ok)

	ok, _, _ = Validate(ValidatorXProfile, "https://twitter.com/satoshi/")
	assert.True(t, ok)

	for _, bad := range []string{
		"satoshi",
		"@satoshi",
		"https://x.com/",
		"https://example.com/satoshi",
		"https://x.com/way_too_long_handle_over_limit",
	} {
		ok, msg, _ := Validate(ValidatorXProfile, bad)
		assert.False(t, ok, bad)
		assert.Contains(t, msg, "X profile link")
	}
}

func TestValidateTGUsername(t *testing.T) {
	ok, _, _ := Validate(ValidatorTGUsername, "@satoshi")
	assert.True(t, ok)

	for _, bad := range []string{"satoshi", "@abc", "@has space", "@" + strings.Repeat("a", 33)} {
		ok, _, _ := Validate(ValidatorTGUsername, bad)
		assert.False(t, ok, bad)
	}
}

func TestValidateRecipeText(t *testing.T) {
	recipe := "Kimchi stew.\nIngredients: kimchi, pork, tofu, onion, garlic, gochugaru.\n" +
		"Steps: saute pork, add kimchi, pour broth, simmer twenty minutes, add tofu.\n" +
		strings.Repeat("Season to taste and serve hot with rice. ", 4)

	ok, _, normalized := Validate(ValidatorRecipeText, "  "+recipe+"  ")
	assert.True(t, ok)
	assert.Equal(t, recipe, normalized) // нормализация — только trim

	ok, msg, _ := Validate(ValidatorRecipeText, "short recipe")
	assert.False(t, ok)
	assert.Contains(t, msg, "min 200 characters")

	// Многобайтовый текст: по байтам за 200 перевалил, по символам — нет.
	korean := "Ingredients: 김치, 돼지고기, 두부. Steps: " + strings.Repeat("끓인다 ", 20)
	assert.Greater(t, len(korean), 200)
	ok, msg, _ = Validate(ValidatorRecipeText, korean)
	assert.False(t, ok)
	assert.Contains(t, msg, "min 200 characters")

	ok, msg, _ = Validate(ValidatorRecipeText, recipe+" see https://example.com")
	assert.False(t, ok)
	assert.Contains(t, msg, "do not include links")

	noSections := strings.Repeat("just a very long text about cooking without structure at all. ", 5)
	ok, msg, _ = Validate(ValidatorRecipeText, noSections)
	assert.False(t, ok)
	assert.Contains(t, msg, "Ingredients + Steps")
}

func TestValidateUnknownValidatorPasses(t *testing.T) {
	ok, msg, normalized := Validate("", "anything goes")
	assert.True(t, ok)
	assert.Empty(t, msg)
	assert.Equal(t, "anything goes", normalized)
}

func TestIsContentValidator(t *testing.T) {
	assert.True(t, IsContentValidator(ValidatorRecipeText))
	assert.False(t, IsContentValidator(ValidatorXProfile))
	assert.False(t, IsContentValidator(""))
}
