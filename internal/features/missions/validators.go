// Package missions — validators.go проверяет сабмиты по виду валидатора
// миссии. Чистые функции без состояния; паттерны зафиксированы кампанией,
// менять их нельзя без согласования с её условиями.
package missions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Виды валидаторов из конфигурации кампании.
const (
	ValidatorXProfile   = "x_profile"
	ValidatorTGUsername = "tg_username"
	ValidatorRecipeText = "recipe_text"
)

// Минимальная длина текстового рецепта в символах — отсекает копипасту и спам.
// Считаем руны, не байты: кириллица и CJK не должны проходить "со скидкой".
const recipeMinLen = 200

var (
	// Ссылка на профиль X/Twitter (только ссылка, без @handle)
	xProfileRE = regexp.MustCompile(`^https?://(www\.)?(x\.com|twitter\.com)/[A-Za-z0-9_]{1,15}/?$`)

	// Telegram username, обязательно с @
	tgUsernameRE = regexp.MustCompile(`^@[A-Za-z0-9_]{5,32}$`)

	// Любая ссылка в тексте рецепта запрещена
	linkRE = regexp.MustCompile(`(?i)https?://|www\.`)

	// Минимальная структура рецепта: секции Ingredients и Steps/Directions/Method
	ingredientsRE = regexp.MustCompile(`(?i)\bingredients\b`)
	stepsRE       = regexp.MustCompile(`(?i)\bsteps\b|\bdirections\b|\bmethod\b`)
)

// Validate проверяет текст сабмита для данного вида валидатора.
// Возвращает (ок, сообщение об ошибке для пользователя, нормализованный текст).
// Нормализованный текст возвращается и при успехе — он идёт в хранилище.
// Неизвестный валидатор пропускает всё: миссии без проверки допустимы.
func Validate(validator, text string) (bool, string, string) {
	switch validator {
	case ValidatorXProfile:
		if xProfileRE.MatchString(text) {
			return true, "", text
		}
		return false, "Please send your X profile link like https://x.com/username", text

	case ValidatorTGUsername:
		if tgUsernameRE.MatchString(text) {
			return true, "", text
		}
		return false, "Please send your Telegram username starting with @ (e.g., @myname).", text

	case ValidatorRecipeText:
		t := strings.TrimSpace(text)
		if utf8.RuneCountInString(t) < recipeMinLen {
			return false, "Please send a longer recipe (min 200 characters). Include Ingredients + Steps.", t
		}
		if linkRE.MatchString(t) {
			return false, "Please do not include links in your recipe.", t
		}
		if !ingredientsRE.MatchString(t) || !stepsRE.MatchString(t) {
			return false, "Please include sections: Ingredients + Steps.", t
		}
		return true, "", t
	}

	return true, "", text
}

// IsContentValidator сообщает, относится ли валидатор к контентному классу:
// для таких миссий включается глобальная дедупликация по фингерпринту.
func IsContentValidator(validator string) bool {
	return validator == ValidatorRecipeText
}
