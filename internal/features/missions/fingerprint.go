// Package missions — fingerprint.go считает контентный отпечаток сабмита.
// Отпечаток защищает от плагиата между пользователями: один и тот же
// нормализованный текст может засчитаться только одному пользователю
// в рамках миссии.
package missions

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeContent приводит текст к канонической форме:
// обрезка, нижний регистр, схлопывание пробельных последовательностей.
// Перестановка пробелов и регистра не делает текст "другим".
func NormalizeContent(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	return whitespaceRE.ReplaceAllString(t, " ")
}

// Fingerprint возвращает hex-представление SHA-256 нормализованного текста.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(text)))
	return hex.EncodeToString(sum[:])
}
