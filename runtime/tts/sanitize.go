package tts

import "regexp"

// unsafeTextPattern matches every rune that is not a Latin letter, a Cyrillic
// letter (including Ё/ё) or an ASCII digit.
var unsafeTextPattern = regexp.MustCompile(`[^a-zA-Z0-9а-яА-ЯёЁ]`)

// SanitizeText replaces each rune outside [a-zA-Z0-9а-яА-ЯёЁ] with one space.
// The result is idempotent: SanitizeText(SanitizeText(s)) == SanitizeText(s).
// Runs of spaces are kept so the output length in runes matches the input.
func SanitizeText(s string) string {
	return unsafeTextPattern.ReplaceAllLiteralString(s, " ")
}
