package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// SanitizeString trims, collapses inner whitespace and caps the result at
// maxLen runes so names such as "Zoë  Brontë" never split mid-character.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxLen]))
}

// SanitizeQuery reads a free-text filter such as ?search= or ?city=.
func SanitizeQuery(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}
