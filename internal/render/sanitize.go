package render

import "strings"

var sanitizer = strings.NewReplacer(
	"•", "-", // bullet
	"–", "-", // en dash
	"—", "-", // em dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// Sanitize replaces typographic bullets, dashes and curly quotes with their
// ASCII equivalents. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	return sanitizer.Replace(text)
}
