package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lu4p/cat"
)

// extractPlain returns content as string, validating it is valid UTF-8.
// Invalid UTF-8 sequences are replaced with the replacement character.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "\ufffd"))
	}
	return string(content), nil
}

// extractWithCat handles RTF and ODT, which cat detects from the content itself.
func extractWithCat(content []byte) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract document: %w", err)
	}
	return strings.TrimSpace(text), nil
}
