package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the plain text of every page that yields some, separated by newlines.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		text, ok := pageText(r.Page(i))
		if !ok {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// pageText returns the page's text and false when the page has none.
// The PDF reader panics on some malformed content streams; those pages count as empty.
func pageText(page pdf.Page) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	if page.V.IsNull() {
		return "", false
	}
	text, err := page.GetPlainText(nil)
	if err != nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
