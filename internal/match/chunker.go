package match

import "strings"

// chunker splits text into overlapping word windows.
type chunker struct {
	size    int
	overlap int
}

// split returns the windows of text, or nil for blank text. A text no longer
// than one window yields a single chunk.
func (c chunker) split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	if step <= 0 {
		step = 1
	}
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end >= len(words) {
			break
		}
	}
	return chunks
}
