// Package extract provides plain-text extraction from uploaded résumé documents.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
// PDF pages without extractable text are skipped, so an image-only PDF yields ""
// and no error. An error means the document could not be opened at all.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".rtf", ".odt":
		return extractWithCat(content)
	case ".txt", ".md", "":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("unsupported document type %q", ext)
	}
}

// Supported reports whether ext has an extractor.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".rtf", ".odt", ".txt", ".md":
		return true
	}
	return false
}
