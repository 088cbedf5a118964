// Package render lays out generated résumé text as a PDF document.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// UnsupportedCharError reports a rune the core PDF fonts (cp1252) cannot show.
type UnsupportedCharError struct {
	Rune rune
	Line int // 1-based
}

func (e *UnsupportedCharError) Error() string {
	return fmt.Sprintf("unsupported character %q (U+%04X) on line %d", e.Rune, e.Rune, e.Line)
}

// Options control page layout. Zero values fall back to the defaults below.
type Options struct {
	FontFamily string
	FontSize   float64
	Margin     float64
	LineHeight float64
	Compress   bool
}

// DefaultOptions returns A4 Arial 12pt with a 15 mm break margin and 10 mm lines.
func DefaultOptions() Options {
	return Options{
		FontFamily: "Arial",
		FontSize:   12,
		Margin:     15,
		LineHeight: 10,
		Compress:   true,
	}
}

// Renderer turns text into PDF bytes. It holds no state beyond its options and
// is safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer, filling unset options with defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.FontFamily == "" {
		opts.FontFamily = def.FontFamily
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.Margin <= 0 {
		opts.Margin = def.Margin
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = def.LineHeight
	}
	return &Renderer{opts: opts}
}

// Render sanitizes text and writes it as a PDF to w, one block per line.
func (r *Renderer) Render(text string, w io.Writer) error {
	lines := strings.Split(Sanitize(text), "\n")
	encoded := make([]string, len(lines))
	for i, line := range lines {
		enc, err := encodeCP1252(strings.TrimRight(line, "\r"), i+1)
		if err != nil {
			return err
		}
		encoded[i] = enc
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.AddPage()
	pdf.SetAutoPageBreak(true, r.opts.Margin)
	pdf.SetFont(r.opts.FontFamily, "", r.opts.FontSize)
	for _, line := range encoded {
		pdf.MultiCell(0, r.opts.LineHeight, line, "", "", false)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// RenderBytes is Render into memory.
func (r *Renderer) RenderBytes(text string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(text, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderFile renders text to path, creating parent directories. Nothing is
// written when layout fails.
func (r *Renderer) RenderFile(text, path string) error {
	data, err := r.RenderBytes(text)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// encodeCP1252 converts a UTF-8 line to the single-byte encoding fpdf's core
// fonts expect.
func encodeCP1252(line string, lineNo int) (string, error) {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return "", &UnsupportedCharError{Rune: r, Line: lineNo}
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
