package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	content := []byte("Hello world\nLine 2")
	got, err := e.ExtractBytes(content, ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Hello world\nLine 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	content := []byte("hello\x80world") // invalid UTF-8
	got, err := e.ExtractBytes(content, ".md")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "hello\uFFFDworld" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_unknownExtension(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("raw content"), ".xyz"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if Supported(".xyz") {
		t.Error(".xyz should not be supported")
	}
	if !Supported(".PDF") {
		t.Error(".PDF should be supported")
	}
}

func TestExtract_plainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("File content"), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "File content" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("/nonexistent/path/resume.pdf")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

// buildPDF returns a PDF with one page per entry; an empty entry produces a page without text.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		pdf.AddPage()
		if text != "" {
			pdf.Cell(0, 10, text)
		}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractBytes_pdf(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(buildPDF(t, "Kubernetes", "", "Terraform"), ".pdf")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !strings.Contains(got, "Kubernetes") || !strings.Contains(got, "Terraform") {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_pdfWithoutText(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(buildPDF(t, "", ""), ".pdf")
	if err != nil {
		t.Fatalf("image-only PDF should not error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractBytes_pdfCorrupt(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("%PDF-1.4 garbage"), ".pdf"); err == nil {
		t.Error("expected error for unreadable PDF")
	}
}

// minimalDocx returns a minimal .docx zip bytes with word/document.xml containing the given paragraphs.
func minimalDocx(paragraphs ...string) []byte {
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p w:rsidR="00AB"><w:pPr/><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func TestExtractBytes_docxParagraphs(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(minimalDocx("Jane Doe", "", "Go &amp; Kubernetes"), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Jane Doe\nGo & Kubernetes" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxSplitRuns(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Kuber</w:t></w:r><w:r><w:t xml:space="preserve">netes engineer</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Kubernetes engineer" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxContentTypesOverride(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	ct, _ := w.Create("[Content_Types].xml")
	_, _ = ct.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml" PartName="/word/document2.xml"/>
</Types>`))
	fw, _ := w.Create("word/document2.xml")
	_, _ = fw.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>From document2</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "From document2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxNotZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestExtractBytes_docxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, _ = w.Create("other.xml")
	_ = w.Close()
	e := NewExtractor()
	if _, err := e.ExtractBytes(buf.Bytes(), ".docx"); err == nil {
		t.Error("expected error when document.xml missing")
	}
}
