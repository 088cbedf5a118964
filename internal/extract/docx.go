package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxDefaultBody     = "word/document.xml"
	docxContentTypes    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// extractDOCX returns one line per non-empty paragraph of a .docx file. Runs
// inside a paragraph are joined without separators since Word splits runs mid-word.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	body := docxDefaultBody
	if ct, err := readZipFile(zr, docxContentTypes); err == nil {
		if p := mainPart(ct); p != "" {
			body = p
		}
	}
	doc, err := readZipFile(zr, body)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	return docxParagraphs(doc)
}

// mainPart returns the main document part named in [Content_Types].xml, or "".
func mainPart(data []byte) string {
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return ""
	}
	for _, o := range ct.Overrides {
		if o.ContentType == docxMainContentType {
			return strings.TrimPrefix(o.PartName, "/")
		}
	}
	return ""
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}

// docxParagraphs walks WordprocessingML tokens, collecting w:t text per w:p.
func docxParagraphs(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var (
		lines  []string
		para   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract DOCX: parse document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					lines = append(lines, line)
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
