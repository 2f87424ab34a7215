// Package document reads self-descriptions from text, PDF and DOCX files.
package document

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// ReadFile returns the plain text of the file at path, picking the parser by extension.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, err := Extract(filepath.Ext(path), data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// Extract converts data of the given extension (".txt", ".md", ".pdf", ".docx") to text.
func Extract(ext string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "", "txt", "md":
		text = string(data)
	case "pdf":
		text, err = extractPDF(data)
	case "docx":
		text, err = extractDocx(data)
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text found")
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxMarkup(doc.Editable().GetContent()), nil
}

// stripDocxMarkup turns word/document.xml content into plain text, one paragraph per line.
func stripDocxMarkup(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
