package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoExtractableText is returned when a document exists but yields no text.
var ErrNoExtractableText = errors.New("no extractable text in document")

// Load reads the raw text of a source document. PDFs are extracted page by
// page; anything else is treated as plain text. A missing document is an
// ordinary error so the caller can degrade to "index not built".
func Load(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("locate document: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return loadPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	text := sanitize(string(data))
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

func loadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	text := sanitize(b.String())
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

// sanitize collapses runs of whitespace and strips control characters that
// PDF extraction tends to leave behind.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		case r < 0x20:
			// drop control characters
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
