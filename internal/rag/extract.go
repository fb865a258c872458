package rag

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// ExtractPDF stages the uploaded bytes to a temporary file, extracts plain
// text page by page and returns one fragment per non-empty page.  Pages
// that yield no text (scans, pure images) are skipped; a document with no
// extractable text at all is an error so the caller can reject the upload.
func ExtractPDF(data []byte, filename string) ([]model.Fragment, error) {
	tmp, err := os.CreateTemp("", "pdf-chat-upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	f, reader, err := pdf.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", filename, err)
	}
	defer f.Close()

	var fragments []model.Fragment
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// An unreadable page should not sink the whole document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fragments = append(fragments, model.Fragment{Source: filename, Page: i, Text: text})
	}
	if len(fragments) == 0 {
		return nil, errors.New("no extractable text in " + filename)
	}
	return fragments, nil
}
