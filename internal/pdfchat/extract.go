package pdfchat

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// IsPDF sniffs the magic bytes; a claimed PDF without the header is
// rejected before any parsing is attempted.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// ExtractText pulls the document's text page by page, joined with spaces,
// and returns it with the page count.
func ExtractText(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("empty file")
	}
	if !IsPDF(data) {
		return "", 0, fmt.Errorf("missing %%PDF header")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("pdf reader: %w", err)
	}

	totalPages := reader.NumPage()
	var b strings.Builder
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString(" ")
	}

	return strings.TrimSpace(b.String()), totalPages, nil
}
