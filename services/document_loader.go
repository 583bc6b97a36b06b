package services

import (
	"fmt"
	"os"
	"strings"

	"docqa-service/internal/logger"
	"docqa-service/models"

	"github.com/ledongthuc/pdf"
)

// maxDocumentSize caps the PDF read into memory at startup.
const maxDocumentSize = 200 << 20

// LoadDocument reads a PDF and returns its plain text page by page.
// Pages without a content stream or with unreadable text are kept as empty strings
// so page numbers stay aligned with the source.
func LoadDocument(path string) (*models.Document, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("document path %s is a directory", path)
	}
	if stat.Size() > maxDocumentSize {
		return nil, fmt.Errorf("document too large: %d bytes", stat.Size())
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("document %s has no pages", path)
	}

	pages := make([]string, 0, numPages)
	emptyPages := 0

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			emptyPages++
			continue
		}

		text, err := extractPageText(page)
		if err != nil {
			logger.Warn("Failed to extract page text", "page", i, "error", err)
			pages = append(pages, "")
			emptyPages++
			continue
		}
		if text == "" {
			emptyPages++
		}
		pages = append(pages, text)
	}

	if emptyPages == numPages {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}

	logger.Info("Document loaded",
		"path", path,
		"pages", numPages,
		"empty_pages", emptyPages,
	)

	return &models.Document{Path: path, Pages: pages}, nil
}

func extractPageText(page pdf.Page) (string, error) {
	// A nil font map makes the reader resolve this page's own font encodings.
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
