// Package loader reads policy documents from the corpus directory.
package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"

	"policyrag/internal/domain"
)

// List enumerates dir (non-recursive) and loads every supported file.
// Markdown (.md) and PDF (.pdf) are recognized; anything else is skipped with
// an informational log line. The order across files is not specified.
func List(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus dir %s: %w", dir, err)
	}
	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md":
			doc, err := loadMarkdown(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		case ".pdf":
			doc, err := loadPDF(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		default:
			log.Printf("skipping unsupported file %s", entry.Name())
		}
	}
	return docs, nil
}

// Load reads a single document, dispatching on the file extension.
func Load(path string) (domain.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return loadMarkdown(path)
	case ".pdf":
		return loadPDF(path)
	default:
		return domain.Document{}, fmt.Errorf("unsupported document type: %s", path)
	}
}

func loadMarkdown(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.Document{
		Source:  filepath.Base(path),
		Stem:    stem(path),
		Kind:    domain.KindMarkdown,
		Content: string(data),
	}, nil
}

func loadPDF(path string) (domain.Document, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return domain.Document{}, fmt.Errorf("extracting page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	return domain.Document{
		Source: filepath.Base(path),
		Stem:   stem(path),
		Kind:   domain.KindPDF,
		Pages:  pages,
	}, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
