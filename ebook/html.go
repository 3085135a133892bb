package ebook

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/coreybb/quill/models"
)

// renderHTMLDocument renders the single-document HTML used for docx, print and the
// print fallback. forPrint adds the @page rule for the configured paper size.
func renderHTMLDocument(book *models.Book, opts models.ExportOptions, forPrint bool) ([]byte, error) {
	data := pageData{
		Lang:     epubLanguage,
		Book:     book,
		Chapters: chapterViews(book),
		CSS:      template.CSS(stylesheet(opts, forPrint)),
	}
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "document.html", data); err != nil {
		return nil, fmt.Errorf("failed to render HTML document: %w", err)
	}
	return buf.Bytes(), nil
}
