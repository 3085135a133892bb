package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPreviewPages is how many leading pages get a preview image.
const pdfPreviewPages = 3

// pdfExtractor reads the text layer page by page and renders previews of the first pages.
type pdfExtractor struct {
	previewPages int
}

func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (Extraction, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return Extraction{}, fmt.Errorf("PDF has no pages")
	}

	pages := make([]string, 0, numPages)
	images := []string{}
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return Extraction{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Extraction{}, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}

		if i <= e.previewPages {
			preview, err := renderPagePreview(text, i)
			if err != nil {
				log.Printf("WARN (pdfExtractor): Failed to render preview for page %d: %v", i, err)
				continue
			}
			images = append(images, preview)
		}
	}

	return Extraction{Text: strings.Join(pages, "\n\n"), Images: images}, nil
}
