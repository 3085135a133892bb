package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/coreybb/quill/conversion"
)

// officeExtractor prefers pandoc when it is installed and falls back to a built-in
// reader when it is not, or when the conversion fails.
type officeExtractor struct {
	format    conversion.Format
	converter *conversion.Converter
	processor *ContentProcessor
	fallback  Extractor
}

func (e *officeExtractor) Extract(ctx context.Context, data []byte) (Extraction, error) {
	if e.converter.Available() {
		text, err := e.viaPandoc(ctx, data)
		if err == nil {
			return Extraction{Text: text}, nil
		}
		log.Printf("WARN (officeExtractor): pandoc path failed for %s: %v. Using built-in reader.", e.format, err)
	}
	return e.fallback.Extract(ctx, data)
}

func (e *officeExtractor) viaPandoc(ctx context.Context, data []byte) (string, error) {
	html, err := e.converter.ToHTML(ctx, data, e.format)
	if err != nil {
		return "", err
	}
	processed, err := e.processor.Process(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to process converted HTML: %w", err)
	}
	return processed.MainText, nil
}
