package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/coreybb/quill/conversion"
)

// bytesPerEstimatedWord is the divisor used for the degraded word-count estimate.
const bytesPerEstimatedWord = 6

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Extraction is what a single extractor produces before normalization.
type Extraction struct {
	Text   string
	Images []string // data URLs
}

// Extractor is implemented once per DocumentKind.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Extraction, error)
}

// Result is the normalized output of ingestion. When ExtractionDegraded is set,
// Text is a placeholder and WordCount an estimate derived from the file size.
type Result struct {
	FileName           string       `json:"fileName"`
	Kind               DocumentKind `json:"kind"`
	Text               string       `json:"text"`
	Images             []string     `json:"images"`
	WordCount          int          `json:"wordCount"`
	Summary            string       `json:"summary"`
	ExtractionDegraded bool         `json:"extractionDegraded"`
	Warning            string       `json:"warning,omitempty"`
}

// Ingestor dispatches uploads to the extractor bound to their DocumentKind.
type Ingestor struct {
	extractors map[DocumentKind]Extractor
}

// NewIngestor wires the built-in extractors. converter may be nil; when it is
// unavailable the office formats fall back to the built-in readers.
func NewIngestor(converter *conversion.Converter, processor *ContentProcessor) *Ingestor {
	if processor == nil {
		processor = NewContentProcessor()
	}
	text := textExtractor{}
	odf := &odfExtractor{}
	return &Ingestor{
		extractors: map[DocumentKind]Extractor{
			KindText:     text,
			KindMarkdown: text,
			KindPDF:      &pdfExtractor{previewPages: pdfPreviewPages},
			KindDOCX:     &officeExtractor{format: conversion.FormatDOCX, converter: converter, processor: processor, fallback: &ooxmlExtractor{}},
			KindODT:      &officeExtractor{format: conversion.FormatODT, converter: converter, processor: processor, fallback: odf},
			KindRTF:      &officeExtractor{format: conversion.FormatRTF, converter: converter, processor: processor, fallback: rtfExtractor{}},
			KindODS:      odf,
			KindODP:      odf,
		},
	}
}

// WithExtractor overrides the extractor bound to kind.
func (in *Ingestor) WithExtractor(kind DocumentKind, ex Extractor) *Ingestor {
	in.extractors[kind] = ex
	return in
}

// Ingest extracts text from data. It only fails for file types outside the accepted
// set; extraction problems are reported through Result.ExtractionDegraded.
func (in *Ingestor) Ingest(ctx context.Context, fileName string, data []byte) (*Result, error) {
	kind, ok := KindFromFileName(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFileType, fileName, strings.Join(SupportedExtensions(), ", "))
	}
	extractor, ok := in.extractors[kind]
	if !ok {
		return degradedResult(fileName, kind, data, fmt.Errorf("no extractor registered for %s", kind)), nil
	}

	extraction, err := safeExtract(ctx, extractor, data)
	if err == nil && extraction.Text == "" && len(data) > 0 && kind != KindText && kind != KindMarkdown {
		err = errors.New("no extractable text found")
	}
	if err != nil {
		log.Printf("WARN (Ingestor): Extraction failed for '%s' (%s): %v. Returning degraded result.", fileName, kind, err)
		return degradedResult(fileName, kind, data, err), nil
	}

	images := extraction.Images
	if images == nil {
		images = []string{}
	}
	result := &Result{
		FileName:  fileName,
		Kind:      kind,
		Text:      extraction.Text,
		Images:    images,
		WordCount: CountWords(extraction.Text),
		Summary:   Summarize(extraction.Text),
	}
	log.Printf("INFO (Ingestor): Extracted %d words from '%s' (%s, %d preview images)", result.WordCount, fileName, kind, len(images))
	return result, nil
}

// safeExtract converts extractor panics into errors. Third-party parsers panic on
// some malformed inputs.
func safeExtract(ctx context.Context, ex Extractor, data []byte) (out Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return ex.Extract(ctx, data)
}

func degradedResult(fileName string, kind DocumentKind, data []byte, cause error) *Result {
	estimate := len(data) / bytesPerEstimatedWord
	if estimate < 1 {
		estimate = 1
	}
	placeholder := fmt.Sprintf("Text could not be extracted from %s. The content shown here is a placeholder; "+
		"paste the manuscript text or upload it in another format.", fileName)
	return &Result{
		FileName:           fileName,
		Kind:               kind,
		Text:               placeholder,
		Images:             []string{},
		WordCount:          estimate,
		Summary:            placeholder,
		ExtractionDegraded: true,
		Warning:            cause.Error(),
	}
}
