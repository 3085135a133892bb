package ebook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

const (
	maxFontSize    = 72
	maxLineSpacing = 5.0
)

var (
	fontFamilyPattern = regexp.MustCompile(`^[A-Za-z0-9 ,'"-]{1,100}$`)
	cssLengthPattern  = regexp.MustCompile(`^(0|\d+(\.\d+)?(in|mm|cm|pt|px|em))$`)
)

var (
	ErrExportFailed = errors.New("Export failed")
	ErrInvalidBook  = errors.New("invalid export request")
)

// Artifact is a finished export. Fallback is set when a print format was delivered
// as printable HTML instead of PDF.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Fallback    bool
}

// Packager renders books into downloadable artifacts. Both collaborators are optional:
// without a printer print formats fall back to HTML, without a fetcher covers are skipped.
type Packager struct {
	printer Printer
	covers  CoverFetcher
	now     func() time.Time
}

func NewPackager(printer Printer, covers CoverFetcher) *Packager {
	return &Packager{printer: printer, covers: covers, now: time.Now}
}

// Export builds the artifact for opts.Format. Every failure is returned as
// "Export failed: <msg>" wrapping ErrExportFailed; invalid input also wraps ErrInvalidBook.
func (p *Packager) Export(ctx context.Context, book *models.Book, opts models.ExportOptions) (*Artifact, error) {
	start := time.Now()
	if err := validateExport(book, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	format, _ := models.IsValidExportFormat(string(opts.Format))
	opts.Format = format
	book = xmlSafeBook(book)
	opts = withDefaults(opts)

	var (
		artifact *Artifact
		err      error
	)
	switch {
	case format.IsArchive():
		artifact, err = p.exportEPUB(ctx, book, opts)
	case format.IsPrint():
		artifact, err = p.exportPrint(ctx, book, opts)
	case format == models.ExportFormatDOCX:
		artifact, err = p.exportDOCX(book, opts)
	}
	if err != nil {
		log.Printf("ERROR (Packager): Export of book '%s' as %s failed: %v", book.Title, format, err)
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	log.Printf("INFO (Packager): Exported '%s' as %s: %s (%d bytes, took %s)",
		book.Title, format, artifact.FileName, len(artifact.Data), time.Since(start))
	return artifact, nil
}

func validateExport(book *models.Book, opts models.ExportOptions) error {
	if book == nil {
		return fmt.Errorf("%w: book is required", ErrInvalidBook)
	}
	if strings.TrimSpace(book.Title) == "" {
		return fmt.Errorf("%w: book title is required", ErrInvalidBook)
	}
	if strings.TrimSpace(book.Author) == "" {
		return fmt.Errorf("%w: book author is required", ErrInvalidBook)
	}
	if opts.Format == "" {
		return fmt.Errorf("%w: format is required", ErrInvalidBook)
	}
	if _, ok := models.IsValidExportFormat(string(opts.Format)); !ok {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidBook, opts.Format)
	}
	return validateTypography(opts)
}

// validateTypography checks the options that are written verbatim into stylesheets.
// Empty values are allowed and replaced with defaults later.
func validateTypography(opts models.ExportOptions) error {
	if opts.FontFamily != "" && !fontFamilyPattern.MatchString(opts.FontFamily) {
		return fmt.Errorf("%w: invalid fontFamily %q", ErrInvalidBook, opts.FontFamily)
	}
	margins := []struct {
		side, value string
	}{
		{"top", opts.Margins.Top},
		{"bottom", opts.Margins.Bottom},
		{"left", opts.Margins.Left},
		{"right", opts.Margins.Right},
	}
	for _, m := range margins {
		if m.value != "" && !cssLengthPattern.MatchString(m.value) {
			return fmt.Errorf("%w: invalid %s margin %q", ErrInvalidBook, m.side, m.value)
		}
	}
	if opts.FontSize < 0 || opts.FontSize > maxFontSize {
		return fmt.Errorf("%w: fontSize must be between 1 and %d", ErrInvalidBook, maxFontSize)
	}
	if opts.LineSpacing < 0 || opts.LineSpacing > maxLineSpacing {
		return fmt.Errorf("%w: lineSpacing must be between 0 and %g", ErrInvalidBook, maxLineSpacing)
	}
	return nil
}

// xmlSafeBook returns a copy of book whose text fields carry only XML-legal characters.
func xmlSafeBook(book *models.Book) *models.Book {
	out := *book
	out.Title = StripInvalidXML(book.Title)
	out.Author = StripInvalidXML(book.Author)
	out.Genre = StripInvalidXML(book.Genre)
	out.Description = StripInvalidXML(book.Description)
	if book.Keywords != nil {
		out.Keywords = make([]string, len(book.Keywords))
		for i, k := range book.Keywords {
			out.Keywords[i] = StripInvalidXML(k)
		}
	}
	if book.Content != nil {
		out.Content = make([]models.ChapterSnapshot, len(book.Content))
		for i, ch := range book.Content {
			ch.Title = StripInvalidXML(ch.Title)
			ch.Content = StripInvalidXML(ch.Content)
			out.Content[i] = ch
		}
	}
	return &out
}

func (p *Packager) exportEPUB(ctx context.Context, book *models.Book, opts models.ExportOptions) (*Artifact, error) {
	var cover []byte
	if opts.IncludeImages && book.CoverURL != "" {
		cover = p.fetchCover(ctx, book.CoverURL)
	}

	data, err := newEPUBBuilder(book, opts, cover, p.now()).Build()
	if err != nil {
		return nil, err
	}

	name := SanitizeFilename(book.Title)
	if opts.Format == models.ExportFormatKindle {
		name += "_kindle"
	}
	return &Artifact{FileName: name + ".epub", ContentType: webutil.ContentTypeEPUB, Data: data}, nil
}

// fetchCover never fails the export; problems are logged and the cover is skipped.
func (p *Packager) fetchCover(ctx context.Context, url string) []byte {
	if p.covers == nil {
		log.Printf("WARN (Packager): No cover fetcher configured, skipping cover %s", url)
		return nil
	}
	cover, err := p.covers.FetchCover(ctx, url)
	if err != nil {
		log.Printf("WARN (Packager): Failed to fetch cover %s: %v. Exporting without cover.", url, err)
		return nil
	}
	return cover
}

func (p *Packager) exportPrint(ctx context.Context, book *models.Book, opts models.ExportOptions) (*Artifact, error) {
	html, err := renderHTMLDocument(book, opts, true)
	if err != nil {
		return nil, err
	}
	name := SanitizeFilename(book.Title)

	if p.printer == nil {
		log.Printf("WARN (Packager): No printer configured for '%s'. Delivering printable HTML.", book.Title)
		return printFallback(name, html), nil
	}
	pdf, err := p.printer.PrintPDF(ctx, html, LookupPaperSize(opts.PaperSize))
	if err != nil {
		log.Printf("WARN (Packager): Printing '%s' failed: %v. Delivering printable HTML.", book.Title, err)
		return printFallback(name, html), nil
	}

	fileName := name + ".pdf"
	if opts.Format == models.ExportFormatPrintReady {
		fileName = name + "_print-ready.pdf"
	}
	return &Artifact{FileName: fileName, ContentType: webutil.ContentTypePDF, Data: pdf}, nil
}

func printFallback(name string, html []byte) *Artifact {
	return &Artifact{
		FileName:    name + "_print.html",
		ContentType: webutil.ContentTypeHTMLUTF8,
		Data:        html,
		Fallback:    true,
	}
}

func (p *Packager) exportDOCX(book *models.Book, opts models.ExportOptions) (*Artifact, error) {
	html, err := renderHTMLDocument(book, opts, false)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		FileName:    SanitizeFilename(book.Title) + ".docx",
		ContentType: webutil.ContentTypeDOCX,
		Data:        html,
	}, nil
}
