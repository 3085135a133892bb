package ebook

import (
	"fmt"
	"strings"

	"github.com/coreybb/quill/models"
)

const (
	DefaultFontFamily  = "Georgia, serif"
	DefaultFontSize    = 12
	DefaultLineSpacing = 1.6
	DefaultMargin      = "1in"
	DefaultPaperSize   = "us-trade"
)

// PaperSize is a trim size in inches.
type PaperSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CSS returns the value for an @page size declaration.
func (p PaperSize) CSS() string {
	return fmt.Sprintf("%.2fin %.2fin", p.Width, p.Height)
}

const mmPerInch = 25.4

var paperSizes = map[string]PaperSize{
	"us-trade":  {Name: "us-trade", Width: 6, Height: 9},
	"royal":     {Name: "royal", Width: 6.14, Height: 9.21},
	"us-letter": {Name: "us-letter", Width: 8.5, Height: 11},
	"a4":        {Name: "a4", Width: 210 / mmPerInch, Height: 297 / mmPerInch},
	"a5":        {Name: "a5", Width: 148 / mmPerInch, Height: 210 / mmPerInch},
	"digest":    {Name: "digest", Width: 5.5, Height: 8.5},
}

// LookupPaperSize resolves a paper size name case-insensitively. Unknown names
// resolve to us-trade.
func LookupPaperSize(name string) PaperSize {
	if ps, ok := paperSizes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return ps
	}
	return paperSizes[DefaultPaperSize]
}

// DefaultOptions returns the HTML family defaults for format.
func DefaultOptions(format models.ExportFormat) models.ExportOptions {
	return models.ExportOptions{
		Format:      format,
		PaperSize:   DefaultPaperSize,
		Margins:     models.Margins{Top: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin, Right: DefaultMargin},
		FontSize:    DefaultFontSize,
		FontFamily:  DefaultFontFamily,
		LineSpacing: DefaultLineSpacing,
	}
}

// withDefaults fills every zero-valued option. print-ready starts from the
// paperback preset rather than the generic defaults.
func withDefaults(opts models.ExportOptions) models.ExportOptions {
	base := DefaultOptions(opts.Format)
	if opts.Format == models.ExportFormatPrintReady {
		if p, ok := LookupPreset("paperback"); ok {
			base = p.Options
		}
	}

	if opts.PaperSize == "" {
		opts.PaperSize = base.PaperSize
	}
	if opts.FontSize <= 0 {
		opts.FontSize = base.FontSize
	}
	if strings.TrimSpace(opts.FontFamily) == "" {
		opts.FontFamily = base.FontFamily
	}
	if opts.LineSpacing <= 0 {
		opts.LineSpacing = base.LineSpacing
	}
	if opts.Margins.Top == "" {
		opts.Margins.Top = base.Margins.Top
	}
	if opts.Margins.Bottom == "" {
		opts.Margins.Bottom = base.Margins.Bottom
	}
	if opts.Margins.Left == "" {
		opts.Margins.Left = base.Margins.Left
	}
	if opts.Margins.Right == "" {
		opts.Margins.Right = base.Margins.Right
	}
	return opts
}
