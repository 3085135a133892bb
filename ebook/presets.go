package ebook

import (
	"strings"

	"github.com/coreybb/quill/models"
)

var presets = []models.Preset{
	{
		Name:        "kindle",
		Description: "Kindle-ready EPUB with embedded cover",
		Options: models.ExportOptions{
			Format:        models.ExportFormatKindle,
			IncludeImages: true,
			PaperSize:     DefaultPaperSize,
			Margins:       models.Margins{Top: "0.5in", Bottom: "0.5in", Left: "0.5in", Right: "0.5in"},
			FontSize:      12,
			FontFamily:    DefaultFontFamily,
			LineSpacing:   1.5,
		},
	},
	{
		Name:        "paperback",
		Description: "6x9in trade paperback interior, print-ready PDF",
		Options: models.ExportOptions{
			Format:      models.ExportFormatPrintReady,
			PaperSize:   "us-trade",
			Margins:     models.Margins{Top: "0.75in", Bottom: "0.75in", Left: "0.875in", Right: "0.625in"},
			FontSize:    11,
			FontFamily:  "Garamond, serif",
			LineSpacing: 1.4,
		},
	},
	{
		Name:        "hardcover",
		Description: "6.14x9.21in royal hardcover interior, print-ready PDF",
		Options: models.ExportOptions{
			Format:      models.ExportFormatPrintReady,
			PaperSize:   "royal",
			Margins:     models.Margins{Top: "1in", Bottom: "1in", Left: "1in", Right: "1in"},
			FontSize:    12,
			FontFamily:  DefaultFontFamily,
			LineSpacing: 1.5,
		},
	},
	{
		Name:        "epub",
		Description: "Standard EPUB for general e-readers",
		Options: models.ExportOptions{
			Format:        models.ExportFormatEPUB,
			IncludeImages: true,
			PaperSize:     DefaultPaperSize,
			Margins:       models.Margins{Top: "1in", Bottom: "1in", Left: "1in", Right: "1in"},
			FontSize:      12,
			FontFamily:    DefaultFontFamily,
			LineSpacing:   1.6,
		},
	},
}

// Presets returns the built-in export presets in display order.
func Presets() []models.Preset {
	out := make([]models.Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (models.Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return models.Preset{}, false
}
