package models

import "strings"

// ExportFormat defines the set of artifact kinds the export packager produces.
type ExportFormat string

const (
	ExportFormatKindle     ExportFormat = "kindle"
	ExportFormatEPUB       ExportFormat = "epub"
	ExportFormatPDF        ExportFormat = "pdf"
	ExportFormatDOCX       ExportFormat = "docx"
	ExportFormatPrintReady ExportFormat = "print-ready"
)

// IsValidExportFormat checks if the provided format string is a valid ExportFormat.
// It returns the typed ExportFormat and true if valid, otherwise an empty ExportFormat and false.
func IsValidExportFormat(formatStr string) (ExportFormat, bool) {
	ef := ExportFormat(strings.ToLower(strings.TrimSpace(formatStr)))
	switch ef {
	case ExportFormatKindle, ExportFormatEPUB, ExportFormatPDF, ExportFormatDOCX, ExportFormatPrintReady:
		return ef, true
	default:
		return "", false
	}
}

// IsArchive reports whether the format is packaged as an EPUB archive.
func (f ExportFormat) IsArchive() bool {
	return f == ExportFormatKindle || f == ExportFormatEPUB
}

// IsPrint reports whether the format goes through print delegation.
func (f ExportFormat) IsPrint() bool {
	return f == ExportFormatPDF || f == ExportFormatPrintReady
}

// Margins are CSS lengths, e.g. "1in" or "18mm".
type Margins struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// ExportOptions is not persisted. Zero values are replaced with defaults by the packager.
type ExportOptions struct {
	Format        ExportFormat `json:"format"`
	IncludeImages bool         `json:"includeImages"`
	PaperSize     string       `json:"paperSize,omitempty"`
	Margins       Margins      `json:"margins,omitempty"`
	FontSize      int          `json:"fontSize,omitempty"` // points
	FontFamily    string       `json:"fontFamily,omitempty"`
	LineSpacing   float64      `json:"lineSpacing,omitempty"`
}

// Preset binds a format and typography to a name for one-click export.
type Preset struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Options     ExportOptions `json:"options"`
}
