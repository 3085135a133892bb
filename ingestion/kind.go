package ingestion

import (
	"path/filepath"
	"strings"
)

// DocumentKind is resolved once from the upload's file extension and selects the extractor.
type DocumentKind string

const (
	KindText     DocumentKind = "txt"
	KindMarkdown DocumentKind = "markdown"
	KindPDF      DocumentKind = "pdf"
	KindDOCX     DocumentKind = "docx"
	KindODT      DocumentKind = "odt"
	KindRTF      DocumentKind = "rtf"
	KindODS      DocumentKind = "ods"
	KindODP      DocumentKind = "odp"
)

var kindsByExtension = map[string]DocumentKind{
	"pdf":      KindPDF,
	"docx":     KindDOCX,
	"odt":      KindODT,
	"rtf":      KindRTF,
	"txt":      KindText,
	"md":       KindMarkdown,
	"markdown": KindMarkdown,
	"ods":      KindODS,
	"odp":      KindODP,
}

// fileExtension returns the lower-cased extension without the dot, or "" when there is none.
func fileExtension(fileName string) string {
	ext := filepath.Ext(fileName)
	if ext == "" || ext == "." {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindFromFileName resolves the document kind. The declared content type is never consulted.
func KindFromFileName(fileName string) (DocumentKind, bool) {
	kind, ok := kindsByExtension[fileExtension(fileName)]
	return kind, ok
}

// ValidateFileType accepts exactly pdf, docx, odt, rtf, txt, md, markdown, ods and odp,
// case-insensitively. Files without an extension are rejected.
func ValidateFileType(fileName string) bool {
	_, ok := KindFromFileName(fileName)
	return ok
}

// SupportedExtensions lists the accepted extensions in a stable order for error messages.
func SupportedExtensions() []string {
	return []string{"pdf", "docx", "odt", "rtf", "txt", "md", "markdown", "ods", "odp"}
}
