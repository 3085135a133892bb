package ebook

import (
	"regexp"
	"strings"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	unsafeFileChar = regexp.MustCompile(`[^A-Za-z0-9]+`)
	xmlEscaper     = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// EscapeXML drops characters XML 1.0 does not allow and escapes the five XML
// special characters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(StripInvalidXML(s))
}

// StripInvalidXML removes runes outside the XML 1.0 Char production, such as the
// form feeds PDF text layers emit between pages.
func StripInvalidXML(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !isXMLChar(r) }) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// SplitParagraphs splits chapter content on blank lines, trimming each paragraph
// and dropping the empty ones.
func SplitParagraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, p := range paragraphBreak.Split(content, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SanitizeFilename replaces every run of characters outside [A-Za-z0-9] with a single
// underscore and lowercases the result.
func SanitizeFilename(title string) string {
	return strings.ToLower(unsafeFileChar.ReplaceAllString(title, "_"))
}

// paragraphsMarkup renders content as escaped <p> elements, one per paragraph.
func paragraphsMarkup(content string) string {
	var b strings.Builder
	for _, p := range SplitParagraphs(content) {
		b.WriteString("<p>")
		b.WriteString(EscapeXML(p))
		b.WriteString("</p>\n")
	}
	return b.String()
}
