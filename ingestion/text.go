package ingestion

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"
)

const summaryMaxRunes = 500

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textExtractor decodes plain text and markdown verbatim.
type textExtractor struct{}

func (textExtractor) Extract(ctx context.Context, data []byte) (Extraction, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return Extraction{Text: strings.TrimSpace(text)}, nil
}

// CountWords trims, splits on whitespace runs and counts the non-empty tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Summarize returns the leading part of text, cut on a word boundary, with an
// ellipsis when anything was dropped.
func Summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= summaryMaxRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:summaryMaxRunes])
	if i := strings.LastIndex(cut, " "); i > summaryMaxRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
