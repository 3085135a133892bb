package ingestion

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// rtfToken matches, in order: control words with optional numeric parameter, hex
// escapes, control symbols, group braces, raw line breaks and any other character.
var rtfToken = regexp.MustCompile(`(?i)\\([a-z]{1,32})(-?\d{1,10})? ?|\\'([0-9a-f]{2})|\\([^a-z])|([{}])|[\r\n]+|(.)`)

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// rtfDestinations are groups whose content is metadata, not document text.
var rtfDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true, "pict": true,
	"header": true, "headerl": true, "headerr": true, "headerf": true,
	"footer": true, "footerl": true, "footerr": true, "footerf": true,
	"generator": true, "listtable": true, "listoverridetable": true, "rsidtbl": true,
	"themedata": true, "colorschememapping": true, "latentstyles": true, "datastore": true,
	"xmlnstbl": true, "fldinst": true, "object": true, "filetbl": true, "revtbl": true,
	"bkmkstart": true, "bkmkend": true, "operator": true, "author": true, "title": true,
}

var rtfReplacements = map[string]string{
	"par": "\n\n", "sect": "\n\n", "page": "\n\n", "line": "\n", "tab": "\t",
	"emdash": "—", "endash": "–", "bullet": "•",
	"lquote": "‘", "rquote": "’", "ldblquote": "“", "rdblquote": "”",
}

// rtfExtractor strips control groups, control words and braces from RTF source.
type rtfExtractor struct{}

func (rtfExtractor) Extract(_ context.Context, data []byte) (Extraction, error) {
	src := string(data)
	if !strings.HasPrefix(strings.TrimSpace(src), `{\rtf`) {
		return Extraction{}, errors.New("missing {\\rtf header")
	}
	return Extraction{Text: StripRTF(src)}, nil
}

// StripRTF returns the visible text of an RTF document with paragraph breaks as blank lines.
func StripRTF(src string) string {
	var (
		out       strings.Builder
		stack     []bool
		ignorable bool
		skipNext  int
	)
	cp1252 := charmap.Windows1252.NewDecoder()

	for _, m := range rtfToken.FindAllStringSubmatch(src, -1) {
		word, param, hex, symbol, brace, char := m[1], m[2], m[3], m[4], m[5], m[6]

		switch {
		case brace == "{":
			stack = append(stack, ignorable)
		case brace == "}":
			if n := len(stack); n > 0 {
				ignorable = stack[n-1]
				stack = stack[:n-1]
			}
		case symbol != "":
			skipNext = 0
			switch symbol {
			case "*":
				ignorable = true
			case "~":
				if !ignorable {
					out.WriteString(" ")
				}
			case "_":
				if !ignorable {
					out.WriteString("-")
				}
			case "{", "}", "\\":
				if !ignorable {
					out.WriteString(symbol)
				}
			case "\n", "\r":
				if !ignorable {
					out.WriteString("\n\n")
				}
			}
		case word != "":
			skipNext = 0
			lower := strings.ToLower(word)
			if rtfDestinations[lower] {
				ignorable = true
			}
			if ignorable {
				continue
			}
			if rep, ok := rtfReplacements[lower]; ok {
				out.WriteString(rep)
				continue
			}
			if lower == "u" && param != "" {
				if n, err := strconv.Atoi(param); err == nil {
					if n < 0 {
						n += 0x10000
					}
					out.WriteRune(rune(n))
					skipNext = 1
				}
			}
		case hex != "":
			if skipNext > 0 {
				skipNext--
				continue
			}
			if ignorable {
				continue
			}
			b, err := strconv.ParseUint(hex, 16, 8)
			if err != nil {
				continue
			}
			if decoded, err := cp1252.Bytes([]byte{byte(b)}); err == nil {
				out.Write(decoded)
			}
		case char != "":
			if skipNext > 0 {
				skipNext--
				continue
			}
			if !ignorable {
				out.WriteString(char)
			}
		}
	}

	lines := strings.Split(out.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text := excessBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
