package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxPartSize bounds how much of a single archive member is decompressed.
const maxPartSize = 64 << 20

func readZipPart(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid zip container: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()
		part, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return part, nil
	}
	return nil, fmt.Errorf("archive has no %s", name)
}

// paragraphCollector accumulates text runs and closes paragraphs on demand.
type paragraphCollector struct {
	paragraphs []string
	current    strings.Builder
}

func (pc *paragraphCollector) write(s string) { pc.current.WriteString(s) }

func (pc *paragraphCollector) endParagraph() {
	if p := strings.TrimSpace(pc.current.String()); p != "" {
		pc.paragraphs = append(pc.paragraphs, p)
	}
	pc.current.Reset()
}

func (pc *paragraphCollector) text() string {
	pc.endParagraph()
	return strings.Join(pc.paragraphs, "\n\n")
}

// ooxmlExtractor reads word/document.xml from a DOCX package.
type ooxmlExtractor struct{}

func (ooxmlExtractor) Extract(_ context.Context, data []byte) (Extraction, error) {
	part, err := readZipPart(data, "word/document.xml")
	if err != nil {
		return Extraction{}, err
	}

	dec := xml.NewDecoder(bytes.NewReader(part))
	var pc paragraphCollector
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Extraction{}, fmt.Errorf("malformed document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				pc.write("\t")
			case "br", "cr":
				pc.write("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				pc.endParagraph()
			}
		case xml.CharData:
			if inText {
				pc.write(string(t))
			}
		}
	}
	return Extraction{Text: pc.text()}, nil
}

// odfExtractor reads content.xml from ODT, ODS and ODP packages.
type odfExtractor struct{}

func (*odfExtractor) Extract(_ context.Context, data []byte) (Extraction, error) {
	part, err := readZipPart(data, "content.xml")
	if err != nil {
		return Extraction{}, err
	}

	dec := xml.NewDecoder(bytes.NewReader(part))
	var pc paragraphCollector
	depth := 0 // nesting inside text:p / text:h
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Extraction{}, fmt.Errorf("malformed content.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p", "h":
				depth++
			case "s":
				pc.write(strings.Repeat(" ", spaceCount(t)))
			case "tab":
				pc.write("\t")
			case "line-break":
				pc.write("\n")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "h") && depth > 0 {
				depth--
				if depth == 0 {
					pc.endParagraph()
				}
			}
		case xml.CharData:
			if depth > 0 {
				pc.write(string(t))
			}
		}
	}
	return Extraction{Text: pc.text()}, nil
}

// spaceCount reads the text:c attribute of <text:s/>, defaulting to one.
func spaceCount(el xml.StartElement) int {
	for _, a := range el.Attr {
		if a.Name.Local == "c" {
			if n, err := strconv.Atoi(a.Value); err == nil && n > 0 && n < 1024 {
				return n
			}
		}
	}
	return 1
}
