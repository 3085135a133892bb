package ingestion

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Preview canvas geometry in pixels, roughly a letter page at half scale.
const (
	previewWidth      = 425
	previewHeight     = 550
	previewMargin     = 24
	previewLineHeight = 15
)

// renderPagePreview rasterizes a page's text layer onto a blank page and returns it
// as a PNG data URL.
func renderPagePreview(pageText string, pageNum int) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, previewWidth, previewHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 0x20}),
		Face: face,
	}

	charsPerLine := (previewWidth - 2*previewMargin) / face.Advance
	maxLines := (previewHeight-2*previewMargin)/previewLineHeight - 1

	y := previewMargin + face.Ascent
	for i, line := range wrapText(pageText, charsPerLine) {
		if i >= maxLines {
			break
		}
		d.Dot = fixed.P(previewMargin, y)
		d.DrawString(line)
		y += previewLineHeight
	}

	footer := fmt.Sprintf("- %d -", pageNum)
	d.Dot = fixed.P((previewWidth-len(footer)*face.Advance)/2, previewHeight-previewMargin/2)
	d.DrawString(footer)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

// wrapText greedily wraps text to width columns, keeping source line breaks.
func wrapText(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur strings.Builder
		for _, w := range words {
			for len(w) > width {
				if cur.Len() > 0 {
					lines = append(lines, cur.String())
					cur.Reset()
				}
				lines = append(lines, w[:width])
				w = w[width:]
			}
			if cur.Len() > 0 && cur.Len()+1+len(w) > width {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			cur.WriteString(w)
		}
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
		}
	}
	return lines
}
