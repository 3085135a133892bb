package ebook

import (
	"fmt"
	"strings"

	"github.com/coreybb/quill/models"
)

// stylesheet renders the CSS shared by the EPUB and HTML family outputs. The @page
// rule is only emitted for print output.
func stylesheet(opts models.ExportOptions, forPrint bool) string {
	var b strings.Builder
	if forPrint {
		paper := LookupPaperSize(opts.PaperSize)
		fmt.Fprintf(&b, "@page { size: %s; margin: %s %s %s %s; }\n",
			paper.CSS(), opts.Margins.Top, opts.Margins.Right, opts.Margins.Bottom, opts.Margins.Left)
	}
	fmt.Fprintf(&b, "body { font-family: %s; font-size: %dpt; line-height: %s; margin: 0; }\n",
		opts.FontFamily, opts.FontSize, formatLineSpacing(opts.LineSpacing))
	if !forPrint {
		fmt.Fprintf(&b, ".title-page, .toc, .chapter { padding: %s %s %s %s; }\n",
			opts.Margins.Top, opts.Margins.Right, opts.Margins.Bottom, opts.Margins.Left)
	}
	b.WriteString(`.title-page { text-align: center; page-break-after: always; break-after: page; }
.title-page .book-title { font-size: 2.2em; margin-top: 30%; }
.title-page .book-author { font-size: 1.3em; font-style: italic; }
.title-page .book-genre { font-size: 0.9em; text-transform: uppercase; letter-spacing: 0.1em; }
.toc ol { list-style: none; padding: 0; }
.toc li { margin: 0.4em 0; }
.chapter { page-break-before: always; break-before: page; }
.chapter h1, .chapter h2 { text-align: center; margin: 2em 0 1.5em; }
.chapter p { text-indent: 1.5em; margin: 0 0 0.5em; text-align: justify; }
`)
	return b.String()
}

func formatLineSpacing(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
