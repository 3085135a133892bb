package ebook

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"html"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

func testBook() *models.Book {
	return &models.Book{
		ID:     "book-1",
		Title:  "Test Title!",
		Author: "Ada Author",
		Genre:  "Fantasy",
		Content: []models.ChapterSnapshot{
			{Title: "Beginnings", Content: "Para one.\n\nPara two.", Order: 1},
			{Title: "Endings", Content: "Only para.", Order: 2},
		},
	}
}

func readZip(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("artifact is not a zip archive: %v", err)
	}
	return zr
}

func readEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return b
	}
	t.Fatalf("archive has no entry %s", name)
	return nil
}

func entryNames(zr *zip.Reader) []string {
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

type stubPrinter struct {
	err   error
	paper PaperSize
	html  []byte
	calls int
}

func (s *stubPrinter) PrintPDF(_ context.Context, html []byte, paper PaperSize) ([]byte, error) {
	s.calls++
	s.paper = paper
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 stub"), nil
}

type stubCovers struct {
	data  []byte
	err   error
	calls int
}

func (s *stubCovers) FetchCover(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Test Title!":          "test_title_",
		"The  Long -- Road":    "the_long_road",
		"Ünïcode Bøøk":         "_n_code_b_k",
		"already_clean_name99": "already_clean_name99",
		"":                     "",
	}
	valid := regexp.MustCompile(`^[a-z0-9_]*$`)
	for in, want := range tests {
		got := SanitizeFilename(in)
		if got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
		if again := SanitizeFilename(got); again != got {
			t.Errorf("SanitizeFilename not idempotent: %q -> %q", got, again)
		}
		if !valid.MatchString(got) {
			t.Errorf("SanitizeFilename(%q) = %q contains characters outside [a-z0-9_]", in, got)
		}
	}
}

func TestEscapeXMLRoundTrip(t *testing.T) {
	inputs := []string{
		`plain`,
		`Tom & "Jerry" <3 it's > all`,
		`&amp; already escaped`,
		`'"<>&`,
	}
	for _, in := range inputs {
		escaped := EscapeXML(in)
		if strings.ContainsAny(escaped, `<>"'`) {
			t.Errorf("EscapeXML(%q) = %q still contains special characters", in, escaped)
		}
		if got := html.UnescapeString(escaped); got != in {
			t.Errorf("round trip of %q gave %q", in, got)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("  First line\nsame para.\n\n\n  Second.\r\n \r\nThird.\n\n   \n")
	want := []string{"First line\nsame para.", "Second.", "Third."}
	if len(got) != len(want) {
		t.Fatalf("SplitParagraphs = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitParagraphs = %q, want %q", got, want)
		}
	}
	if n := len(SplitParagraphs("\n \n\t\n")); n != 0 {
		t.Errorf("whitespace-only content produced %d paragraphs", n)
	}
}

func TestExportEPUBLayout(t *testing.T) {
	p := NewPackager(nil, nil)
	art, err := p.Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatEPUB})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.FileName != "test_title_.epub" {
		t.Errorf("FileName = %q, want test_title_.epub", art.FileName)
	}
	if art.ContentType != webutil.ContentTypeEPUB {
		t.Errorf("ContentType = %q", art.ContentType)
	}

	zr := readZip(t, art.Data)
	wantOrder := []string{
		"mimetype",
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/toc.ncx",
		"OEBPS/styles.css",
		"OEBPS/title.xhtml",
		"OEBPS/toc.xhtml",
		"OEBPS/chapter1.xhtml",
		"OEBPS/chapter2.xhtml",
	}
	names := entryNames(zr)
	if strings.Join(names, ",") != strings.Join(wantOrder, ",") {
		t.Fatalf("entries = %v, want %v", names, wantOrder)
	}

	first := zr.File[0]
	if first.Method != zip.Store {
		t.Errorf("mimetype method = %d, want stored", first.Method)
	}
	if got := string(readEntry(t, zr, "mimetype")); got != "application/epub+zip" {
		t.Errorf("mimetype = %q", got)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(readEntry(t, zr, "OEBPS/chapter1.xhtml")))
	if err != nil {
		t.Fatalf("parse chapter1: %v", err)
	}
	paras := doc.Find(".chapter p")
	if paras.Length() != 2 {
		t.Fatalf("chapter1 has %d <p>, want 2", paras.Length())
	}
	if got := paras.Eq(1).Text(); got != "Para two." {
		t.Errorf("second paragraph = %q", got)
	}
}

type opfForTest struct {
	Identifier string `xml:"metadata>identifier"`
	Manifest   []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDref string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
	Guide []struct {
		Type string `xml:"type,attr"`
	} `xml:"guide>reference"`
}

type ncxForTest struct {
	Points []struct {
		PlayOrder int    `xml:"playOrder,attr"`
		Label     string `xml:"navLabel>text"`
	} `xml:"navMap>navPoint"`
}

func TestExportEPUBManifestAndSpine(t *testing.T) {
	book := testBook()
	art, err := NewPackager(nil, nil).Export(context.Background(), book, models.ExportOptions{Format: models.ExportFormatEPUB})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	zr := readZip(t, art.Data)

	var opf opfForTest
	if err := xml.Unmarshal(readEntry(t, zr, "OEBPS/content.opf"), &opf); err != nil {
		t.Fatalf("unmarshal content.opf: %v", err)
	}
	if want := 4 + len(book.Content); len(opf.Manifest) != want {
		t.Errorf("manifest has %d items, want %d", len(opf.Manifest), want)
	}
	var spine []string
	for _, it := range opf.Spine {
		spine = append(spine, it.IDref)
	}
	if got := strings.Join(spine, ","); got != "title,toc,chapter1,chapter2" {
		t.Errorf("spine = %s", got)
	}
	if !strings.HasPrefix(opf.Identifier, "urn:uuid:") {
		t.Errorf("identifier = %q, want urn:uuid: prefix", opf.Identifier)
	}
	if len(opf.Guide) != 0 {
		t.Errorf("guide present without a cover")
	}

	var ncx ncxForTest
	if err := xml.Unmarshal(readEntry(t, zr, "OEBPS/toc.ncx"), &ncx); err != nil {
		t.Fatalf("unmarshal toc.ncx: %v", err)
	}
	if len(ncx.Points) != 4 {
		t.Fatalf("navMap has %d points, want 4", len(ncx.Points))
	}
	for i, p := range ncx.Points {
		if p.PlayOrder != i+1 {
			t.Errorf("navPoint %d playOrder = %d", i, p.PlayOrder)
		}
	}
	if ncx.Points[2].Label != "Beginnings" {
		t.Errorf("first chapter label = %q", ncx.Points[2].Label)
	}
}

func TestExportEPUBIdentifierIsFreshPerExport(t *testing.T) {
	p := NewPackager(nil, nil)
	ids := map[string]bool{}
	for i := 0; i < 2; i++ {
		art, err := p.Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatEPUB})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		var opf opfForTest
		if err := xml.Unmarshal(readEntry(t, readZip(t, art.Data), "OEBPS/content.opf"), &opf); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		ids[opf.Identifier] = true
	}
	if len(ids) != 2 {
		t.Errorf("expected two distinct identifiers, got %v", ids)
	}
}

func TestExportEscapesChapterText(t *testing.T) {
	book := testBook()
	book.Content = []models.ChapterSnapshot{{Title: "A <b>bold</b> & odd title", Content: `Tom & "Jerry" <3 it's`}}

	art, err := NewPackager(nil, nil).Export(context.Background(), book, models.ExportOptions{Format: models.ExportFormatEPUB})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw := readEntry(t, readZip(t, art.Data), "OEBPS/chapter1.xhtml")
	if bytes.Contains(raw, []byte("<3")) || bytes.Contains(raw, []byte("<b>")) {
		t.Fatalf("chapter markup contains unescaped text:\n%s", raw)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(".chapter p").Text(); got != `Tom & "Jerry" <3 it's` {
		t.Errorf("paragraph text = %q", got)
	}
	if got := doc.Find(".chapter h1").Text(); got != "A <b>bold</b> & odd title" {
		t.Errorf("heading text = %q", got)
	}
}

func TestExportKindleName(t *testing.T) {
	art, err := NewPackager(nil, nil).Export(context.Background(), testBook(), models.ExportOptions{Format: "Kindle"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.FileName != "test_title__kindle.epub" {
		t.Errorf("FileName = %q", art.FileName)
	}
}

func TestExportEmptyContentHasOnlyFrontMatter(t *testing.T) {
	book := testBook()
	book.Content = nil
	art, err := NewPackager(nil, nil).Export(context.Background(), book, models.ExportOptions{Format: models.ExportFormatEPUB})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	names := entryNames(readZip(t, art.Data))
	if len(names) != 7 || names[len(names)-1] != "OEBPS/toc.xhtml" {
		t.Errorf("entries = %v", names)
	}
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := normalizeCover(buf.Bytes())
	if err != nil {
		t.Fatalf("normalizeCover: %v", err)
	}
	return out
}

func TestNormalizeCoverConvertsToJPEG(t *testing.T) {
	_, format, err := image.DecodeConfig(bytes.NewReader(jpegBytes(t)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if _, err := normalizeCover([]byte("not an image")); err == nil {
		t.Errorf("expected error for garbage cover")
	}
}

func TestExportEmbedsCover(t *testing.T) {
	book := testBook()
	book.CoverURL = "https://covers.example.com/c.png"
	covers := &stubCovers{data: jpegBytes(t)}

	art, err := NewPackager(nil, covers).Export(context.Background(), book,
		models.ExportOptions{Format: models.ExportFormatEPUB, IncludeImages: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	zr := readZip(t, art.Data)
	names := entryNames(zr)
	if names[len(names)-1] != "OEBPS/cover.jpg" {
		t.Errorf("entries = %v, want cover last", names)
	}
	var opf opfForTest
	if err := xml.Unmarshal(readEntry(t, zr, "OEBPS/content.opf"), &opf); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(opf.Manifest) != 4+len(book.Content)+1 {
		t.Errorf("manifest has %d items", len(opf.Manifest))
	}
	if len(opf.Guide) != 1 || opf.Guide[0].Type != "cover" {
		t.Errorf("guide = %+v", opf.Guide)
	}
}

func TestExportSkipsCoverOnFailure(t *testing.T) {
	book := testBook()
	book.CoverURL = "https://covers.example.com/missing.jpg"
	covers := &stubCovers{err: errors.New("timeout")}

	art, err := NewPackager(nil, covers).Export(context.Background(), book,
		models.ExportOptions{Format: models.ExportFormatKindle, IncludeImages: true})
	if err != nil {
		t.Fatalf("cover failure must not fail the export: %v", err)
	}
	for _, n := range entryNames(readZip(t, art.Data)) {
		if n == "OEBPS/cover.jpg" {
			t.Fatalf("cover entry present after failed fetch")
		}
	}
	if covers.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", covers.calls)
	}
}

func TestExportIgnoresCoverWithoutIncludeImages(t *testing.T) {
	book := testBook()
	book.CoverURL = "https://covers.example.com/c.jpg"
	covers := &stubCovers{data: []byte{0xff}}
	if _, err := NewPackager(nil, covers).Export(context.Background(), book, models.ExportOptions{Format: models.ExportFormatEPUB}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if covers.calls != 0 {
		t.Errorf("cover fetched although includeImages is false")
	}
}

func TestExportPDFFallsBackWhenPrintBlocked(t *testing.T) {
	printer := &stubPrinter{err: errors.New("window blocked")}
	art, err := NewPackager(printer, nil).Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatPDF})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.FileName != "test_title__print.html" || !art.Fallback {
		t.Errorf("artifact = %s (fallback %v), want test_title__print.html", art.FileName, art.Fallback)
	}
	if !strings.HasPrefix(art.ContentType, "text/html") {
		t.Errorf("ContentType = %q", art.ContentType)
	}
	if !bytes.Contains(art.Data, []byte("@page")) {
		t.Errorf("printable HTML lacks @page rule")
	}
}

func TestExportPDFWithoutPrinter(t *testing.T) {
	art, err := NewPackager(nil, nil).Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatPrintReady})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.FileName != "test_title__print.html" {
		t.Errorf("FileName = %q", art.FileName)
	}
}

func TestExportPDFAndPrintReady(t *testing.T) {
	printer := &stubPrinter{}
	p := NewPackager(printer, nil)

	art, err := p.Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatPDF, PaperSize: "a4"})
	if err != nil {
		t.Fatalf("Export pdf: %v", err)
	}
	if art.FileName != "test_title_.pdf" || art.ContentType != webutil.ContentTypePDF {
		t.Errorf("pdf artifact = %s %s", art.FileName, art.ContentType)
	}
	if printer.paper.Name != "a4" {
		t.Errorf("paper = %s, want a4", printer.paper.Name)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(printer.html))
	if err != nil {
		t.Fatalf("parse printed html: %v", err)
	}
	if n := doc.Find("div.chapter").Length(); n != 2 {
		t.Errorf("printed HTML has %d chapters, want 2", n)
	}

	art, err = p.Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatPrintReady})
	if err != nil {
		t.Fatalf("Export print-ready: %v", err)
	}
	if art.FileName != "test_title__print-ready.pdf" {
		t.Errorf("print-ready FileName = %q", art.FileName)
	}
	if printer.paper.Name != "us-trade" {
		t.Errorf("print-ready paper = %s, want us-trade", printer.paper.Name)
	}
	if !bytes.Contains(printer.html, []byte("Garamond")) {
		t.Errorf("print-ready should default to paperback typography")
	}
}

func TestExportDOCXIsHTML(t *testing.T) {
	art, err := NewPackager(nil, nil).Export(context.Background(), testBook(), models.ExportOptions{Format: models.ExportFormatDOCX})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.FileName != "test_title_.docx" || art.ContentType != webutil.ContentTypeDOCX {
		t.Errorf("artifact = %s %s", art.FileName, art.ContentType)
	}
	body := string(art.Data)
	for _, want := range []string{"<!DOCTYPE html>", "Georgia, serif", "12pt", "line-height: 1.6"} {
		if !strings.Contains(body, want) {
			t.Errorf("docx HTML missing %q", want)
		}
	}
	if strings.Contains(body, "@page") {
		t.Errorf("docx HTML should not carry print page rules")
	}
}

func TestExportValidation(t *testing.T) {
	tests := []struct {
		name string
		book *models.Book
		opts models.ExportOptions
	}{
		{"nil book", nil, models.ExportOptions{Format: models.ExportFormatEPUB}},
		{"missing title", &models.Book{Author: "A"}, models.ExportOptions{Format: models.ExportFormatEPUB}},
		{"missing author", &models.Book{Title: "T"}, models.ExportOptions{Format: models.ExportFormatEPUB}},
		{"missing format", testBook(), models.ExportOptions{}},
		{"unknown format", testBook(), models.ExportOptions{Format: "mobi"}},
		{"font family closing style", testBook(), models.ExportOptions{
			Format:     models.ExportFormatDOCX,
			FontFamily: "x}</style><script>alert(1)</script><style>",
		}},
		{"font family with braces", testBook(), models.ExportOptions{Format: models.ExportFormatPDF, FontFamily: "serif; } body { color: red"}},
		{"margin with markup", testBook(), models.ExportOptions{
			Format:  models.ExportFormatPrintReady,
			Margins: models.Margins{Left: "1in</style><script>alert(1)</script>"},
		}},
		{"margin without unit", testBook(), models.ExportOptions{Format: models.ExportFormatPDF, Margins: models.Margins{Top: "12"}}},
		{"font size too large", testBook(), models.ExportOptions{Format: models.ExportFormatDOCX, FontSize: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPackager(nil, nil).Export(context.Background(), tt.book, tt.opts)
			if !errors.Is(err, ErrExportFailed) || !errors.Is(err, ErrInvalidBook) {
				t.Fatalf("err = %v, want ErrExportFailed and ErrInvalidBook", err)
			}
			if !strings.HasPrefix(err.Error(), "Export failed: ") {
				t.Errorf("error message = %q", err.Error())
			}
		})
	}
}

func TestExportAcceptsCustomTypography(t *testing.T) {
	printer := &stubPrinter{}
	opts := models.ExportOptions{
		Format:     models.ExportFormatPDF,
		FontFamily: `"Times New Roman", serif`,
		Margins:    models.Margins{Top: "0", Bottom: "18mm", Left: "0.75in", Right: "12pt"},
	}
	if _, err := NewPackager(printer, nil).Export(context.Background(), testBook(), opts); err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(printer.html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n := doc.Find("script").Length(); n != 0 {
		t.Errorf("document has %d script elements", n)
	}
	css := doc.Find("style").Text()
	for _, want := range []string{`font-family: "Times New Roman", serif`, "margin: 0 12pt 18mm 0.75in"} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q:\n%s", want, css)
		}
	}
}

func TestStripInvalidXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"page one\x0cpage two\x01", "page onepage two"},
		{"tab\tnew\nline\r", "tab\tnew\nline\r"},
		{"nul\x00 and \uFFFE", "nul and "},
		{"emoji \U0001F4D6 kept", "emoji \U0001F4D6 kept"},
	}
	for _, tt := range tests {
		if got := StripInvalidXML(tt.in); got != tt.want {
			t.Errorf("StripInvalidXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := EscapeXML("a\x0b<b>"); got != "a&lt;b&gt;" {
		t.Errorf("EscapeXML = %q", got)
	}
}

func TestExportChapterWithControlCharactersIsWellFormed(t *testing.T) {
	book := testBook()
	book.Title = "Form\x0cFeed"
	book.Author = "Ada\x01 Author"
	book.Content = []models.ChapterSnapshot{{Title: "Page\x0c Break", Content: "page one\x0cpage two\x01\n\nnext\x1f para"}}

	art, err := NewPackager(nil, nil).Export(context.Background(), book, models.ExportOptions{Format: models.ExportFormatEPUB})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	zr := readZip(t, art.Data)
	for _, name := range []string{"OEBPS/chapter1.xhtml", "OEBPS/title.xhtml", "OEBPS/toc.xhtml", "OEBPS/content.opf", "OEBPS/toc.ncx"} {
		dec := xml.NewDecoder(bytes.NewReader(readEntry(t, zr, name)))
		dec.Strict = true
		dec.Entity = xml.HTMLEntity
		for {
			_, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("%s is not well-formed XML: %v", name, err)
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(readEntry(t, zr, "OEBPS/chapter1.xhtml")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(".chapter p").First().Text(); got != "page onepage two" {
		t.Errorf("first paragraph = %q", got)
	}
	if book.Content[0].Content != "page one\x0cpage two\x01\n\nnext\x1f para" {
		t.Errorf("Export mutated the caller's book")
	}
}

func TestWithDefaults(t *testing.T) {
	opts := withDefaults(models.ExportOptions{Format: models.ExportFormatEPUB, FontSize: 14})
	if opts.FontSize != 14 {
		t.Errorf("explicit FontSize overwritten: %d", opts.FontSize)
	}
	if opts.FontFamily != DefaultFontFamily || opts.LineSpacing != DefaultLineSpacing || opts.PaperSize != DefaultPaperSize {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Margins.Top != "1in" || opts.Margins.Left != "1in" {
		t.Errorf("margins = %+v", opts.Margins)
	}
}

func TestPresets(t *testing.T) {
	var names []string
	for _, p := range Presets() {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "kindle,paperback,hardcover,epub" {
		t.Errorf("presets = %s", got)
	}
	p, ok := LookupPreset(" Hardcover ")
	if !ok || p.Options.PaperSize != "royal" || p.Options.Format != models.ExportFormatPrintReady {
		t.Errorf("LookupPreset(hardcover) = %+v, %v", p, ok)
	}
	if _, ok := LookupPreset("mass-market"); ok {
		t.Errorf("unknown preset resolved")
	}
}

func TestLookupPaperSize(t *testing.T) {
	if ps := LookupPaperSize("DIGEST"); ps.Width != 5.5 || ps.Height != 8.5 {
		t.Errorf("digest = %+v", ps)
	}
	if ps := LookupPaperSize("tabloid"); ps.Name != "us-trade" {
		t.Errorf("unknown paper size resolved to %s", ps.Name)
	}
	if css := LookupPaperSize("royal").CSS(); css != "6.14in 9.21in" {
		t.Errorf("royal CSS = %q", css)
	}
}
