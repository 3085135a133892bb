package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"novel.pdf", true},
		{"novel.DOCX", true},
		{"draft.odt", true},
		{"draft.Rtf", true},
		{"notes.txt", true},
		{"README.md", true},
		{"chapter.MARKDOWN", true},
		{"sheet.ods", true},
		{"slides.odp", true},
		{"archive.tar.gz.txt", true},
		{"novel.doc", false},
		{"novel.epub", false},
		{"page.html", false},
		{"image.jpg", false},
		{"noextension", false},
		{"trailingdot.", false},
		{"", false},
		{".md.exe", false},
	}
	for _, tt := range tests {
		if got := ValidateFileType(tt.name); got != tt.want {
			t.Errorf("ValidateFileType(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"  Para one.\n\nPara two.  ", 4},
		{"tabs\tand\nnewlines  mixed", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.in); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeTruncatesOnWordBoundary(t *testing.T) {
	short := "A short manuscript."
	if got := Summarize(short); got != short {
		t.Fatalf("Summarize(short) = %q", got)
	}

	long := strings.Repeat("word ", 300)
	got := Summarize(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long summary missing ellipsis: %q", got[len(got)-10:])
	}
	if strings.Contains(strings.TrimSuffix(got, "..."), "wor ") || strings.HasSuffix(strings.TrimSuffix(got, "..."), "wor") {
		t.Fatalf("summary cut inside a word: %q", got)
	}
	if n := len([]rune(got)); n > summaryMaxRunes+3 {
		t.Fatalf("summary length %d exceeds limit", n)
	}
}

func TestIngestText(t *testing.T) {
	in := NewIngestor(nil, nil)
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("  Para one.\n\nPara two.\n")...)

	res, err := in.Ingest(context.Background(), "draft.TXT", data)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Text != "Para one.\n\nPara two." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", res.WordCount)
	}
	if res.ExtractionDegraded {
		t.Errorf("plain text should not be degraded")
	}
	if res.Images == nil {
		t.Errorf("Images should be an empty slice, not nil")
	}
}

func TestIngestRejectsUnsupported(t *testing.T) {
	_, err := NewIngestor(nil, nil).Ingest(context.Background(), "photo.png", []byte{1, 2, 3})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Ingest(png) error = %v, want ErrUnsupportedFileType", err)
	}
}

func TestIngestMalformedDocumentsDegrade(t *testing.T) {
	in := NewIngestor(nil, nil)
	garbage := bytes.Repeat([]byte("not really a document "), 30)

	for _, name := range []string{"broken.pdf", "broken.docx", "broken.odt", "broken.rtf", "broken.ods", "broken.odp"} {
		t.Run(name, func(t *testing.T) {
			res, err := in.Ingest(context.Background(), name, garbage)
			if err != nil {
				t.Fatalf("Ingest returned error %v; extraction failures must not propagate", err)
			}
			if !res.ExtractionDegraded {
				t.Fatalf("ExtractionDegraded = false for malformed %s", name)
			}
			if res.Warning == "" {
				t.Errorf("degraded result should carry a warning")
			}
			if want := len(garbage) / bytesPerEstimatedWord; res.WordCount != want {
				t.Errorf("estimated WordCount = %d, want %d", res.WordCount, want)
			}
			if res.Text == "" || res.Summary == "" {
				t.Errorf("placeholder text and summary must be set")
			}
		})
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestIngestDOCXBuiltInReader(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Chapter</w:t></w:r><w:r><w:t xml:space="preserve"> One</w:t></w:r></w:p>
    <w:p><w:r><w:t>It was a dark night.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": doc})

	res, err := NewIngestor(nil, nil).Ingest(context.Background(), "book.docx", data)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.ExtractionDegraded {
		t.Fatalf("unexpected degraded result: %s", res.Warning)
	}
	if res.Text != "Chapter One\n\nIt was a dark night." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.WordCount != 7 {
		t.Errorf("WordCount = %d, want 7", res.WordCount)
	}
}

func TestIngestODFBuiltInReader(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:text>
    <text:h>Title</text:h>
    <text:p>First<text:s text:c="2"/>line <text:span>styled</text:span></text:p>
  </office:text></office:body>
</office:document-content>`
	data := buildZip(t, map[string]string{"content.xml": content})

	for _, name := range []string{"doc.odt", "doc.ods", "doc.odp"} {
		res, err := NewIngestor(nil, nil).Ingest(context.Background(), name, data)
		if err != nil {
			t.Fatalf("Ingest(%s): %v", name, err)
		}
		if res.Text != "Title\n\nFirst  line styled" {
			t.Errorf("%s Text = %q", name, res.Text)
		}
	}
}

func TestStripRTF(t *testing.T) {
	src := `{\rtf1\ansi\deff0{\fonttbl{\f0\froman Times New Roman;}}{\colortbl;\red0\green0\blue0;}
{\*\generator Writer;}\f0\fs24 Hello {\b bold} world.\par
Caf\'e9 \u8212? done.\par}`
	got := StripRTF(src)
	want := "Hello bold world.\n\nCafé — done."
	if got != want {
		t.Fatalf("StripRTF = %q, want %q", got, want)
	}
	if CountWords(got) != 6 {
		t.Errorf("CountWords = %d, want 6", CountWords(got))
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("aaa bbb ccc\nddddddddddd", 7)
	want := []string{"aaa bbb", "ccc", "ddddddd", "dddd"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("wrapText = %q, want %q", lines, want)
		}
	}
}

func TestRenderPagePreviewIsPNGDataURL(t *testing.T) {
	url, err := renderPagePreview("Some page text", 1)
	if err != nil {
		t.Fatalf("renderPagePreview: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("preview = %.40q, want png data URL", url)
	}
}

func TestContentProcessorKeepsParagraphs(t *testing.T) {
	html := `<h1>Chapter 1</h1><p>First <em>para</em>.</p><ul><li><p>Item</p></li></ul><script>alert(1)</script>`
	got, err := NewContentProcessor().Process(html)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(got.MainText, "First para.") || strings.Contains(got.MainText, "alert") {
		t.Fatalf("MainText = %q", got.MainText)
	}
	if strings.Count(got.MainText, "Item") != 1 {
		t.Fatalf("nested block text duplicated: %q", got.MainText)
	}
}
