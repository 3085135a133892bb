package ebook

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/google/uuid"
)

const (
	epubMimetype  = "application/epub+zip"
	epubLanguage  = "en"
	coverEntry    = "OEBPS/cover.jpg"
	opfEntry      = "OEBPS/content.opf"
	ncxEntry      = "OEBPS/toc.ncx"
	styleEntry    = "OEBPS/styles.css"
	titleEntry    = "OEBPS/title.xhtml"
	tocEntry      = "OEBPS/toc.xhtml"
	containerPath = "META-INF/container.xml"
)

type chapterView struct {
	Index int
	ID    string
	File  string
	Title string
	Body  template.HTML
}

type pageData struct {
	Lang      string
	PageTitle string
	Book      *models.Book
	Chapters  []chapterView
	Chapter   chapterView
	CSS       template.CSS
}

// chapterViews numbers the snapshots from 1 in slice order.
func chapterViews(book *models.Book) []chapterView {
	views := make([]chapterView, 0, len(book.Content))
	for i, ch := range book.Content {
		n := i + 1
		title := ch.Title
		if title == "" {
			title = "Chapter " + strconv.Itoa(n)
		}
		views = append(views, chapterView{
			Index: n,
			ID:    fmt.Sprintf("chapter%d", n),
			File:  fmt.Sprintf("chapter%d.xhtml", n),
			Title: title,
			Body:  template.HTML(paragraphsMarkup(ch.Content)),
		})
	}
	return views
}

// epubBuilder assembles an EPUB 2 archive in memory.
type epubBuilder struct {
	book       *models.Book
	opts       models.ExportOptions
	identifier string
	cover      []byte
	modified   time.Time
}

func newEPUBBuilder(book *models.Book, opts models.ExportOptions, cover []byte, now time.Time) *epubBuilder {
	return &epubBuilder{
		book:       book,
		opts:       opts,
		identifier: "urn:uuid:" + uuid.NewString(),
		cover:      cover,
		modified:   now,
	}
}

// Build writes every entry in the fixed order: mimetype (stored), container,
// package document, NCX, stylesheet, title page, TOC page, chapters, cover.
func (eb *epubBuilder) Build() ([]byte, error) {
	chapters := chapterViews(eb.book)

	opf, err := eb.contentOPF(chapters)
	if err != nil {
		return nil, fmt.Errorf("failed to render content.opf: %w", err)
	}
	ncx, err := eb.tocNCX(chapters)
	if err != nil {
		return nil, fmt.Errorf("failed to render toc.ncx: %w", err)
	}

	base := pageData{Lang: epubLanguage, Book: eb.book, Chapters: chapters}
	titlePage, err := renderXHTML("title.xhtml", withPageTitle(base, eb.book.Title))
	if err != nil {
		return nil, err
	}
	tocPage, err := renderXHTML("toc.xhtml", withPageTitle(base, "Table of Contents"))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		path   string
		data   []byte
		method uint16
	}{
		{"mimetype", []byte(epubMimetype), zip.Store},
		{containerPath, []byte(containerXML), zip.Deflate},
		{opfEntry, opf, zip.Deflate},
		{ncxEntry, ncx, zip.Deflate},
		{styleEntry, []byte(stylesheet(eb.opts, false)), zip.Deflate},
		{titleEntry, titlePage, zip.Deflate},
		{tocEntry, tocPage, zip.Deflate},
	}
	for _, e := range entries {
		modified := eb.modified
		if e.path == "mimetype" {
			// The mimetype entry must carry no extra fields.
			modified = time.Time{}
		}
		if err := addBytesToZip(zw, e.path, e.data, e.method, modified); err != nil {
			return nil, err
		}
	}

	for _, ch := range chapters {
		data := base
		data.PageTitle = ch.Title
		data.Chapter = ch
		page, err := renderXHTML("chapter.xhtml", data)
		if err != nil {
			return nil, err
		}
		if err := addBytesToZip(zw, "OEBPS/"+ch.File, page, zip.Deflate, eb.modified); err != nil {
			return nil, err
		}
	}

	if eb.hasCover() {
		if err := addBytesToZip(zw, coverEntry, eb.cover, zip.Store, eb.modified); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func (eb *epubBuilder) hasCover() bool {
	return eb.opts.IncludeImages && len(eb.cover) > 0
}

func (eb *epubBuilder) contentOPF(chapters []chapterView) ([]byte, error) {
	pkg := opfPackage{
		Xmlns:            opfNamespace,
		Version:          "2.0",
		UniqueIdentifier: "BookId",
		Metadata: opfMetadata{
			XmlnsDC:     dcNamespace,
			XmlnsOPF:    opfNamespace,
			Title:       eb.book.Title,
			Creator:     dcCreator{Value: eb.book.Author, Role: "aut"},
			Subject:     eb.book.Genre,
			Description: eb.book.Description,
			Language:    epubLanguage,
			Identifier:  dcIdentifier{Value: eb.identifier, ID: "BookId"},
			Date:        eb.modified.UTC().Format("2006-01-02"),
		},
		Manifest: opfManifest{Items: []manifestItem{
			{ID: "ncx", Link: "toc.ncx", Media: mediaTypeNCX},
			{ID: "css", Link: "styles.css", Media: mediaTypeCSS},
			{ID: "title", Link: "title.xhtml", Media: mediaTypeXHTML},
			{ID: "toc", Link: "toc.xhtml", Media: mediaTypeXHTML},
		}},
		Spine: opfSpine{Toc: "ncx", Items: []spineItem{{IDref: "title"}, {IDref: "toc"}}},
	}
	for _, ch := range chapters {
		pkg.Manifest.Items = append(pkg.Manifest.Items, manifestItem{ID: ch.ID, Link: ch.File, Media: mediaTypeXHTML})
		pkg.Spine.Items = append(pkg.Spine.Items, spineItem{IDref: ch.ID})
	}
	if eb.hasCover() {
		pkg.Manifest.Items = append(pkg.Manifest.Items, manifestItem{ID: "cover-image", Link: "cover.jpg", Media: mediaTypeJPEG})
		pkg.Metadata.Metas = append(pkg.Metadata.Metas, opfMetaEntry{Name: "cover", Content: "cover-image"})
		pkg.Guide = &opfGuide{Items: []guideItem{{Title: "Cover", Type: "cover", Link: "cover.jpg"}}}
	}
	return marshalXMLDocument(pkg)
}

func (eb *epubBuilder) tocNCX(chapters []chapterView) ([]byte, error) {
	doc := ncxDocument{
		Xmlns:   ncxNamespace,
		Version: "2005-1",
		Head: ncxHead{Meta: []ncxHeadMeta{
			{Name: "dtb:uid", Content: eb.identifier},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		}},
		DocTitle: eb.book.Title,
	}
	points := []navPoint{
		{ID: "title", Label: "Title Page", Content: navPointContent{Src: "title.xhtml"}},
		{ID: "toc", Label: "Table of Contents", Content: navPointContent{Src: "toc.xhtml"}},
	}
	for _, ch := range chapters {
		points = append(points, navPoint{ID: ch.ID, Label: ch.Title, Content: navPointContent{Src: ch.File}})
	}
	for i := range points {
		points[i].PlayOrder = i + 1
	}
	doc.NavMap.Points = points
	return marshalXMLDocument(doc)
}

func withPageTitle(d pageData, title string) pageData {
	d.PageTitle = title
	return d
}

func renderXHTML(name string, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xhtmlDeclaration)
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func addBytesToZip(zw *zip.Writer, relPath string, content []byte, method uint16, modified time.Time) error {
	header := &zip.FileHeader{
		Name:     relPath,
		Method:   method,
		Modified: modified,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", relPath, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}
