package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/ebook"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

// HeaderExportFallback is set on print exports that were delivered as HTML.
const HeaderExportFallback = "X-Export-Fallback"

type Exporter interface {
	Export(ctx context.Context, book *models.Book, opts models.ExportOptions) (*ebook.Artifact, error)
}

type ExportHandler struct {
	Books    datastore.BookRepository
	Chapters datastore.ChapterRepository
	Exporter Exporter
}

func NewExportHandler(books datastore.BookRepository, chapters datastore.ChapterRepository, exporter Exporter) *ExportHandler {
	return &ExportHandler{Books: books, Chapters: chapters, Exporter: exporter}
}

func (h *ExportHandler) HandleGetPresets(w http.ResponseWriter, r *http.Request) error {
	webutil.RespondWithJSON(w, http.StatusOK, ebook.Presets())
	return nil
}

// HandleExportBook streams the exported artifact. A ?preset= query supplies base
// options which the JSON body may override field by field.
func (h *ExportHandler) HandleExportBook(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}

	var opts models.ExportOptions
	if name := strings.TrimSpace(r.URL.Query().Get("preset")); name != "" {
		preset, ok := ebook.LookupPreset(name)
		if !ok {
			return webutil.ErrBadRequest(fmt.Sprintf("Unknown export preset %q", name))
		}
		opts = preset.Options
	}
	if err := decodeOptionalJSON(w, r, &opts); err != nil {
		return err
	}
	if r.Body != nil {
		defer r.Body.Close()
	}
	if opts.Format == "" {
		return webutil.ErrBadRequest("Export format is required")
	}
	if _, ok := models.IsValidExportFormat(string(opts.Format)); !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Unsupported export format %q", opts.Format))
	}

	book, err := h.Books.GetBookByID(r.Context(), bookID)
	if err != nil {
		return storeError(err, "Book", bookID)
	}
	if len(book.Content) == 0 && h.Chapters != nil {
		chapters, err := h.Chapters.GetChaptersByBookID(r.Context(), bookID)
		if err != nil {
			return fmt.Errorf("failed to load chapters for export of book %s: %w", bookID, err)
		}
		for _, c := range chapters {
			book.Content = append(book.Content, c.Snapshot())
		}
	}

	artifact, err := h.Exporter.Export(r.Context(), book, opts)
	if err != nil {
		if errors.Is(err, ebook.ErrInvalidBook) {
			return webutil.ErrBadRequestWrap(err.Error(), err)
		}
		return webutil.NewHTTPErrorWrap(http.StatusInternalServerError, err.Error(), err)
	}

	if artifact.Fallback {
		w.Header().Set(HeaderExportFallback, "html")
	}
	webutil.RespondWithAttachment(w, artifact.FileName, artifact.ContentType, artifact.Data)
	return nil
}
