package routehandlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

// Generator is the AI surface the generate endpoints call into.
type Generator interface {
	GenerateOutline(ctx context.Context, req models.OutlineRequest) (*models.Outline, error)
	GenerateChapter(ctx context.Context, req models.ChapterRequest) (*models.ChapterDraft, error)
	GenerateDescription(ctx context.Context, req models.DescriptionRequest) (string, error)
	GenerateKeywords(ctx context.Context, req models.KeywordsRequest) ([]string, error)
	GenerateCover(ctx context.Context, req models.CoverRequest) (*models.Cover, error)
	SummarizeDocument(ctx context.Context, text string) (string, error)
}

type GenerateHandler struct {
	Generator Generator
	Covers    datastore.CoverRepository
}

func NewGenerateHandler(generator Generator, covers datastore.CoverRepository) *GenerateHandler {
	return &GenerateHandler{Generator: generator, Covers: covers}
}

func (h *GenerateHandler) HandleGenerateOutline(w http.ResponseWriter, r *http.Request) error {
	var req models.OutlineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	outline, err := h.Generator.GenerateOutline(r.Context(), req)
	if err != nil {
		return generationError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, outline)
	return nil
}

func (h *GenerateHandler) HandleGenerateChapter(w http.ResponseWriter, r *http.Request) error {
	var req models.ChapterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	draft, err := h.Generator.GenerateChapter(r.Context(), req)
	if err != nil {
		return generationError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, draft)
	return nil
}

func (h *GenerateHandler) HandleGenerateDescription(w http.ResponseWriter, r *http.Request) error {
	var req models.DescriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	description, err := h.Generator.GenerateDescription(r.Context(), req)
	if err != nil {
		return generationError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"description": description})
	return nil
}

func (h *GenerateHandler) HandleGenerateKeywords(w http.ResponseWriter, r *http.Request) error {
	var req models.KeywordsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	keywords, err := h.Generator.GenerateKeywords(r.Context(), req)
	if err != nil {
		return generationError(err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string][]string{"keywords": keywords})
	return nil
}

// HandleGenerateCover returns the generated cover, saving it first when the request names a book.
func (h *GenerateHandler) HandleGenerateCover(w http.ResponseWriter, r *http.Request) error {
	var req models.CoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()
	req.BookID = strings.TrimSpace(req.BookID)

	cover, err := h.Generator.GenerateCover(r.Context(), req)
	if err != nil {
		return generationError(err)
	}
	if req.BookID == "" || h.Covers == nil {
		webutil.RespondWithJSON(w, http.StatusOK, cover)
		return nil
	}

	cover.BookID = req.BookID
	if err := h.Covers.CreateCover(r.Context(), cover); err != nil {
		return storeError(err, "Book", req.BookID)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, cover)
	return nil
}
