package routehandlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

type CoverHandler struct {
	Repo datastore.CoverRepository
}

func NewCoverHandler(repo datastore.CoverRepository) *CoverHandler {
	return &CoverHandler{Repo: repo}
}

func (h *CoverHandler) HandleGetCovers(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	covers, err := h.Repo.GetCoversByBookID(r.Context(), bookID)
	if err != nil {
		return fmt.Errorf("failed to retrieve covers for book %s: %w", bookID, err)
	}
	if covers == nil {
		covers = []models.Cover{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, covers)
	return nil
}

func (h *CoverHandler) HandleCreateCover(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	var cover models.Cover
	if err := decodeJSON(w, r, &cover); err != nil {
		return err
	}
	defer r.Body.Close()

	if strings.TrimSpace(cover.ImageURL) == "" {
		return webutil.ErrBadRequest("Cover imageUrl is required")
	}
	if cover.BookID != "" && cover.BookID != bookID {
		return webutil.ErrBadRequest("Cover bookId does not match the book in the path")
	}
	cover.ID = ""
	cover.BookID = bookID
	cover.CreatedAt = time.Time{}

	if err := h.Repo.CreateCover(r.Context(), &cover); err != nil {
		return storeError(err, "Book", bookID)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, cover)
	return nil
}
