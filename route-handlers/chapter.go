package routehandlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/ingestion"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

type ChapterHandler struct {
	Repo datastore.ChapterRepository
}

func NewChapterHandler(repo datastore.ChapterRepository) *ChapterHandler {
	return &ChapterHandler{Repo: repo}
}

func (h *ChapterHandler) HandleGetChapters(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	chapters, err := h.Repo.GetChaptersByBookID(r.Context(), bookID)
	if err != nil {
		return fmt.Errorf("failed to retrieve chapters for book %s: %w", bookID, err)
	}
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, chapters)
	return nil
}

func (h *ChapterHandler) HandleGetChapter(w http.ResponseWriter, r *http.Request) error {
	chapter, err := h.chapterInBook(r)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, chapter)
	return nil
}

func (h *ChapterHandler) HandleCreateChapter(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	var chapter models.Chapter
	if err := decodeJSON(w, r, &chapter); err != nil {
		return err
	}
	defer r.Body.Close()

	chapter.Title = strings.TrimSpace(chapter.Title)
	if chapter.Title == "" {
		return webutil.ErrBadRequest("Chapter title is required")
	}
	if chapter.BookID != "" && chapter.BookID != bookID {
		return webutil.ErrBadRequest("Chapter bookId does not match the book in the path")
	}
	chapter.ID = ""
	chapter.BookID = bookID
	chapter.CreatedAt = time.Time{}
	chapter.UpdatedAt = time.Time{}
	if chapter.WordCount == 0 {
		chapter.WordCount = ingestion.CountWords(chapter.Content)
	}

	if err := h.Repo.CreateChapter(r.Context(), &chapter); err != nil {
		return storeError(err, "Book", bookID)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, chapter)
	return nil
}

func (h *ChapterHandler) HandleUpdateChapter(w http.ResponseWriter, r *http.Request) error {
	existing, err := h.chapterInBook(r)
	if err != nil {
		return err
	}
	var update models.ChapterUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		return err
	}
	defer r.Body.Close()

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return webutil.ErrBadRequest("Chapter title cannot be empty")
	}
	if update.Content != nil && update.WordCount == nil {
		wc := ingestion.CountWords(*update.Content)
		update.WordCount = &wc
	}

	chapter, err := h.Repo.UpdateChapter(r.Context(), existing.ID, update)
	if err != nil {
		return storeError(err, "Chapter", existing.ID)
	}
	webutil.RespondWithJSON(w, http.StatusOK, chapter)
	return nil
}

func (h *ChapterHandler) HandleDeleteChapter(w http.ResponseWriter, r *http.Request) error {
	existing, err := h.chapterInBook(r)
	if err != nil {
		return err
	}
	if err := h.Repo.DeleteChapter(r.Context(), existing.ID); err != nil {
		return storeError(err, "Chapter", existing.ID)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// chapterInBook loads the chapter named in the path and checks it belongs to the path's book.
func (h *ChapterHandler) chapterInBook(r *http.Request) (*models.Chapter, error) {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return nil, err
	}
	chapterID, err := urlParam(r, "id")
	if err != nil {
		return nil, err
	}
	chapter, err := h.Repo.GetChapterByID(r.Context(), chapterID)
	if err != nil {
		return nil, storeError(err, "Chapter", chapterID)
	}
	if chapter.BookID != bookID {
		return nil, webutil.ErrNotFound("Chapter not found")
	}
	return chapter, nil
}
