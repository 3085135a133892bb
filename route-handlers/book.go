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

type BookHandler struct {
	Repo datastore.BookRepository
}

func NewBookHandler(repo datastore.BookRepository) *BookHandler {
	return &BookHandler{Repo: repo}
}

func (h *BookHandler) HandleGetBooks(w http.ResponseWriter, r *http.Request) error {
	books, err := h.Repo.GetBooks(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, books)
	return nil
}

func (h *BookHandler) HandleGetBook(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	book, err := h.Repo.GetBookByID(r.Context(), bookID)
	if err != nil {
		return storeError(err, "Book", bookID)
	}
	webutil.RespondWithJSON(w, http.StatusOK, book)
	return nil
}

func (h *BookHandler) HandleCreateBook(w http.ResponseWriter, r *http.Request) error {
	var book models.Book
	if err := decodeJSON(w, r, &book); err != nil {
		return err
	}
	defer r.Body.Close()

	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if book.Title == "" || book.Author == "" {
		return webutil.ErrBadRequest("Title and author are required")
	}

	// Identity and timestamps are always server-assigned.
	book.ID = ""
	book.CreatedAt = time.Time{}
	book.UpdatedAt = time.Time{}
	fillSnapshotWordCounts(book.Content)

	if err := h.Repo.CreateBook(r.Context(), &book); err != nil {
		return storeError(err, "Book", book.Title)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, book)
	return nil
}

func (h *BookHandler) HandleUpdateBook(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	var update models.BookUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		return err
	}
	defer r.Body.Close()

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return webutil.ErrBadRequest("Title cannot be empty")
	}
	if update.Author != nil && strings.TrimSpace(*update.Author) == "" {
		return webutil.ErrBadRequest("Author cannot be empty")
	}
	if update.Content != nil {
		fillSnapshotWordCounts(*update.Content)
	}

	book, err := h.Repo.UpdateBook(r.Context(), bookID, update)
	if err != nil {
		return storeError(err, "Book", bookID)
	}
	webutil.RespondWithJSON(w, http.StatusOK, book)
	return nil
}

func (h *BookHandler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) error {
	bookID, err := urlParam(r, "bookId")
	if err != nil {
		return err
	}
	if err := h.Repo.DeleteBook(r.Context(), bookID); err != nil {
		return storeError(err, "Book", bookID)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *BookHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.Repo.GetBookStats(r.Context())
	if err != nil {
		return fmt.Errorf("failed to compute book stats: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats)
	return nil
}

func fillSnapshotWordCounts(content []models.ChapterSnapshot) {
	for i := range content {
		if content[i].WordCount == 0 {
			content[i].WordCount = ingestion.CountWords(content[i].Content)
		}
	}
}
