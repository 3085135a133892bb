package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coreybb/quill/models"
)

var (
	// ErrNotFound wraps sql.ErrNoRows so callers can match either.
	ErrNotFound = fmt.Errorf("resource not found: %w", sql.ErrNoRows)
	ErrConflict = errors.New("resource already exists")
)

// placeholderMonthlyRevenue is reported as-is; revenue is not tracked.
const placeholderMonthlyRevenue = 0

type BookRepository interface {
	GetBooks(ctx context.Context) ([]models.Book, error)
	GetBookByID(ctx context.Context, bookID string) (*models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, bookID string, update models.BookUpdate) (*models.Book, error)
	// DeleteBook removes the book together with its chapters and covers.
	DeleteBook(ctx context.Context, bookID string) error
	GetBookStats(ctx context.Context) (*models.BookStats, error)
}

type ChapterRepository interface {
	GetChaptersByBookID(ctx context.Context, bookID string) ([]models.Chapter, error)
	GetChapterByID(ctx context.Context, chapterID string) (*models.Chapter, error)
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	UpdateChapter(ctx context.Context, chapterID string, update models.ChapterUpdate) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID string) error
}

type CoverRepository interface {
	GetCoversByBookID(ctx context.Context, bookID string) ([]models.Cover, error)
	CreateCover(ctx context.Context, cover *models.Cover) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store is the full persistence surface the HTTP layer is constructed with.
type Store interface {
	BookRepository
	ChapterRepository
	CoverRepository
	UserRepository
	Close() error
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s not found: %w", kind, id, ErrNotFound)
}

// IsNotFound reports whether err signals a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func validateBook(book *models.Book) error {
	if book == nil {
		return fmt.Errorf("book cannot be nil")
	}
	if book.Title == "" || book.Author == "" {
		return fmt.Errorf("missing required fields for creating book (title, author)")
	}
	return nil
}

func validateChapter(chapter *models.Chapter) error {
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	if chapter.BookID == "" || chapter.Title == "" {
		return fmt.Errorf("missing required fields for creating chapter (bookId, title)")
	}
	return nil
}

func validateCover(cover *models.Cover) error {
	if cover == nil {
		return fmt.Errorf("cover cannot be nil")
	}
	if cover.BookID == "" || cover.ImageURL == "" {
		return fmt.Errorf("missing required fields for creating cover (bookId, imageUrl)")
	}
	return nil
}

func validateUser(user *models.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}
	if user.Username == "" || user.PasswordHash == "" {
		return fmt.Errorf("missing required fields for creating user (username, password hash)")
	}
	return nil
}

// computeStats derives the dashboard aggregate. Word counts are summed across all books.
func computeStats(books []models.Book, chapterWordCounts []int) *models.BookStats {
	stats := &models.BookStats{MonthlyRevenue: placeholderMonthlyRevenue}
	for _, b := range books {
		switch b.Status {
		case models.BookStatusDraft, models.BookStatusInProgress:
			stats.BooksInProgress++
		case models.BookStatusPublished:
			stats.PublishedBooks++
		}
	}
	for _, wc := range chapterWordCounts {
		stats.AIWordsGenerated += wc
	}
	return stats
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)
