package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/google/uuid"
)

const bookColumns = `id, title, author, genre, description, keywords, content, cover_url,
	images, source_file, target_length, writing_style, progress, status, created_at, updated_at`

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		book                      models.Book
		keywords, content, images string
		status                    string
	)
	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.Genre, &book.Description,
		&keywords, &content, &book.CoverURL, &images, &book.SourceFile,
		&book.TargetLength, &book.WritingStyle, &book.Progress, &status,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	book.Status = models.BookStatus(status)
	if err := decodeJSONColumn(keywords, &book.Keywords); err != nil {
		return nil, fmt.Errorf("book %s keywords: %w", book.ID, err)
	}
	if err := decodeJSONColumn(content, &book.Content); err != nil {
		return nil, fmt.Errorf("book %s content: %w", book.ID, err)
	}
	if err := decodeJSONColumn(images, &book.Images); err != nil {
		return nil, fmt.Errorf("book %s images: %w", book.ID, err)
	}
	book.CreatedAt = book.CreatedAt.UTC()
	book.UpdatedAt = book.UpdatedAt.UTC()
	return &book, nil
}

func (s *SQLStore) GetBooks(ctx context.Context) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *book)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}
	return books, nil
}

func (s *SQLStore) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	query := s.rebind(`SELECT ` + bookColumns + ` FROM books WHERE id = ?`)
	book, err := scanBook(s.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("book", bookID)
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}
	return book, nil
}

func (s *SQLStore) CreateBook(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now().UTC()
	}
	if book.UpdatedAt.Before(book.CreatedAt) {
		book.UpdatedAt = book.CreatedAt
	}
	if book.Status == "" {
		book.Status = models.BookStatusDraft
	}
	book.Progress = models.ClampProgress(book.Progress)

	keywords, content, images, err := encodeBookLists(book)
	if err != nil {
		return err
	}

	query := s.rebind(`
		INSERT INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = s.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Genre, book.Description,
		keywords, content, book.CoverURL, images, book.SourceFile,
		book.TargetLength, book.WritingStyle, book.Progress, string(book.Status),
		book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return insertError("book", book.ID, err)
	}
	return nil
}

func (s *SQLStore) UpdateBook(ctx context.Context, bookID string, update models.BookUpdate) (*models.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	book, err := scanBook(tx.QueryRowContext(ctx, s.rebind(`SELECT `+bookColumns+` FROM books WHERE id = ?`), bookID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("book", bookID)
		}
		return nil, fmt.Errorf("failed to load book for update: %w", err)
	}

	update.Apply(book)
	book.UpdatedAt = laterOf(time.Now().UTC(), book.CreatedAt)

	keywords, content, images, err := encodeBookLists(book)
	if err != nil {
		return nil, err
	}
	query := s.rebind(`
		UPDATE books SET title = ?, author = ?, genre = ?, description = ?, keywords = ?,
			content = ?, cover_url = ?, images = ?, source_file = ?, target_length = ?,
			writing_style = ?, progress = ?, status = ?, updated_at = ?
		WHERE id = ?
	`)
	_, err = tx.ExecContext(ctx, query,
		book.Title, book.Author, book.Genre, book.Description, keywords,
		content, book.CoverURL, images, book.SourceFile, book.TargetLength,
		book.WritingStyle, book.Progress, string(book.Status), book.UpdatedAt,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit book update: %w", err)
	}
	return book, nil
}

// DeleteBook removes chapters and covers first, then the book, in one transaction.
func (s *SQLStore) DeleteBook(ctx context.Context, bookID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM books WHERE id = ?`), bookID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check book existence: %w", err)
	}
	if exists == 0 {
		return notFound("book", bookID)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM chapters WHERE book_id = ?`), bookID); err != nil {
		return fmt.Errorf("failed to delete chapters of book %s: %w", bookID, err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM covers WHERE book_id = ?`), bookID); err != nil {
		return fmt.Errorf("failed to delete covers of book %s: %w", bookID, err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM books WHERE id = ?`), bookID); err != nil {
		return fmt.Errorf("failed to delete book %s: %w", bookID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit book deletion: %w", err)
	}
	return nil
}

func (s *SQLStore) GetBookStats(ctx context.Context) (*models.BookStats, error) {
	stats := &models.BookStats{MonthlyRevenue: placeholderMonthlyRevenue}

	query := s.rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM books
	`)
	err := s.db.QueryRowContext(ctx, query,
		string(models.BookStatusDraft), string(models.BookStatusInProgress), string(models.BookStatusPublished),
	).Scan(&stats.BooksInProgress, &stats.PublishedBooks)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate book statuses: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(word_count), 0) FROM chapters`).Scan(&stats.AIWordsGenerated)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate chapter word counts: %w", err)
	}
	return stats, nil
}

func encodeBookLists(book *models.Book) (keywords, content, images string, err error) {
	if keywords, err = encodeJSONColumn(book.Keywords); err != nil {
		return "", "", "", err
	}
	if content, err = encodeJSONColumn(book.Content); err != nil {
		return "", "", "", err
	}
	if images, err = encodeJSONColumn(book.Images); err != nil {
		return "", "", "", err
	}
	return keywords, content, images, nil
}
