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

const chapterColumns = `id, book_id, title, content, chapter_order, word_count, status, created_at, updated_at`

func scanChapter(row rowScanner) (*models.Chapter, error) {
	var c models.Chapter
	err := row.Scan(&c.ID, &c.BookID, &c.Title, &c.Content, &c.Order, &c.WordCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// GetChaptersByBookID orders by chapter order, not creation time.
func (s *SQLStore) GetChaptersByBookID(ctx context.Context, bookID string) ([]models.Chapter, error) {
	query := s.rebind(`SELECT ` + chapterColumns + ` FROM chapters WHERE book_id = ? ORDER BY chapter_order ASC, created_at ASC`)
	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters for book %s: %w", bookID, err)
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter row for book %s: %w", bookID, err)
		}
		chapters = append(chapters, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chapter rows for book %s: %w", bookID, err)
	}
	return chapters, nil
}

func (s *SQLStore) GetChapterByID(ctx context.Context, chapterID string) (*models.Chapter, error) {
	query := s.rebind(`SELECT ` + chapterColumns + ` FROM chapters WHERE id = ?`)
	c, err := scanChapter(s.db.QueryRowContext(ctx, query, chapterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("chapter", chapterID)
		}
		return nil, fmt.Errorf("failed to get chapter by ID: %w", err)
	}
	return c, nil
}

func (s *SQLStore) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := validateChapter(chapter); err != nil {
		return err
	}
	if err := s.requireBook(ctx, chapter.BookID); err != nil {
		return err
	}
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = time.Now().UTC()
	}
	if chapter.UpdatedAt.Before(chapter.CreatedAt) {
		chapter.UpdatedAt = chapter.CreatedAt
	}
	if chapter.Status == "" {
		chapter.Status = string(models.BookStatusDraft)
	}

	query := s.rebind(`INSERT INTO chapters (` + chapterColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		chapter.ID, chapter.BookID, chapter.Title, chapter.Content, chapter.Order,
		chapter.WordCount, chapter.Status, chapter.CreatedAt, chapter.UpdatedAt,
	)
	if err != nil {
		return insertError("chapter", chapter.ID, err)
	}
	return nil
}

func (s *SQLStore) UpdateChapter(ctx context.Context, chapterID string, update models.ChapterUpdate) (*models.Chapter, error) {
	c, err := s.GetChapterByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	update.Apply(c)
	c.UpdatedAt = laterOf(time.Now().UTC(), c.CreatedAt)

	query := s.rebind(`
		UPDATE chapters SET title = ?, content = ?, chapter_order = ?, word_count = ?, status = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := s.db.ExecContext(ctx, query, c.Title, c.Content, c.Order, c.WordCount, c.Status, c.UpdatedAt, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, notFound("chapter", chapterID)
	}
	return c, nil
}

func (s *SQLStore) DeleteChapter(ctx context.Context, chapterID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM chapters WHERE id = ?`), chapterID)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound("chapter", chapterID)
	}
	return nil
}

func (s *SQLStore) requireBook(ctx context.Context, bookID string) error {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM books WHERE id = ?`), bookID).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check book existence: %w", err)
	}
	if n == 0 {
		return notFound("book", bookID)
	}
	return nil
}
