package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/google/uuid"
)

const coverColumns = `id, book_id, image_url, style, color_scheme, is_selected, created_at`

func (s *SQLStore) GetCoversByBookID(ctx context.Context, bookID string) ([]models.Cover, error) {
	query := s.rebind(`SELECT ` + coverColumns + ` FROM covers WHERE book_id = ? ORDER BY created_at DESC`)
	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query covers for book %s: %w", bookID, err)
	}
	defer rows.Close()

	covers := []models.Cover{}
	for rows.Next() {
		var c models.Cover
		if err := rows.Scan(&c.ID, &c.BookID, &c.ImageURL, &c.Style, &c.ColorScheme, &c.IsSelected, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cover row for book %s: %w", bookID, err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		covers = append(covers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cover rows for book %s: %w", bookID, err)
	}
	return covers, nil
}

func (s *SQLStore) CreateCover(ctx context.Context, cover *models.Cover) error {
	if err := validateCover(cover); err != nil {
		return err
	}
	if err := s.requireBook(ctx, cover.BookID); err != nil {
		return err
	}
	if cover.ID == "" {
		cover.ID = uuid.NewString()
	}
	if cover.CreatedAt.IsZero() {
		cover.CreatedAt = time.Now().UTC()
	}

	query := s.rebind(`INSERT INTO covers (` + coverColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		cover.ID, cover.BookID, cover.ImageURL, cover.Style, cover.ColorScheme, cover.IsSelected, cover.CreatedAt,
	)
	if err != nil {
		return insertError("cover", cover.ID, err)
	}
	return nil
}
