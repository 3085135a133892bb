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

const userColumns = `id, username, password_hash, email, api_key, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.APIKey, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	if _, err := s.GetUserByUsername(ctx, user.Username); err == nil {
		return fmt.Errorf("username %q: %w", user.Username, ErrConflict)
	} else if !IsNotFound(err) {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := s.rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.Email, user.APIKey, user.CreatedAt)
	if err != nil {
		return insertError("user", fmt.Sprintf("%q", user.Username), err)
	}
	return nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", userID)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

// GetUserByUsername matches case-insensitively, like the uniqueness check in CreateUser.
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?)`)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}
