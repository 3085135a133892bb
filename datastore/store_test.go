package datastore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/lib/pq"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := OpenSQLStore(context.Background(), DriverSQLite, "file::memory:?_time_format=sqlite")
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newMemStore(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore()
}

var storeFactories = map[string]func(t *testing.T) Store{
	"memory": newMemStore,
	"sqlite": newSQLiteStore,
}

func mustCreateBook(t *testing.T, s Store, title string, status models.BookStatus, createdAt time.Time) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: "A. Author", Genre: "Fiction", Status: status, CreatedAt: createdAt}
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("CreateBook(%q): %v", title, err)
	}
	return b
}

func mustCreateChapter(t *testing.T, s Store, bookID, title string, order, words int) *models.Chapter {
	t.Helper()
	c := &models.Chapter{BookID: bookID, Title: title, Content: "text", Order: order, WordCount: words}
	if err := s.CreateChapter(context.Background(), c); err != nil {
		t.Fatalf("CreateChapter(%q): %v", title, err)
	}
	return c
}

func TestDeleteBookCascades(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			doomed := mustCreateBook(t, s, "Doomed", models.BookStatusDraft, base)
			kept := mustCreateBook(t, s, "Kept", models.BookStatusDraft, base.Add(time.Minute))

			mustCreateChapter(t, s, doomed.ID, "d1", 0, 10)
			mustCreateChapter(t, s, doomed.ID, "d2", 1, 10)
			keptChapter := mustCreateChapter(t, s, kept.ID, "k1", 0, 10)
			if err := s.CreateCover(ctx, &models.Cover{BookID: doomed.ID, ImageURL: "http://x/a.jpg"}); err != nil {
				t.Fatalf("CreateCover: %v", err)
			}
			if err := s.CreateCover(ctx, &models.Cover{BookID: kept.ID, ImageURL: "http://x/b.jpg"}); err != nil {
				t.Fatalf("CreateCover: %v", err)
			}

			if err := s.DeleteBook(ctx, doomed.ID); err != nil {
				t.Fatalf("DeleteBook: %v", err)
			}

			if _, err := s.GetBookByID(ctx, doomed.ID); !IsNotFound(err) {
				t.Fatalf("GetBookByID after delete: want not found, got %v", err)
			}
			chapters, err := s.GetChaptersByBookID(ctx, doomed.ID)
			if err != nil || len(chapters) != 0 {
				t.Fatalf("chapters of deleted book = %d (err %v), want 0", len(chapters), err)
			}
			covers, err := s.GetCoversByBookID(ctx, doomed.ID)
			if err != nil || len(covers) != 0 {
				t.Fatalf("covers of deleted book = %d (err %v), want 0", len(covers), err)
			}

			books, _ := s.GetBooks(ctx)
			if len(books) != 1 || books[0].ID != kept.ID {
				t.Fatalf("remaining books = %+v, want only %s", books, kept.ID)
			}
			if _, err := s.GetChapterByID(ctx, keptChapter.ID); err != nil {
				t.Fatalf("unrelated chapter was removed: %v", err)
			}
			keptCovers, _ := s.GetCoversByBookID(ctx, kept.ID)
			if len(keptCovers) != 1 {
				t.Fatalf("unrelated covers = %d, want 1", len(keptCovers))
			}
		})
	}
}

func TestDeleteMissingBookIsNotFound(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			b := mustCreateBook(t, s, "Only", models.BookStatusDraft, time.Time{})
			mustCreateChapter(t, s, b.ID, "c", 0, 5)

			err := s.DeleteBook(ctx, "does-not-exist")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("DeleteBook(missing) = %v, want ErrNotFound", err)
			}
			books, _ := s.GetBooks(ctx)
			chapters, _ := s.GetChaptersByBookID(ctx, b.ID)
			if len(books) != 1 || len(chapters) != 1 {
				t.Fatalf("store mutated: books=%d chapters=%d", len(books), len(chapters))
			}
		})
	}
}

func TestOrdering(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

			older := mustCreateBook(t, s, "Older", models.BookStatusDraft, base)
			newer := mustCreateBook(t, s, "Newer", models.BookStatusDraft, base.Add(time.Hour))

			books, err := s.GetBooks(ctx)
			if err != nil {
				t.Fatalf("GetBooks: %v", err)
			}
			if len(books) != 2 || books[0].ID != newer.ID || books[1].ID != older.ID {
				t.Fatalf("GetBooks order = [%s %s], want newest first", books[0].Title, books[1].Title)
			}

			// Created in reverse order; listing must follow the order field.
			mustCreateChapter(t, s, older.ID, "third", 7, 1)
			mustCreateChapter(t, s, older.ID, "first", 0, 1)
			mustCreateChapter(t, s, older.ID, "second", 3, 1)
			chapters, err := s.GetChaptersByBookID(ctx, older.ID)
			if err != nil {
				t.Fatalf("GetChaptersByBookID: %v", err)
			}
			got := []string{chapters[0].Title, chapters[1].Title, chapters[2].Title}
			want := []string{"first", "second", "third"}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("chapter order = %v, want %v", got, want)
				}
			}

			for i, u := range []string{"a", "b"} {
				c := &models.Cover{BookID: older.ID, ImageURL: "http://x/" + u, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
				if err := s.CreateCover(ctx, c); err != nil {
					t.Fatalf("CreateCover: %v", err)
				}
			}
			covers, _ := s.GetCoversByBookID(ctx, older.ID)
			if len(covers) != 2 || covers[0].ImageURL != "http://x/b" {
				t.Fatalf("covers not newest first: %+v", covers)
			}
		})
	}
}

func TestGetBookStats(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			draft := mustCreateBook(t, s, "Draft", models.BookStatusDraft, time.Time{})
			published := mustCreateBook(t, s, "Published", models.BookStatusPublished, time.Time{})
			mustCreateChapter(t, s, draft.ID, "one", 0, 100)
			mustCreateChapter(t, s, published.ID, "two", 0, 250)

			stats, err := s.GetBookStats(ctx)
			if err != nil {
				t.Fatalf("GetBookStats: %v", err)
			}
			if stats.BooksInProgress != 1 || stats.PublishedBooks != 1 || stats.AIWordsGenerated != 350 {
				t.Fatalf("stats = %+v, want booksInProgress=1 publishedBooks=1 aiWordsGenerated=350", stats)
			}
			if stats.MonthlyRevenue != placeholderMonthlyRevenue {
				t.Fatalf("monthlyRevenue = %d, want constant %d", stats.MonthlyRevenue, placeholderMonthlyRevenue)
			}
		})
	}
}

func TestUpdateBookPartial(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			b := mustCreateBook(t, s, "Original", models.BookStatusDraft, time.Time{})

			title := "Renamed"
			progress := 140
			content := []models.ChapterSnapshot{{Title: "Ch 1", Content: "x", Order: 0, WordCount: 1}}
			updated, err := s.UpdateBook(ctx, b.ID, models.BookUpdate{Title: &title, Progress: &progress, Content: &content})
			if err != nil {
				t.Fatalf("UpdateBook: %v", err)
			}
			if updated.Title != "Renamed" || updated.Author != "A. Author" {
				t.Fatalf("partial update clobbered fields: %+v", updated)
			}
			if updated.Progress != 100 {
				t.Fatalf("progress = %d, want clamped 100", updated.Progress)
			}
			if updated.UpdatedAt.Before(updated.CreatedAt) {
				t.Fatalf("updatedAt %v before createdAt %v", updated.UpdatedAt, updated.CreatedAt)
			}

			fetched, _ := s.GetBookByID(ctx, b.ID)
			if len(fetched.Content) != 1 || fetched.Content[0].Title != "Ch 1" {
				t.Fatalf("content not persisted: %+v", fetched.Content)
			}

			if _, err := s.UpdateBook(ctx, "missing", models.BookUpdate{Title: &title}); !IsNotFound(err) {
				t.Fatalf("UpdateBook(missing) = %v, want not found", err)
			}
		})
	}
}

func TestChapterRequiresBook(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			err := factory(t).CreateChapter(context.Background(), &models.Chapter{BookID: "nope", Title: "orphan"})
			if !IsNotFound(err) {
				t.Fatalf("CreateChapter for missing book = %v, want not found", err)
			}
		})
	}
}

func TestUsernameUnique(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			if err := s.CreateUser(ctx, &models.User{Username: "writer", PasswordHash: "h"}); err != nil {
				t.Fatalf("CreateUser: %v", err)
			}
			err := s.CreateUser(ctx, &models.User{Username: "Writer", PasswordHash: "h"})
			if !errors.Is(err, ErrConflict) {
				t.Fatalf("duplicate CreateUser = %v, want ErrConflict", err)
			}
			u, err := s.GetUserByUsername(ctx, "WRITER")
			if err != nil || u.Username != "writer" {
				t.Fatalf("GetUserByUsername = %+v, %v", u, err)
			}
		})
	}
}

func TestUsernameIndexIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t).(*SQLStore)
	if err := s.CreateUser(ctx, &models.User{Username: "writer", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	// Insert directly to skip the lookup CreateUser does first, as a concurrent
	// registration would.
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		"u-2", "WRITER", "h", "", "", time.Now().UTC())
	if err == nil {
		t.Fatal("expected the index to reject a case-only duplicate")
	}
	if got := insertError("user", `"WRITER"`, err); !errors.Is(got, ErrConflict) {
		t.Errorf("insertError = %v, want ErrConflict", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres unique", &pq.Error{Code: "23505"}, true},
		{"postgres wrapped", fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}), true},
		{"postgres foreign key", &pq.Error{Code: "23503"}, false},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), true},
		{"other", errors.New("database is locked"), false},
	}
	for _, tt := range tests {
		if got := isUniqueViolation(tt.err); got != tt.want {
			t.Errorf("%s: isUniqueViolation = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCreateBookDuplicateIDConflicts(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			b := mustCreateBook(t, s, "First", models.BookStatusDraft, time.Now())
			dup := &models.Book{ID: b.ID, Title: "Second", Author: "A. Author", Status: models.BookStatusDraft}
			if err := s.CreateBook(context.Background(), dup); !errors.Is(err, ErrConflict) {
				t.Fatalf("CreateBook with existing ID = %v, want ErrConflict", err)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b IN (?, ?)"); got != "a = $1 AND b IN ($2, $3)" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &SQLStore{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}
