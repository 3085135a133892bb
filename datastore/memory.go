package datastore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every entity in process memory. The mutex only provides
// memory safety for concurrent handlers; there is no transactional isolation.
type MemoryStore struct {
	mu       sync.RWMutex
	books    map[string]models.Book
	chapters map[string]models.Chapter
	covers   map[string]models.Cover
	users    map[string]models.User
	// insertion sequence, used to keep ordering stable when timestamps tie
	seq   map[string]uint64
	next  uint64
	clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:    make(map[string]models.Book),
		chapters: make(map[string]models.Chapter),
		covers:   make(map[string]models.Cover),
		users:    make(map[string]models.User),
		seq:      make(map[string]uint64),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) track(id string) {
	s.next++
	s.seq[id] = s.next
}

// --- Books ---

func (s *MemoryStore) GetBooks(ctx context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, cloneBook(b))
	}
	sort.SliceStable(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return s.seq[books[i].ID] > s.seq[books[j].ID]
	})
	return books, nil
}

func (s *MemoryStore) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[bookID]
	if !ok {
		return nil, notFound("book", bookID)
	}
	b = cloneBook(b)
	return &b, nil
}

func (s *MemoryStore) CreateBook(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if _, exists := s.books[book.ID]; exists {
		return fmt.Errorf("book %s: %w", book.ID, ErrConflict)
	}
	now := s.clock()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	if book.UpdatedAt.Before(book.CreatedAt) {
		book.UpdatedAt = book.CreatedAt
	}
	if book.Status == "" {
		book.Status = models.BookStatusDraft
	}
	book.Progress = models.ClampProgress(book.Progress)

	s.books[book.ID] = cloneBook(*book)
	s.track(book.ID)
	return nil
}

func (s *MemoryStore) UpdateBook(ctx context.Context, bookID string, update models.BookUpdate) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookID]
	if !ok {
		return nil, notFound("book", bookID)
	}
	update.Apply(&b)
	b.UpdatedAt = laterOf(s.clock(), b.CreatedAt)
	s.books[bookID] = cloneBook(b)

	out := cloneBook(b)
	return &out, nil
}

func (s *MemoryStore) DeleteBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[bookID]; !ok {
		return notFound("book", bookID)
	}
	for id, c := range s.chapters {
		if c.BookID == bookID {
			delete(s.chapters, id)
			delete(s.seq, id)
		}
	}
	for id, c := range s.covers {
		if c.BookID == bookID {
			delete(s.covers, id)
			delete(s.seq, id)
		}
	}
	delete(s.books, bookID)
	delete(s.seq, bookID)
	return nil
}

func (s *MemoryStore) GetBookStats(ctx context.Context) (*models.BookStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	wordCounts := make([]int, 0, len(s.chapters))
	for _, c := range s.chapters {
		wordCounts = append(wordCounts, c.WordCount)
	}
	return computeStats(books, wordCounts), nil
}

// --- Chapters ---

func (s *MemoryStore) GetChaptersByBookID(ctx context.Context, bookID string) ([]models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chapters := []models.Chapter{}
	for _, c := range s.chapters {
		if c.BookID == bookID {
			chapters = append(chapters, c)
		}
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].Order != chapters[j].Order {
			return chapters[i].Order < chapters[j].Order
		}
		return s.seq[chapters[i].ID] < s.seq[chapters[j].ID]
	})
	return chapters, nil
}

func (s *MemoryStore) GetChapterByID(ctx context.Context, chapterID string) (*models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chapters[chapterID]
	if !ok {
		return nil, notFound("chapter", chapterID)
	}
	return &c, nil
}

func (s *MemoryStore) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := validateChapter(chapter); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[chapter.BookID]; !ok {
		return notFound("book", chapter.BookID)
	}
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	if _, exists := s.chapters[chapter.ID]; exists {
		return fmt.Errorf("chapter %s: %w", chapter.ID, ErrConflict)
	}
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = s.clock()
	}
	if chapter.UpdatedAt.Before(chapter.CreatedAt) {
		chapter.UpdatedAt = chapter.CreatedAt
	}
	if chapter.Status == "" {
		chapter.Status = string(models.BookStatusDraft)
	}

	s.chapters[chapter.ID] = *chapter
	s.track(chapter.ID)
	return nil
}

func (s *MemoryStore) UpdateChapter(ctx context.Context, chapterID string, update models.ChapterUpdate) (*models.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chapters[chapterID]
	if !ok {
		return nil, notFound("chapter", chapterID)
	}
	update.Apply(&c)
	c.UpdatedAt = laterOf(s.clock(), c.CreatedAt)
	s.chapters[chapterID] = c
	return &c, nil
}

func (s *MemoryStore) DeleteChapter(ctx context.Context, chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chapters[chapterID]; !ok {
		return notFound("chapter", chapterID)
	}
	delete(s.chapters, chapterID)
	delete(s.seq, chapterID)
	return nil
}

// --- Covers ---

func (s *MemoryStore) GetCoversByBookID(ctx context.Context, bookID string) ([]models.Cover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	covers := []models.Cover{}
	for _, c := range s.covers {
		if c.BookID == bookID {
			covers = append(covers, c)
		}
	}
	sort.SliceStable(covers, func(i, j int) bool {
		if !covers[i].CreatedAt.Equal(covers[j].CreatedAt) {
			return covers[i].CreatedAt.After(covers[j].CreatedAt)
		}
		return s.seq[covers[i].ID] > s.seq[covers[j].ID]
	})
	return covers, nil
}

func (s *MemoryStore) CreateCover(ctx context.Context, cover *models.Cover) error {
	if err := validateCover(cover); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[cover.BookID]; !ok {
		return notFound("book", cover.BookID)
	}
	if cover.ID == "" {
		cover.ID = uuid.NewString()
	}
	if _, exists := s.covers[cover.ID]; exists {
		return fmt.Errorf("cover %s: %w", cover.ID, ErrConflict)
	}
	if cover.CreatedAt.IsZero() {
		cover.CreatedAt = s.clock()
	}

	s.covers[cover.ID] = *cover
	s.track(cover.ID)
	return nil
}

// --- Users ---

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("username %q: %w", user.Username, ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.clock()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

func cloneBook(b models.Book) models.Book {
	if b.Keywords != nil {
		b.Keywords = append([]string(nil), b.Keywords...)
	}
	if b.Content != nil {
		b.Content = append([]models.ChapterSnapshot(nil), b.Content...)
	}
	if b.Images != nil {
		b.Images = append([]string(nil), b.Images...)
	}
	return b
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
