package models

import "time"

// BookStatus is an open string in practice; these are the values the stats query knows about.
type BookStatus string

const (
	BookStatusDraft      BookStatus = "draft"
	BookStatusInProgress BookStatus = "in-progress"
	BookStatusPublished  BookStatus = "published"
)

// ChapterSnapshot is a chapter as embedded in Book.Content. Export reads these, not Chapter rows.
type ChapterSnapshot struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	WordCount int    `json:"wordCount"`
}

type Book struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Author       string            `json:"author"`
	Genre        string            `json:"genre"`
	Description  string            `json:"description,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	Content      []ChapterSnapshot `json:"content,omitempty"`
	CoverURL     string            `json:"coverUrl,omitempty"`
	Images       []string          `json:"images,omitempty"`
	SourceFile   string            `json:"sourceFile,omitempty"`
	TargetLength string            `json:"targetLength"`
	WritingStyle string            `json:"writingStyle"`
	Progress     int               `json:"progress"`
	Status       BookStatus        `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// BookUpdate carries a partial update. Nil fields are left untouched.
type BookUpdate struct {
	Title        *string            `json:"title,omitempty"`
	Author       *string            `json:"author,omitempty"`
	Genre        *string            `json:"genre,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Keywords     *[]string          `json:"keywords,omitempty"`
	Content      *[]ChapterSnapshot `json:"content,omitempty"`
	CoverURL     *string            `json:"coverUrl,omitempty"`
	Images       *[]string          `json:"images,omitempty"`
	SourceFile   *string            `json:"sourceFile,omitempty"`
	TargetLength *string            `json:"targetLength,omitempty"`
	WritingStyle *string            `json:"writingStyle,omitempty"`
	Progress     *int               `json:"progress,omitempty"`
	Status       *BookStatus        `json:"status,omitempty"`
}

// Apply copies every set field of u onto b. It does not touch timestamps.
func (u BookUpdate) Apply(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Genre != nil {
		b.Genre = *u.Genre
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Keywords != nil {
		b.Keywords = *u.Keywords
	}
	if u.Content != nil {
		b.Content = *u.Content
	}
	if u.CoverURL != nil {
		b.CoverURL = *u.CoverURL
	}
	if u.Images != nil {
		b.Images = *u.Images
	}
	if u.SourceFile != nil {
		b.SourceFile = *u.SourceFile
	}
	if u.TargetLength != nil {
		b.TargetLength = *u.TargetLength
	}
	if u.WritingStyle != nil {
		b.WritingStyle = *u.WritingStyle
	}
	if u.Progress != nil {
		b.Progress = ClampProgress(*u.Progress)
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
}

// ClampProgress keeps a progress percentage within [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// BookStats is the dashboard aggregate returned by /api/stats.
type BookStats struct {
	BooksInProgress  int `json:"booksInProgress"`
	PublishedBooks   int `json:"publishedBooks"`
	AIWordsGenerated int `json:"aiWordsGenerated"`
	MonthlyRevenue   int `json:"monthlyRevenue"`
}
