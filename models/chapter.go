package models

import "time"

type Chapter struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	WordCount int       `json:"wordCount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChapterUpdate struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Order     *int    `json:"order,omitempty"`
	WordCount *int    `json:"wordCount,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (u ChapterUpdate) Apply(c *Chapter) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Content != nil {
		c.Content = *u.Content
	}
	if u.Order != nil {
		c.Order = *u.Order
	}
	if u.WordCount != nil {
		c.WordCount = *u.WordCount
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
}

// Snapshot converts a stored chapter into the form embedded in Book.Content.
func (c Chapter) Snapshot() ChapterSnapshot {
	return ChapterSnapshot{
		Title:     c.Title,
		Content:   c.Content,
		Order:     c.Order,
		WordCount: c.WordCount,
	}
}
