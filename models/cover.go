package models

import "time"

type Cover struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	ImageURL    string    `json:"imageUrl"`
	Style       string    `json:"style"`
	ColorScheme string    `json:"colorScheme"`
	IsSelected  bool      `json:"isSelected"`
	CreatedAt   time.Time `json:"createdAt"`
}
