package models

type OutlineRequest struct {
	Title        string `json:"title"`
	Genre        string `json:"genre"`
	Description  string `json:"description,omitempty"`
	TargetLength string `json:"targetLength,omitempty"`
	WritingStyle string `json:"writingStyle,omitempty"`
	ChapterCount int    `json:"chapterCount,omitempty"`
}

type OutlineChapter struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Outline struct {
	Title    string           `json:"title"`
	Synopsis string           `json:"synopsis,omitempty"`
	Chapters []OutlineChapter `json:"chapters"`
}

type ChapterRequest struct {
	BookTitle       string `json:"bookTitle"`
	Genre           string `json:"genre,omitempty"`
	ChapterTitle    string `json:"chapterTitle"`
	ChapterSummary  string `json:"chapterSummary,omitempty"`
	PreviousContent string `json:"previousContent,omitempty"`
	WritingStyle    string `json:"writingStyle,omitempty"`
	TargetWords     int    `json:"targetWords,omitempty"`
}

type ChapterDraft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
}

type DescriptionRequest struct {
	Title   string `json:"title"`
	Genre   string `json:"genre,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type KeywordsRequest struct {
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	Description string `json:"description,omitempty"`
}

type CoverRequest struct {
	BookID      string `json:"bookId,omitempty"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Style       string `json:"style,omitempty"`
	ColorScheme string `json:"colorScheme,omitempty"`
}
