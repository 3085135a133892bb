package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/coreybb/quill/ingestion"
	"github.com/coreybb/quill/models"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidRequest   = errors.New("invalid generation request")
	ErrGenerationFailed = errors.New("generation failed")
	ErrNotConfigured    = errors.New("generation backend not configured")
)

// Error reports a failed external generation call as "Failed to generate <thing>: <cause>".
type Error struct {
	Thing string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("Failed to generate %s: %v", e.Thing, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrGenerationFailed }

func failed(thing string, err error) error {
	return &Error{Thing: thing, Err: err}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}

// TextClient completes a prompt with a large language model.
type TextClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ImageClient renders a prompt and returns a URL to the image.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Service turns structured requests into prompts and normalizes model output.
// Either client may be nil, in which case the matching operations fail with
// ErrNotConfigured.
type Service struct {
	text    TextClient
	image   ImageClient
	limiter *rate.Limiter
	now     func() time.Time
}

// NewService limits outbound calls to rps requests per second. rps <= 0 disables limiting.
func NewService(text TextClient, image ImageClient, rps float64) *Service {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps * 2)
		if burst < 1 {
			burst = 1
		}
	}
	return &Service{
		text:    text,
		image:   image,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

func (s *Service) complete(ctx context.Context, thing, system, prompt string) (string, error) {
	if s.text == nil {
		return "", failed(thing, ErrNotConfigured)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", failed(thing, err)
	}
	start := time.Now()
	out, err := s.text.Complete(ctx, system, prompt)
	if err != nil {
		log.Printf("ERROR (GenerationService): %s request failed after %s: %v", thing, time.Since(start), err)
		return "", failed(thing, err)
	}
	log.Printf("INFO (GenerationService): Generated %s in %s (%d chars)", thing, time.Since(start), len(out))
	return out, nil
}

func (s *Service) GenerateOutline(ctx context.Context, req models.OutlineRequest) (*models.Outline, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title is required")
	}
	if strings.TrimSpace(req.Genre) == "" {
		return nil, invalid("genre is required")
	}
	chapters := req.ChapterCount
	if chapters <= 0 {
		chapters = lookupLength(req.TargetLength).Chapters
	}

	raw, err := s.complete(ctx, "outline", systemJSON, outlinePrompt(req, chapters))
	if err != nil {
		return nil, err
	}
	outline := parseOutline(raw, req.Title)
	if len(outline.Chapters) == 0 {
		return nil, failed("outline", errors.New("model response contained no chapters"))
	}
	return &outline, nil
}

func (s *Service) GenerateChapter(ctx context.Context, req models.ChapterRequest) (*models.ChapterDraft, error) {
	if strings.TrimSpace(req.BookTitle) == "" {
		return nil, invalid("bookTitle is required")
	}
	if strings.TrimSpace(req.ChapterTitle) == "" {
		return nil, invalid("chapterTitle is required")
	}
	words := req.TargetWords
	if words <= 0 {
		words = defaultChapterWords
	}

	raw, err := s.complete(ctx, "chapter", systemAuthor, chapterPrompt(req, words))
	if err != nil {
		return nil, err
	}
	content := cleanText(raw)
	if content == "" {
		return nil, failed("chapter", errors.New("model response was empty after cleaning"))
	}
	return &models.ChapterDraft{
		Title:     req.ChapterTitle,
		Content:   content,
		WordCount: ingestion.CountWords(content),
	}, nil
}

func (s *Service) GenerateDescription(ctx context.Context, req models.DescriptionRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", invalid("title is required")
	}
	raw, err := s.complete(ctx, "description", systemAuthor, descriptionPrompt(req))
	if err != nil {
		return "", err
	}
	return cleanText(raw), nil
}

func (s *Service) GenerateKeywords(ctx context.Context, req models.KeywordsRequest) ([]string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title is required")
	}
	raw, err := s.complete(ctx, "keywords", systemJSON, keywordsPrompt(req))
	if err != nil {
		return nil, err
	}
	keywords := parseKeywords(raw)
	if len(keywords) == 0 {
		return nil, failed("keywords", errors.New("model response contained no keywords"))
	}
	return keywords, nil
}

// GenerateCover returns an unsaved cover. Persisting it is up to the caller.
func (s *Service) GenerateCover(ctx context.Context, req models.CoverRequest) (*models.Cover, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title is required")
	}
	if s.image == nil {
		return nil, failed("cover", ErrNotConfigured)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, failed("cover", err)
	}

	start := time.Now()
	url, err := s.image.GenerateImage(ctx, coverPrompt(req))
	if err != nil {
		log.Printf("ERROR (GenerationService): cover request for '%s' failed after %s: %v", req.Title, time.Since(start), err)
		return nil, failed("cover", err)
	}
	log.Printf("INFO (GenerationService): Generated cover for '%s' in %s", req.Title, time.Since(start))

	style := req.Style
	if style == "" {
		style = "professional"
	}
	return &models.Cover{
		BookID:      req.BookID,
		ImageURL:    url,
		Style:       style,
		ColorScheme: req.ColorScheme,
		CreatedAt:   s.now().UTC(),
	}, nil
}

// SummarizeDocument asks the model for a short synopsis of manuscript text.
func (s *Service) SummarizeDocument(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", invalid("text is required")
	}
	raw, err := s.complete(ctx, "summary", systemAuthor, summaryPrompt(text))
	if err != nil {
		return "", err
	}
	return cleanText(raw), nil
}
