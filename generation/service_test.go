package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coreybb/quill/models"
)

type fakeText struct {
	reply   string
	err     error
	prompts []string
	systems []string
}

func (f *fakeText) Complete(_ context.Context, system, prompt string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeImage struct {
	url    string
	err    error
	prompt string
}

func (f *fakeImage) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.url, f.err
}

func TestGenerateOutlineParsesJSON(t *testing.T) {
	text := &fakeText{reply: "Sure! Here it is:\n```json\n" +
		`{"title":"The Ember Crown","synopsis":"A smith's <b>daughter</b> forges a crown.",` +
		`"chapters":[{"title":"The Forge","summary":"Mara works."},{"title":"","summary":"skip"},{"title":"Ashes","summary":"It burns."}]}` +
		"\n```"}
	svc := NewService(text, nil, 0)

	outline, err := svc.GenerateOutline(context.Background(), models.OutlineRequest{
		Title: "Working Title", Genre: "Fantasy", TargetLength: "Novella", WritingStyle: "lyrical",
	})
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if outline.Title != "The Ember Crown" {
		t.Errorf("Title = %q", outline.Title)
	}
	if outline.Synopsis != "A smith's daughter forges a crown." {
		t.Errorf("Synopsis = %q", outline.Synopsis)
	}
	if len(outline.Chapters) != 2 || outline.Chapters[1].Title != "Ashes" {
		t.Errorf("Chapters = %+v", outline.Chapters)
	}

	prompt := text.prompts[0]
	for _, want := range []string{"30000 words", "10 chapters", genreGuidance["fantasy"], styleGuidance["lyrical"]} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateOutlineFallsBackToNumberedLines(t *testing.T) {
	text := &fakeText{reply: "1. Arrival - The hero arrives.\n2) Departure\nChapter 3: Return — Home again."}
	outline, err := NewService(text, nil, 0).GenerateOutline(context.Background(),
		models.OutlineRequest{Title: "T", Genre: "mystery", ChapterCount: 3})
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(outline.Chapters) != 3 {
		t.Fatalf("Chapters = %+v", outline.Chapters)
	}
	if outline.Chapters[0].Title != "Arrival" || outline.Chapters[0].Summary != "The hero arrives." {
		t.Errorf("first chapter = %+v", outline.Chapters[0])
	}
	if outline.Chapters[2].Title != "Return" {
		t.Errorf("third chapter = %+v", outline.Chapters[2])
	}
	if outline.Title != "T" {
		t.Errorf("Title should fall back to the request title, got %q", outline.Title)
	}
}

func TestGenerateOutlineNoChapters(t *testing.T) {
	_, err := NewService(&fakeText{reply: "I cannot help with that."}, nil, 0).
		GenerateOutline(context.Background(), models.OutlineRequest{Title: "T", Genre: "g"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestValidation(t *testing.T) {
	svc := NewService(&fakeText{reply: "x"}, &fakeImage{url: "u"}, 0)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["outline without genre"] = svc.GenerateOutline(ctx, models.OutlineRequest{Title: "T"})
	_, checks["outline without title"] = svc.GenerateOutline(ctx, models.OutlineRequest{Genre: "g"})
	_, checks["chapter without chapter title"] = svc.GenerateChapter(ctx, models.ChapterRequest{BookTitle: "B"})
	_, checks["chapter without book title"] = svc.GenerateChapter(ctx, models.ChapterRequest{ChapterTitle: "C"})
	_, checks["description"] = svc.GenerateDescription(ctx, models.DescriptionRequest{})
	_, checks["keywords"] = svc.GenerateKeywords(ctx, models.KeywordsRequest{Title: "  "})
	_, checks["cover"] = svc.GenerateCover(ctx, models.CoverRequest{})
	_, checks["summary"] = svc.SummarizeDocument(ctx, "")

	for name, err := range checks {
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: err = %v, want ErrInvalidRequest", name, err)
		}
		if errors.Is(err, ErrGenerationFailed) {
			t.Errorf("%s: validation error must not count as generation failure", name)
		}
	}
}

func TestUpstreamFailureIsPrefixed(t *testing.T) {
	svc := NewService(&fakeText{err: errors.New("overloaded")}, nil, 0)
	_, err := svc.GenerateDescription(context.Background(), models.DescriptionRequest{Title: "T"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if err.Error() != "Failed to generate description: overloaded" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestMissingClientsAreNotConfigured(t *testing.T) {
	svc := NewService(nil, nil, 0)
	_, err := svc.GenerateChapter(context.Background(), models.ChapterRequest{BookTitle: "B", ChapterTitle: "C"})
	if !errors.Is(err, ErrNotConfigured) || !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("chapter err = %v", err)
	}
	_, err = svc.GenerateCover(context.Background(), models.CoverRequest{Title: "T"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("cover err = %v", err)
	}
}

func TestGenerateChapterCleansOutput(t *testing.T) {
	text := &fakeText{reply: "<p>It's a <em>quiet</em> night.</p>\n\n\n\nTom & Jerry ran."}
	draft, err := NewService(text, nil, 0).GenerateChapter(context.Background(),
		models.ChapterRequest{BookTitle: "B", ChapterTitle: "One", PreviousContent: "earlier"})
	if err != nil {
		t.Fatalf("GenerateChapter: %v", err)
	}
	if draft.Content != "It's a quiet night.\n\nTom & Jerry ran." {
		t.Errorf("Content = %q", draft.Content)
	}
	if draft.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", draft.WordCount)
	}
	if !strings.Contains(text.prompts[0], "about 2500 words") {
		t.Errorf("default target words missing from prompt")
	}
}

func TestGenerateKeywords(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "json array capped at seven",
			reply: `["dragons","Dragons","epic fantasy","magic","quest","kingdom","war","heroes","prophecy"]`,
			want:  []string{"dragons", "epic fantasy", "magic", "quest", "kingdom", "war", "heroes"},
		},
		{
			name:  "plain list",
			reply: "1. cozy mystery\n2. small town, amateur sleuth\n- cats",
			want:  []string{"cozy mystery", "small town", "amateur sleuth", "cats"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewService(&fakeText{reply: tt.reply}, nil, 0).
				GenerateKeywords(context.Background(), models.KeywordsRequest{Title: "T"})
			if err != nil {
				t.Fatalf("GenerateKeywords: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("keywords = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateCover(t *testing.T) {
	img := &fakeImage{url: "https://img.example.com/1.webp"}
	cover, err := NewService(nil, img, 0).GenerateCover(context.Background(),
		models.CoverRequest{BookID: "b1", Title: "Night Train", Genre: "thriller", ColorScheme: "noir"})
	if err != nil {
		t.Fatalf("GenerateCover: %v", err)
	}
	if cover.BookID != "b1" || cover.ImageURL != img.url || cover.Style != "professional" || cover.IsSelected {
		t.Errorf("cover = %+v", cover)
	}
	if !strings.Contains(img.prompt, `"Night Train"`) || !strings.Contains(img.prompt, "noir color palette") {
		t.Errorf("prompt = %q", img.prompt)
	}

	_, err = NewService(nil, &fakeImage{err: errors.New("queue full")}, 0).
		GenerateCover(context.Background(), models.CoverRequest{Title: "T"})
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to generate cover: ") {
		t.Errorf("err = %v", err)
	}
}

func TestSummarizeDocumentTruncatesInput(t *testing.T) {
	text := &fakeText{reply: "A summary."}
	long := strings.Repeat("x", maxSummaryInput+500)
	got, err := NewService(text, nil, 0).SummarizeDocument(context.Background(), long)
	if err != nil || got != "A summary." {
		t.Fatalf("SummarizeDocument = %q, %v", got, err)
	}
	if strings.Count(text.prompts[0], "x") > maxSummaryInput {
		t.Errorf("summary prompt was not truncated")
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	svc := NewService(&fakeText{reply: "ok"}, nil, 0.001)
	ctx := context.Background()
	if _, err := svc.GenerateDescription(ctx, models.DescriptionRequest{Title: "T"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.GenerateDescription(cancelled, models.DescriptionRequest{Title: "T"}); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("limited call with cancelled context: err = %v", err)
	}
}

func TestLookupTables(t *testing.T) {
	if p := lookupLength("Short Story"); p.Chapters != 3 {
		t.Errorf("short story = %+v", p)
	}
	if p := lookupLength("saga"); p != lengthProfiles["novel"] {
		t.Errorf("unknown length = %+v, want novel profile", p)
	}
	if g := lookupGenre("Science Fiction"); g != genreGuidance["science-fiction"] {
		t.Errorf("genre lookup = %q", g)
	}
	if s := lookupStyle("unknown"); s == "" {
		t.Errorf("style fallback is empty")
	}
}
