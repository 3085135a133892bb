package generation

import (
	"fmt"
	"strings"

	"github.com/coreybb/quill/models"
)

// lengthProfile maps a target length to an approximate manuscript size.
type lengthProfile struct {
	Words    int
	Chapters int
}

const (
	defaultLength       = "novel"
	defaultChapterWords = 2500
	maxKeywords         = 7
	maxSummaryInput     = 12000 // runes of manuscript text sent for summarization
)

var lengthProfiles = map[string]lengthProfile{
	"short-story": {Words: 7500, Chapters: 3},
	"novelette":   {Words: 15000, Chapters: 6},
	"novella":     {Words: 30000, Chapters: 10},
	"novel":       {Words: 80000, Chapters: 24},
	"epic":        {Words: 150000, Chapters: 40},
}

var genreGuidance = map[string]string{
	"fantasy":         "Build a coherent magic system and a vivid secondary world; let wonder and cost go together.",
	"science-fiction": "Ground speculative ideas in plausible science and follow their social consequences.",
	"mystery":         "Plant fair clues early, keep suspects credible and pay off the solution logically.",
	"thriller":        "Keep stakes escalating, chapters short and end scenes on tension.",
	"romance":         "Center the emotional arc of the couple and deliver a satisfying resolution.",
	"horror":          "Build dread through atmosphere and restraint before revealing the threat.",
	"historical":      "Keep period detail accurate and let the era shape the characters' choices.",
	"literary":        "Prioritize interiority, theme and precise prose over plot mechanics.",
	"young-adult":     "Write a teen protagonist with an authentic voice facing identity-defining choices.",
	"non-fiction":     "Organize material into clear, progressive sections with concrete examples.",
	"self-help":       "Give actionable steps, relatable examples and a motivating, direct tone.",
	"biography":       "Follow the subject's life chronologically and anchor claims in specific events.",
}

var styleGuidance = map[string]string{
	"descriptive":    "Use rich sensory description and deliberate pacing.",
	"conversational": "Write in a warm, informal voice that speaks directly to the reader.",
	"academic":       "Use a formal register, precise terminology and structured argument.",
	"minimalist":     "Use short sentences, sparse description and subtext.",
	"lyrical":        "Favor rhythm, imagery and figurative language.",
	"humorous":       "Keep a light touch with wit and comic timing.",
	"dark":           "Keep the tone somber and morally complex.",
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func lookupLength(targetLength string) lengthProfile {
	if p, ok := lengthProfiles[normalizeKey(targetLength)]; ok {
		return p
	}
	return lengthProfiles[defaultLength]
}

func lookupGenre(genre string) string {
	if g, ok := genreGuidance[normalizeKey(genre)]; ok {
		return g
	}
	return "Honor the conventions readers expect from this genre."
}

func lookupStyle(style string) string {
	if s, ok := styleGuidance[normalizeKey(style)]; ok {
		return s
	}
	return "Write in clear, engaging prose."
}

const (
	systemAuthor = "You are an experienced book author and developmental editor helping a writer " +
		"draft a book for self-publishing on Amazon KDP. Respond with plain text only; never use HTML."
	systemJSON = systemAuthor + " When asked for JSON, respond with a single JSON value and nothing else."
)

func outlinePrompt(req models.OutlineRequest, chapters int) string {
	profile := lookupLength(req.TargetLength)
	var b strings.Builder
	fmt.Fprintf(&b, "Create a chapter outline for a %s book titled %q.\n", req.Genre, req.Title)
	if req.Description != "" {
		fmt.Fprintf(&b, "Premise: %s\n", req.Description)
	}
	fmt.Fprintf(&b, "Target length: about %d words across %d chapters.\n", profile.Words, chapters)
	fmt.Fprintf(&b, "Genre guidance: %s\n", lookupGenre(req.Genre))
	fmt.Fprintf(&b, "Style guidance: %s\n", lookupStyle(req.WritingStyle))
	b.WriteString(`Respond with JSON of the form {"title": string, "synopsis": string, ` +
		`"chapters": [{"title": string, "summary": string}]}.`)
	return b.String()
}

func chapterPrompt(req models.ChapterRequest, words int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the chapter %q of the book %q.\n", req.ChapterTitle, req.BookTitle)
	if req.Genre != "" {
		fmt.Fprintf(&b, "Genre guidance: %s\n", lookupGenre(req.Genre))
	}
	if req.ChapterSummary != "" {
		fmt.Fprintf(&b, "Chapter summary: %s\n", req.ChapterSummary)
	}
	if req.PreviousContent != "" {
		fmt.Fprintf(&b, "The previous chapter ended:\n%s\n", tailRunes(req.PreviousContent, 2000))
	}
	fmt.Fprintf(&b, "Style guidance: %s\n", lookupStyle(req.WritingStyle))
	fmt.Fprintf(&b, "Aim for about %d words. Separate paragraphs with a blank line. Do not repeat the chapter title.", words)
	return b.String()
}

func descriptionPrompt(req models.DescriptionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a compelling Amazon book description (150-250 words) for %q", req.Title)
	if req.Genre != "" {
		fmt.Fprintf(&b, ", a %s book", req.Genre)
	}
	b.WriteString(".\n")
	if req.Summary != "" {
		fmt.Fprintf(&b, "Book summary: %s\n", req.Summary)
	}
	b.WriteString("Open with a hook, avoid spoilers and end with a call to read.")
	return b.String()
}

func keywordsPrompt(req models.KeywordsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d Amazon KDP search keywords for the book %q", maxKeywords, req.Title)
	if req.Genre != "" {
		fmt.Fprintf(&b, " (%s)", req.Genre)
	}
	b.WriteString(".\n")
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	b.WriteString("Respond with a JSON array of strings.")
	return b.String()
}

func coverPrompt(req models.CoverRequest) string {
	style := req.Style
	if style == "" {
		style = "professional"
	}
	parts := []string{
		fmt.Sprintf("%s book cover art for %q", style, req.Title),
	}
	if req.Genre != "" {
		parts = append(parts, req.Genre+" genre")
	}
	if req.ColorScheme != "" {
		parts = append(parts, req.ColorScheme+" color palette")
	}
	parts = append(parts, "portrait orientation, high detail, no text, no lettering")
	return strings.Join(parts, ", ")
}

func summaryPrompt(text string) string {
	return "Summarize the following manuscript in one paragraph of at most 120 words, " +
		"covering premise, main characters and central conflict.\n\n" + headRunes(text, maxSummaryInput)
}

func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
