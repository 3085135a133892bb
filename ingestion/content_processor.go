package ingestion

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

// readabilityKeepRatio is the share of the cleaned text Readability must retain
// for its article body to be preferred over the whole document.
const readabilityKeepRatio = 0.8

var placeholderBaseURL, _ = url.Parse("http://localhost/manuscript")

// Holds the results of content processing.
type ProcessedContent struct {
	MainHTML       string // The main body HTML, cleaned.
	MainText       string // Plain text, one paragraph per block element, blank-line separated.
	ExtractedTitle string // The title extracted by the Readability library.
}

// Handles HTML cleaning and text extraction for converted manuscripts.
type ContentProcessor struct {
	htmlPolicy      *bluemonday.Policy
	stripTagsPolicy *bluemonday.Policy
}

func NewContentProcessor() *ContentProcessor {
	return &ContentProcessor{
		htmlPolicy:      bluemonday.UGCPolicy(),
		stripTagsPolicy: bluemonday.StripTagsPolicy(),
	}
}

// Process cleans rawHTML and extracts its text with paragraph breaks preserved.
func (cp *ContentProcessor) Process(rawHTML string) (*ProcessedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, fmt.Errorf("raw HTML content is empty")
	}

	cleanedHTML := cp.htmlPolicy.Sanitize(rawHTML)
	if strings.TrimSpace(cleanedHTML) == "" {
		return nil, fmt.Errorf("HTML content is empty after sanitizing")
	}

	result := &ProcessedContent{MainHTML: cleanedHTML}
	cleanedTextLen := len(strings.TrimSpace(cp.stripTagsPolicy.Sanitize(cleanedHTML)))

	article, err := readability.FromReader(strings.NewReader(cleanedHTML), placeholderBaseURL)
	switch {
	case err != nil:
		log.Printf("WARN (ContentProcessor): Readability extraction failed: %v. Using cleaned HTML.", err)
	case article.Content == "":
		log.Printf("WARN (ContentProcessor): Readability returned empty content. Using cleaned HTML.")
	default:
		result.ExtractedTitle = article.Title
		if float64(len(strings.TrimSpace(article.TextContent))) >= readabilityKeepRatio*float64(cleanedTextLen) {
			result.MainHTML = article.Content
		}
	}

	text, err := blockText(result.MainHTML)
	if err != nil || text == "" {
		if err != nil {
			log.Printf("WARN (ContentProcessor): Block text extraction failed: %v. Stripping tags instead.", err)
		}
		text = strings.TrimSpace(cp.stripTagsPolicy.Sanitize(result.MainHTML))
	}
	result.MainText = text

	if result.MainText == "" {
		return nil, fmt.Errorf("processed content is empty after cleaning and extraction")
	}
	return result, nil
}

// blockText walks the innermost block elements and joins their text with blank lines.
func blockText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var paragraphs []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	return strings.Join(paragraphs, "\n\n"), nil
}
