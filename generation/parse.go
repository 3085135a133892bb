package generation

import (
	"html"
	"regexp"
	"strings"

	"github.com/coreybb/quill/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
)

var (
	strictPolicy  = bluemonday.StrictPolicy()
	listMarker    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	chapterLine   = regexp.MustCompile(`(?i)^\s*(?:chapter\s+)?\d+[.):]\s*(.+?)(?:\s+[-–—:]\s+(.+))?\s*$`)
	codeFence     = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	extraBlankRun = regexp.MustCompile(`\n{3,}`)
)

// cleanText strips any markup from model output and leaves plain text.
func cleanText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(extraBlankRun.ReplaceAllString(s, "\n\n"))
}

// extractJSON finds the outermost JSON value in s, tolerating code fences and
// chatter around it.
func extractJSON(s, openDelim, closeDelim string) (string, bool) {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	start := strings.Index(s, openDelim)
	end := strings.LastIndex(s, closeDelim)
	if start < 0 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	return candidate, gjson.Valid(candidate)
}

// parseOutline reads the JSON outline, falling back to numbered lines.
func parseOutline(raw, fallbackTitle string) models.Outline {
	out := models.Outline{Title: fallbackTitle}
	if doc, ok := extractJSON(raw, "{", "}"); ok {
		res := gjson.Parse(doc)
		if t := cleanText(res.Get("title").String()); t != "" {
			out.Title = t
		}
		out.Synopsis = cleanText(res.Get("synopsis").String())
		res.Get("chapters").ForEach(func(_, ch gjson.Result) bool {
			title := cleanText(ch.Get("title").String())
			if title == "" {
				return true
			}
			out.Chapters = append(out.Chapters, models.OutlineChapter{
				Title:   title,
				Summary: cleanText(ch.Get("summary").String()),
			})
			return true
		})
		if len(out.Chapters) > 0 {
			return out
		}
	}

	for _, line := range strings.Split(cleanText(raw), "\n") {
		m := chapterLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out.Chapters = append(out.Chapters, models.OutlineChapter{
			Title:   strings.TrimSpace(m[1]),
			Summary: strings.TrimSpace(m[2]),
		})
	}
	return out
}

// parseKeywords accepts a JSON array or a comma/line separated list. The result is
// de-duplicated case-insensitively and capped at maxKeywords.
func parseKeywords(raw string) []string {
	var candidates []string
	if doc, ok := extractJSON(raw, "[", "]"); ok {
		for _, v := range gjson.Parse(doc).Array() {
			candidates = append(candidates, v.String())
		}
	} else {
		for _, line := range strings.Split(cleanText(raw), "\n") {
			candidates = append(candidates, strings.Split(line, ",")...)
		}
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, maxKeywords)
	for _, c := range candidates {
		kw := strings.Trim(cleanText(listMarker.ReplaceAllString(c, "")), `"' .`)
		key := strings.ToLower(kw)
		if kw == "" || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, kw)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
