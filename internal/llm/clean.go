package llm

import (
	"regexp"
	"strings"
)

// MaxPromptText bounds the menu text sent to a model.
const MaxPromptText = 15000

var (
	pageLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^page\s*\d+$`),      // "Page 1"
		regexp.MustCompile(`(?i)^p[áa]gina\s*\d+$`), // "Página 1"
		regexp.MustCompile(`^\d+\s*/\s*\d+$`),       // "1/5"
	}
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)

	textArtifacts = strings.NewReplacer(
		"�", "", "\f", "\n", "\r\n", "\n", "\r", "\n",
		"©", "", "™", "", "®", "",
	)
)

// CleanMenuText tidies pasted menu text before it is put in a prompt:
// control artifacts and page markers go, whitespace is collapsed, and the
// result is cut at a paragraph or line boundary when too long.
func CleanMenuText(raw string) string {
	text := textArtifacts.Replace(raw)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if isPageMarker(line) {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.TrimSpace(strings.Join(kept, "\n"))
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return truncateText(text, MaxPromptText)
}

func isPageMarker(line string) bool {
	for _, p := range pageLinePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	if i := strings.LastIndex(cut, "\n\n"); i > max/2 {
		return cut[:i]
	}
	if i := strings.LastIndex(cut, "\n"); i > max/2 {
		return cut[:i]
	}
	return strings.ToValidUTF8(cut, "")
}
