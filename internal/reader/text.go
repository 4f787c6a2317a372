package reader

import (
	"strings"
	"unicode/utf8"
)

const (
	FeedPreviewLength   = 150
	SearchPreviewLength = 200

	noContent = "No content available"
)

// Preview cuts content to n runes and marks the cut with "...".
func Preview(content string, n int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return noContent
	}
	if n <= 0 || utf8.RuneCountInString(content) <= n {
		return content
	}
	runes := []rune(content)
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}

// ReadingMinutes estimates reading time at a thousand characters a minute.
func ReadingMinutes(content string) int {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return 0
	}
	return (n + 999) / 1000
}
