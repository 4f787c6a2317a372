package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

// renderPreview shows an excerpt of article. previewLen <= 0 shows the full text.
func renderPreview(article *store.Article, saved bool, previewLen, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := article.Title
	if saved {
		title = savedMarkStyle.Render("★ ") + title
	}
	titleLine := previewTitleStyle.Width(contentWidth).Render(title)
	meta := previewMetaStyle.Render(
		fmt.Sprintf("%s · %s · %d min read",
			article.Category,
			article.CreatedAt.Local().Format("Jan 2, 2006"),
			reader.ReadingMinutes(article.Content)),
	)

	text := article.Content
	if previewLen > 0 {
		text = reader.Preview(text, previewLen)
	} else if strings.TrimSpace(text) == "" {
		text = reader.Preview(text, 0)
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(text, contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, meta, "", body)
	return clip(content, height, scroll)
}

// clip scrolls content by scroll lines and pads or cuts it to height.
func clip(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
