package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/matheuskafuri/thinkscope/internal/store"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// renderListItem draws one article. A non-empty query is highlighted in the title.
func renderListItem(a store.Article, selected bool, width int, query string) string {
	if width < 10 {
		width = 30
	}

	style, marker := itemTitleStyle, "  "
	if selected {
		style, marker = itemSelectedStyle, "> "
	}
	title := style.Render(marker) + highlightWith(style, truncateStr(a.Title, width-4), query)

	meta := "  " + itemCategoryStyle.Render(a.Category) + " " + itemTimeStyle.Render("· "+relativeTime(a.CreatedAt))

	return title + "\n" + meta
}

// truncateStr cuts s to n terminal cells, so wide runes count double.
func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return runewidth.Truncate(s, n, "")
	}
	return runewidth.Truncate(s, n, "...")
}

func renderList(articles []store.Article, cursor int, height int, width int, query string) string {
	if len(articles) == 0 {
		return lipglossCenter("No articles found", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start, end := window(len(articles), cursor, visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], i == cursor, width, query))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// window returns the [start, end) range of n items that keeps cursor visible.
func window(n, cursor, visible int) (int, int) {
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
