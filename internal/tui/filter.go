package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/thinkscope/internal/category"
)

// categoryBar is the row of category tabs above the feed. Exactly one tab is
// active; the first is always category.All.
type categoryBar struct {
	categories []string
	active     int
	filterMode bool
	cursor     int
}

func newCategoryBar(categories []string) categoryBar {
	if len(categories) == 0 || categories[0] != category.All {
		categories = append([]string{category.All}, categories...)
	}
	return categoryBar{categories: categories}
}

// setCategories swaps the tab list, keeping the active tab when it still exists.
func (f *categoryBar) setCategories(categories []string) {
	current := f.activeCategory()
	*f = newCategoryBar(categories)
	for i, c := range f.categories {
		if c == current {
			f.active = i
			f.cursor = i
		}
	}
}

func (f *categoryBar) activeCategory() string {
	if f.active < len(f.categories) {
		return f.categories[f.active]
	}
	return category.All
}

func (f *categoryBar) selectCursor() {
	if f.cursor < len(f.categories) {
		f.active = f.cursor
	}
}

func (f *categoryBar) move(delta int) {
	f.cursor += delta
	if f.cursor < 0 {
		f.cursor = 0
	}
	if f.cursor > len(f.categories)-1 {
		f.cursor = len(f.categories) - 1
	}
}

func (f *categoryBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	// Scroll so the cursor tab stays on screen.
	target := f.active
	if f.filterMode {
		target = f.cursor
	}
	first := target
	for first > 0 && f.widthFrom(first-1, target) <= width-1 {
		first--
	}

	var row string
	for i := first; i < len(f.categories); i++ {
		style := tabInactiveStyle
		if i == f.active {
			style = tabActiveStyle
		}
		label := f.categories[i]
		if f.filterMode && i == f.cursor {
			label = "[" + label + "]"
		}
		candidate := row
		if row != "" {
			candidate += sep
		}
		candidate += style.Render(label)
		if lipgloss.Width(candidate) > width-1 && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

// widthFrom is the rendered width of tabs from..to inclusive.
func (f *categoryBar) widthFrom(from, to int) int {
	w := 0
	for i := from; i <= to && i < len(f.categories); i++ {
		if i > from {
			w += 3
		}
		w += lipgloss.Width(f.categories[i]) + 4
	}
	return w
}
