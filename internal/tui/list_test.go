package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrWide(t *testing.T) {
	// Each of these runes takes two cells.
	got := truncateStr("日本語テスト", 7)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 7) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15")
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, visible int
		start, end         int
	}{
		{10, 0, 3, 0, 3},
		{10, 2, 3, 0, 3},
		{10, 5, 3, 3, 6},
		{10, 9, 3, 7, 10},
		{2, 1, 5, 0, 2},
		{0, 0, 3, 0, 0},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.visible)
		if start != tt.start || end != tt.end {
			t.Errorf("window(%d, %d, %d) = [%d,%d), want [%d,%d)", tt.n, tt.cursor, tt.visible, start, end, tt.start, tt.end)
		}
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := renderList(nil, 0, 9, 40, "")
	if !strings.Contains(got, "No articles found") {
		t.Errorf("expected empty placeholder, got %q", got)
	}
}

func TestRenderListKeepsTitleText(t *testing.T) {
	articles := []store.Article{
		{ID: "1", Title: "Learning Go", Category: "Tech", CreatedAt: time.Now()},
	}
	got := renderList(articles, 0, 9, 40, "go")
	if !strings.Contains(got, "Learning") || !strings.Contains(got, "Tech") {
		t.Errorf("expected title and category in %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
	if wrapText("   ", 10) != "" {
		t.Error("blank input should wrap to nothing")
	}
}

func TestClip(t *testing.T) {
	got := clip("a\nb\nc\nd", 2, 1)
	if got != "b\nc" {
		t.Errorf("clip = %q, want %q", got, "b\nc")
	}
	if lines := strings.Count(clip("a", 3, 0), "\n"); lines != 2 {
		t.Errorf("expected padding to 3 lines, got %d newlines", lines)
	}
}

func TestCategoryBar(t *testing.T) {
	bar := newCategoryBar([]string{"Tech", "Travel"})
	if bar.categories[0] != category.All || len(bar.categories) != 3 {
		t.Fatalf("expected All prepended, got %v", bar.categories)
	}
	if bar.activeCategory() != category.All {
		t.Errorf("expected All active, got %s", bar.activeCategory())
	}

	bar.move(5)
	if bar.cursor != 2 {
		t.Errorf("cursor should clamp to 2, got %d", bar.cursor)
	}
	bar.move(-10)
	if bar.cursor != 0 {
		t.Errorf("cursor should clamp to 0, got %d", bar.cursor)
	}

	bar.move(2)
	bar.selectCursor()
	if bar.activeCategory() != "Travel" {
		t.Errorf("expected Travel active, got %s", bar.activeCategory())
	}

	bar.setCategories([]string{category.All, "Music", "Travel"})
	if bar.activeCategory() != "Travel" {
		t.Errorf("active tab should survive a refresh, got %s", bar.activeCategory())
	}

	bar.setCategories([]string{category.All, "Music"})
	if bar.activeCategory() != category.All {
		t.Errorf("removed tab should fall back to All, got %s", bar.activeCategory())
	}
}

func TestCategoryBarRenderFits(t *testing.T) {
	bar := newCategoryBar(category.Labels())
	bar.active = len(bar.categories) - 1
	got := bar.render(60)
	if !strings.Contains(got, bar.categories[bar.active]) {
		t.Errorf("active tab should be scrolled into view: %q", got)
	}
}
