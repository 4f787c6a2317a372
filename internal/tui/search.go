package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/search"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

// highlightWith renders text in base, with the parts matching query marked.
func highlightWith(base lipgloss.Style, text, query string) string {
	var b strings.Builder
	for _, s := range search.Highlight(text, query) {
		if s.Match {
			b.WriteString(highlightStyle.Inherit(base).Render(s.Text))
		} else {
			b.WriteString(base.Render(s.Text))
		}
	}
	return b.String()
}

func renderDropdown(suggestions []store.Article, query string, cursor int, width int, loading bool) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var lines []string
	switch {
	case len(suggestions) == 0 && loading:
		lines = append(lines, helpDimStyle.Render("Searching..."))
	case len(suggestions) == 0:
		lines = append(lines, helpDimStyle.Render("No matching titles"))
	default:
		for i, a := range suggestions {
			title := truncateStr(a.Title, inner-2)
			if i == cursor {
				lines = append(lines, itemSelectedStyle.Render("> ")+highlightWith(itemSelectedStyle, title, query))
			} else {
				lines = append(lines, "  "+highlightWith(previewBodyStyle, title, query))
			}
		}
	}
	return dropdownStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func debounceCmd(d time.Duration, gen uint64, query string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen, query: query}
	})
}

func suggestCmd(svc *reader.Service, gen uint64, query string) tea.Cmd {
	return func() tea.Msg {
		articles, err := svc.Suggest(query)
		return suggestionsMsg{gen: gen, query: query, articles: articles, err: err}
	}
}

func searchCmd(svc *reader.Service, gen uint64, query, cat string) tea.Cmd {
	return func() tea.Msg {
		articles, err := svc.Search(query, cat)
		return resultsMsg{gen: gen, query: query, articles: articles, err: err}
	}
}

// queryChanged starts a new suggestion generation for the input's current
// value. Any debounce or fetch still in flight becomes stale.
func (a *App) queryChanged() tea.Cmd {
	q := a.searchInput.Value()
	gen := a.suggestGen.Next()
	a.suggestCursor = -1
	if strings.TrimSpace(q) == "" {
		a.suggestions = nil
		a.suggesting = false
		return nil
	}
	a.suggesting = true
	return debounceCmd(a.debounce, gen, q)
}

func (a *App) handleDebounce(msg debounceMsg) tea.Cmd {
	if !a.suggestGen.Current(msg.gen) {
		return nil
	}
	return suggestCmd(a.svc, msg.gen, msg.query)
}

func (a *App) handleSuggestions(msg suggestionsMsg) {
	if !a.suggestGen.Current(msg.gen) {
		a.logger.Debug("dropping stale suggestions", "query", msg.query)
		return
	}
	a.suggesting = false
	if msg.err != nil {
		a.suggestions = nil
		return
	}
	a.suggestions = msg.articles
	if a.suggestCursor >= len(a.suggestions) {
		a.suggestCursor = -1
	}
}

// submitSearch closes the dropdown and runs the full search.
func (a *App) submitSearch() tea.Cmd {
	a.suggestGen.Invalidate()
	a.suggestions = nil
	a.suggesting = false
	a.suggestCursor = -1

	q := strings.TrimSpace(a.searchInput.Value())
	if q == "" {
		return nil
	}
	a.searchInput.Blur()
	a.mode = modeResults
	a.resultsQuery = q
	a.resultsCursor = 0
	a.previewScroll = 0
	a.searching = true
	return tea.Batch(searchCmd(a.svc, a.resultsGen.Next(), q, a.categoryBar.activeCategory()), a.spinner.Tick)
}

func (a *App) handleResults(msg resultsMsg) {
	if !a.resultsGen.Current(msg.gen) {
		return
	}
	a.searching = false
	if msg.err != nil {
		a.err = msg.err
		a.results = nil
		return
	}
	a.results = msg.articles
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.suggestGen.Invalidate()
		a.suggestions = nil
		a.suggesting = false
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.mode = modeFeed
		return a, nil
	case "down", "ctrl+n":
		if a.suggestCursor < len(a.suggestions)-1 {
			a.suggestCursor++
		}
		return a, nil
	case "up", "ctrl+p":
		if a.suggestCursor >= 0 {
			a.suggestCursor--
		}
		return a, nil
	case "enter":
		if a.suggestCursor >= 0 && a.suggestCursor < len(a.suggestions) {
			id := a.suggestions[a.suggestCursor].ID
			a.suggestGen.Invalidate()
			a.suggestions = nil
			a.suggestCursor = -1
			a.searchInput.Blur()
			return a, a.openArticle(id, modeFeed)
		}
		return a, a.submitSearch()
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-query on actual value changes, not cursor moves etc.
	if a.searchInput.Value() != before {
		return a, tea.Batch(cmd, a.queryChanged())
	}
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "esc":
		a.mode = modeFeed
		a.searchInput.SetValue("")
		a.results = nil
		a.resultsGen.Invalidate()
		return a, nil
	case "j", "down":
		if a.resultsCursor < len(a.results)-1 {
			a.resultsCursor++
			a.previewScroll = 0
		}
		return a, nil
	case "k", "up":
		if a.resultsCursor > 0 {
			a.resultsCursor--
			a.previewScroll = 0
		}
		return a, nil
	case "enter", "o":
		if a.resultsCursor < len(a.results) {
			return a, a.openArticle(a.results[a.resultsCursor].ID, modeResults)
		}
		return a, nil
	case "s":
		if a.resultsCursor < len(a.results) {
			return a, a.toggleSave(a.results[a.resultsCursor].ID)
		}
		return a, nil
	case "f":
		a.openFilter(modeResults)
		return a, nil
	case "/":
		return a, a.startSearch()
	}
	return a, nil
}

// rerunSearch repeats the current results query in the active category.
// Responses for the previous category become stale.
func (a *App) rerunSearch() tea.Cmd {
	a.mode = modeResults
	a.resultsCursor = 0
	a.previewScroll = 0
	a.searching = true
	return tea.Batch(searchCmd(a.svc, a.resultsGen.Next(), a.resultsQuery, a.categoryBar.activeCategory()), a.spinner.Tick)
}

func (a *App) startSearch() tea.Cmd {
	a.mode = modeSearch
	a.suggestCursor = -1
	a.searchInput.Focus()
	return tea.Batch(textinput.Blink, a.queryChanged())
}
