package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/thinkscope/internal/browser"
	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/search"
	"github.com/matheuskafuri/thinkscope/internal/store"
	"github.com/matheuskafuri/thinkscope/internal/theme"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeFeed mode = iota
	modeFilter
	modeSearch
	modeResults
	modeArticle
	modeSaved
	modeSettings
	modeHelp
)

type App struct {
	svc     *reader.Service
	theme   *theme.State
	logger  *slog.Logger
	userID  string
	profile string

	debounce      time.Duration
	feedPreview   int
	searchPreview int

	mode   mode
	focus  focusPane
	width  int
	height int

	// Feed
	categoryBar   categoryBar
	articles      []store.Article
	cursor        int
	previewScroll int
	loading       bool

	// Search
	searchInput   textinput.Model
	suggestGen    search.Generation
	suggestions   []store.Article
	suggestCursor int
	suggesting    bool

	resultsGen    search.Generation
	results       []store.Article
	resultsQuery  string
	resultsCursor int
	searching     bool

	// filterFrom is the view the category picker was opened from.
	filterFrom mode

	// Article reader
	article       *store.Article
	articleSaved  bool
	articleScroll int
	returnMode    mode

	// Saved
	saved       []store.SavedArticle
	savedCursor int

	settings settingsModel

	spinner     spinner.Model
	currentDate string
	notice      string
	err         error
	unsubscribe func()
	openURL     func(string) error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Service *reader.Service
	Theme   *theme.State
	Logger  *slog.Logger
	// UserID is empty for a guest.
	UserID  string
	Profile string
	// Onboard opens the category picker first.
	Onboard bool

	Debounce      time.Duration
	FeedPreview   int
	SearchPreview int
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 150 * time.Millisecond
	}
	if opts.FeedPreview <= 0 {
		opts.FeedPreview = reader.FeedPreviewLength
	}
	if opts.SearchPreview <= 0 {
		opts.SearchPreview = reader.SearchPreviewLength
	}

	a := &App{
		svc:           opts.Service,
		theme:         opts.Theme,
		logger:        opts.Logger,
		userID:        opts.UserID,
		profile:       opts.Profile,
		debounce:      opts.Debounce,
		feedPreview:   opts.FeedPreview,
		searchPreview: opts.SearchPreview,
		categoryBar:   newCategoryBar(nil),
		searchInput:   ti,
		spinner:       sp,
		suggestCursor: -1,
		currentDate:   time.Now().Format("Jan 2"),
		openURL:       browser.Open,
	}

	applyTheme(opts.Theme.Resolved())
	a.unsubscribe = opts.Theme.Subscribe(func(t theme.Theme) {
		applyTheme(t)
		a.logger.Debug("theme changed", "theme", t)
	})

	if opts.Onboard {
		a.mode = modeSettings
		a.settings = newSettings(nil, true)
	}
	return a
}

func applyTheme(t theme.Theme) {
	lipgloss.SetHasDarkBackground(t == theme.ThemeDark)
}

func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.loadCategoriesCmd(), a.loadFeedCmd(), a.spinner.Tick)
}

// Close releases the theme subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *App) quit() tea.Cmd {
	a.suggestGen.Invalidate()
	a.resultsGen.Invalidate()
	return tea.Quit
}

// loadFeedCmd captures current query state into the closure to avoid races.
func (a *App) loadFeedCmd() tea.Cmd {
	svc, userID := a.svc, a.userID
	cat := a.categoryBar.activeCategory()
	return func() tea.Msg {
		articles, err := svc.Feed(userID, cat)
		if err != nil {
			return errMsg{err: err}
		}
		return feedLoadedMsg{category: cat, articles: articles}
	}
}

func (a *App) loadCategoriesCmd() tea.Cmd {
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		cats, err := svc.Categories(userID)
		if err != nil {
			return errMsg{err: err}
		}
		return categoriesLoadedMsg{categories: cats}
	}
}

func (a *App) openArticle(id string, from mode) tea.Cmd {
	a.returnMode = from
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		art, err := svc.Article(id)
		if err != nil {
			return errMsg{err: err}
		}
		saved, err := svc.IsSaved(userID, id)
		if err != nil {
			return errMsg{err: err}
		}
		return articleLoadedMsg{article: art, saved: saved}
	}
}

func (a *App) toggleSave(articleID string) tea.Cmd {
	if a.userID == "" {
		a.err = reader.ErrSignInRequired
		return nil
	}
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		saved, err := svc.ToggleSave(userID, articleID)
		if err != nil {
			return errMsg{err: err}
		}
		return saveToggledMsg{articleID: articleID, saved: saved}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.searchInput.Width = msg.Width - 6
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case feedLoadedMsg:
		if msg.category != a.categoryBar.activeCategory() {
			return a, nil
		}
		a.loading = false
		a.articles = msg.articles
		if a.cursor >= len(a.articles) {
			a.cursor = max(0, len(a.articles)-1)
		}
		return a, nil

	case categoriesLoadedMsg:
		before := a.categoryBar.activeCategory()
		a.categoryBar.setCategories(msg.categories)
		if a.categoryBar.activeCategory() != before {
			return a, a.loadFeedCmd()
		}
		return a, nil

	case debounceMsg:
		return a, a.handleDebounce(msg)

	case suggestionsMsg:
		a.handleSuggestions(msg)
		return a, nil

	case resultsMsg:
		a.handleResults(msg)
		return a, nil

	case articleLoadedMsg:
		art := msg.article
		a.article = &art
		a.articleSaved = msg.saved
		a.articleScroll = 0
		a.mode = modeArticle
		return a, nil

	case saveToggledMsg:
		if a.article != nil && a.article.ID == msg.articleID {
			a.articleSaved = msg.saved
		}
		if msg.saved {
			a.notice = "Saved"
		} else {
			a.notice = "Removed from saved"
		}
		return a, nil

	case savedLoadedMsg:
		a.saved = msg.saved
		if a.savedCursor >= len(a.saved) {
			a.savedCursor = max(0, len(a.saved)-1)
		}
		return a, nil

	case userCategoriesMsg:
		a.settings = newSettings(msg.selected, a.settings.onboarding)
		return a, nil

	case settingsSavedMsg:
		a.settings.onboarding = false
		a.settings.dirty = false
		a.mode = modeFeed
		a.notice = "Categories updated"
		a.cursor = 0
		return a, tea.Batch(a.loadCategoriesCmd(), a.loadFeedCmd())

	case linkOpenedMsg:
		a.notice = "Opened in browser"
		return a, nil

	case errMsg:
		a.loading = false
		a.searching = false
		a.err = msg.err
		a.logger.Warn("tui error", "err", msg.err)
		return a, nil

	case spinner.TickMsg:
		if a.loading || a.searching || a.suggesting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, a.quit()
	}

	// Mode-specific handling
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeResults:
		return a.handleResultsKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeArticle:
		return a.handleArticleKey(msg)
	case modeSaved:
		return a.handleSavedKey(msg)
	case modeSettings:
		return a.handleSettingsKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeFeed
		}
		return a, nil
	}

	// Feed mode
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.articles)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if a.cursor < len(a.articles) {
			return a, a.openArticle(a.articles[a.cursor].ID, modeFeed)
		}
		return a, nil
	case "s":
		if a.cursor < len(a.articles) {
			return a, a.toggleSave(a.articles[a.cursor].ID)
		}
		return a, nil
	case "/":
		a.searchInput.SetValue("")
		return a, a.startSearch()
	case "f":
		a.openFilter(modeFeed)
		return a, nil
	case "b":
		if a.userID == "" {
			a.err = reader.ErrSignInRequired
			return a, nil
		}
		a.mode = modeSaved
		a.savedCursor = 0
		a.previewScroll = 0
		return a, a.loadSavedCmd()
	case ",":
		return a, a.openSettings(false)
	case "t":
		if err := a.theme.Set(nextPreference(a.theme.Preference())); err != nil {
			a.err = err
		} else {
			a.notice = fmt.Sprintf("Theme: %s", a.theme.Preference())
		}
		return a, nil
	case "r":
		a.loading = true
		return a, tea.Batch(a.loadFeedCmd(), a.spinner.Tick)
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) openFilter(from mode) {
	a.filterFrom = from
	a.mode = modeFilter
	a.categoryBar.filterMode = true
	a.categoryBar.cursor = a.categoryBar.active
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = a.filterFrom
		a.categoryBar.filterMode = false
		return a, nil
	case "left", "h":
		a.categoryBar.move(-1)
		return a, nil
	case "right", "l":
		a.categoryBar.move(1)
		return a, nil
	case " ", "enter":
		a.categoryBar.selectCursor()
		a.categoryBar.filterMode = false
		a.cursor = 0
		a.previewScroll = 0
		a.loading = true
		if a.filterFrom == modeResults {
			return a, tea.Batch(a.loadFeedCmd(), a.rerunSearch())
		}
		a.mode = modeFeed
		return a, a.loadFeedCmd()
	}
	return a, nil
}

func (a *App) handleArticleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "esc", "backspace":
		a.mode = a.returnMode
		if a.mode == modeSaved {
			return a, a.loadSavedCmd()
		}
		return a, nil
	case "j", "down":
		a.articleScroll++
		return a, nil
	case "k", "up":
		if a.articleScroll > 0 {
			a.articleScroll--
		}
		return a, nil
	case "s":
		if a.article != nil {
			return a, a.toggleSave(a.article.ID)
		}
		return a, nil
	case "o":
		if a.article != nil {
			return a, a.openLink(a.article.Link)
		}
		return a, nil
	}
	return a, nil
}

// openLink opens an imported article's original post in the system browser.
func (a *App) openLink(link string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		if err := open(link); err != nil {
			return errMsg{err: err}
		}
		return linkOpenedMsg{}
	}
}

func (a *App) withBottomBar(content string, left, hints string) string {
	bar := renderStatusBar(left, hints, a.width)
	if a.err != nil {
		bar = errorStyle.Render(" " + a.err.Error())
	} else if a.notice != "" {
		bar = renderStatusBar(" "+a.notice, hints, a.width)
	}
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) header() string {
	headerLeft := headerStyle.Render("thinkscope")
	headerRight := headerDateStyle.Render(profileLabel(a.profile) + " · " + a.currentDate + " ")
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	return headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  thinkscope")
	}

	switch a.mode {
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "", "? close  q quit")
	case modeSettings:
		hints := "space toggle  enter save  t theme  esc back"
		if a.settings.onboarding {
			hints = "space toggle  enter continue  t theme"
		}
		left := " " + countLabel(len(a.settings.chosen()), "category")
		if a.settings.dirty {
			left += " (unsaved)"
		}
		return a.withBottomBar(a.header()+"\n\n"+a.renderSettings(a.height-4), left, hints)
	case modeArticle:
		return a.withBottomBar(a.header()+"\n"+a.renderArticle(), "", "j/k scroll  s save  o original  esc back  q quit")
	}

	// Layout calculations
	headerHeight := 1
	barHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - barHeight - statusHeight - 2 // borders

	if contentHeight < 3 {
		contentHeight = 3
	}

	var bar string
	var list []store.Article
	var cursor, previewLen int
	var query string
	var left, hints string

	pane := a.mode
	if pane == modeFilter {
		pane = a.filterFrom
	}

	switch pane {
	case modeResults, modeSearch:
		bar = a.searchInput.View()
		if a.mode == modeResults {
			bar = searchPromptStyle.Render("results for ") + a.resultsQuery + tabSeparatorStyle.Render(" · ") + a.categoryBar.activeCategory()
		}
		list, cursor, previewLen, query = a.results, a.resultsCursor, a.searchPreview, a.resultsQuery
		left = " " + countLabel(len(a.results), "result")
		if a.searching {
			left = " " + a.spinner.View() + " searching"
		}
		hints = "j/k move  enter read  s save  f category  / edit  esc feed"
		if a.mode == modeFilter {
			bar = a.categoryBar.render(a.width)
			hints = "←/→ move  enter search in category  esc done"
		}
		if a.mode == modeSearch {
			list, query = a.articles, ""
			cursor, previewLen = a.cursor, a.feedPreview
			hints = "↑/↓ pick  enter search  esc cancel"
		}
	case modeSaved:
		bar = searchPromptStyle.Render("saved articles")
		list, cursor, previewLen = savedArticles(a.saved), a.savedCursor, a.feedPreview
		left = " " + countLabel(len(a.saved), "saved article")
		hints = "enter read  x remove  esc feed  q quit"
	default:
		bar = a.categoryBar.render(a.width)
		list, cursor, previewLen = a.articles, a.cursor, a.feedPreview
		left = " " + countLabel(len(a.articles), "article") + " · " + a.categoryBar.activeCategory()
		if a.loading {
			left = " " + a.spinner.View() + left
		}
		hints = "/ search  f category  s save  b saved  , settings  ? help  q quit"
		if a.mode == modeFilter {
			hints = "←/→ move  enter select  esc done"
		}
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap

	innerListW := listWidth - 4 // border + padding
	listContent := renderList(list, cursor, contentHeight, innerListW, query)

	listStyle, previewStyle := listPaneActiveStyle, previewPaneStyle
	if a.focus == focusPreview {
		listStyle, previewStyle = listPaneStyle, previewPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *store.Article
	if cursor < len(list) {
		selected = &list[cursor]
	}
	saved := false
	if a.mode == modeSaved {
		saved = selected != nil
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, saved, previewLen, innerPreviewW, contentHeight, a.previewScroll)
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	if a.mode == modeSearch {
		dropdown := renderDropdown(a.suggestions, a.searchInput.Value(), a.suggestCursor, listWidth+previewWidth/2, a.suggesting)
		if dropdown != "" {
			content = overlayTop(content, dropdown)
		}
	}

	view := lipgloss.JoinVertical(lipgloss.Left, a.header(), bar, content)
	return a.withBottomBar(view, left, hints)
}

// overlayTop draws over's lines on top of base's first lines.
func overlayTop(base, over string) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(over, "\n")
	for i, l := range overLines {
		if i >= len(baseLines) {
			baseLines = append(baseLines, l)
			continue
		}
		baseLines[i] = l
	}
	return strings.Join(baseLines, "\n")
}

func (a *App) renderArticle() string {
	width := a.width - 4
	height := a.height - 3
	body := renderPreview(a.article, a.articleSaved, 0, width, height, a.articleScroll)
	return lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("thinkscope")
	dim := helpDimStyle

	help := title + dim.Render(" · keyboard shortcuts") + "\n\n" +
		dim.Render("Feed") + "\n" +
		"  j/k, ↑/↓     Navigate article list\n" +
		"  tab           Switch focus between list and preview\n" +
		"  enter, o      Read article\n" +
		"  s             Save or unsave article\n" +
		"  o (reading)   Open the original post in a browser\n" +
		"  f             Pick a category\n" +
		"  r             Reload feed\n\n" +
		dim.Render("Search") + "\n" +
		"  /             Search titles\n" +
		"  ↑/↓           Pick a suggestion\n" +
		"  enter         Open suggestion or show all results\n" +
		"  esc           Cancel\n\n" +
		dim.Render("Account") + "\n" +
		"  b             Saved articles\n" +
		"  ,             Settings and categories\n" +
		"  t             Cycle theme (light, dark, system)\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	if opts.Service == nil || opts.Theme == nil {
		return errors.New("tui: service and theme are required")
	}
	app := NewApp(opts)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
