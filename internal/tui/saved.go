package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matheuskafuri/thinkscope/internal/store"
)

func (a *App) loadSavedCmd() tea.Cmd {
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		saved, err := svc.Saved(userID)
		if err != nil {
			return errMsg{err: err}
		}
		return savedLoadedMsg{saved: saved}
	}
}

func (a *App) removeSavedCmd(savedID string) tea.Cmd {
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		if err := svc.RemoveSaved(userID, savedID); err != nil {
			return errMsg{err: err}
		}
		saved, err := svc.Saved(userID)
		if err != nil {
			return errMsg{err: err}
		}
		return savedLoadedMsg{saved: saved}
	}
}

func savedArticles(saved []store.SavedArticle) []store.Article {
	out := make([]store.Article, len(saved))
	for i, s := range saved {
		out[i] = s.Article
	}
	return out
}

func (a *App) handleSavedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "esc", "b":
		a.mode = modeFeed
		return a, nil
	case "j", "down":
		if a.savedCursor < len(a.saved)-1 {
			a.savedCursor++
			a.previewScroll = 0
		}
		return a, nil
	case "k", "up":
		if a.savedCursor > 0 {
			a.savedCursor--
			a.previewScroll = 0
		}
		return a, nil
	case "enter", "o":
		if a.savedCursor < len(a.saved) {
			return a, a.openArticle(a.saved[a.savedCursor].Article.ID, modeSaved)
		}
		return a, nil
	case "x", "d":
		if a.savedCursor < len(a.saved) {
			return a, a.removeSavedCmd(a.saved[a.savedCursor].ID)
		}
		return a, nil
	}
	return a, nil
}
