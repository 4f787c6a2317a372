package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/theme"
)

// settingsModel is the category picker. During onboarding at least one
// category has to be picked before leaving.
type settingsModel struct {
	labels     []string
	selected   map[string]bool
	cursor     int
	onboarding bool
	dirty      bool
}

func newSettings(selected []string, onboarding bool) settingsModel {
	s := settingsModel{
		labels:     category.Labels(),
		selected:   make(map[string]bool, len(selected)),
		onboarding: onboarding,
	}
	for _, c := range selected {
		s.selected[c] = true
	}
	return s
}

func (s *settingsModel) toggle() {
	if s.cursor >= len(s.labels) {
		return
	}
	l := s.labels[s.cursor]
	if s.selected[l] {
		delete(s.selected, l)
	} else {
		s.selected[l] = true
	}
	s.dirty = true
}

func (s *settingsModel) chosen() []string {
	var out []string
	for _, l := range s.labels {
		if s.selected[l] {
			out = append(out, l)
		}
	}
	return out
}

func nextPreference(p theme.Preference) theme.Preference {
	switch p {
	case theme.Light:
		return theme.Dark
	case theme.Dark:
		return theme.System
	default:
		return theme.Light
	}
}

func (a *App) openSettings(onboarding bool) tea.Cmd {
	a.mode = modeSettings
	a.settings = newSettings(nil, onboarding)
	if a.userID == "" {
		return nil
	}
	svc, userID := a.svc, a.userID
	return func() tea.Msg {
		cats, err := svc.UserCategories(userID)
		if err != nil {
			return errMsg{err: err}
		}
		return userCategoriesMsg{selected: cats}
	}
}

func (a *App) saveSettings() tea.Cmd {
	if a.userID == "" {
		a.err = reader.ErrSignInRequired
		return nil
	}
	chosen := a.settings.chosen()
	if a.settings.onboarding && len(chosen) == 0 {
		a.err = reader.ErrNoCategories
		return nil
	}
	svc, userID, onboarding := a.svc, a.userID, a.settings.onboarding
	return func() tea.Msg {
		var err error
		if onboarding {
			err = svc.SelectCategories(userID, chosen)
		} else {
			err = svc.UpdateCategories(userID, chosen)
		}
		if err != nil {
			return errMsg{err: err}
		}
		return settingsSavedMsg{}
	}
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.settings.onboarding {
			a.err = errors.New("pick at least one category to finish setup")
			return a, nil
		}
		a.mode = modeFeed
		return a, nil
	case "j", "down":
		if a.settings.cursor < len(a.settings.labels)-1 {
			a.settings.cursor++
		}
		return a, nil
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil
	case " ", "x":
		a.settings.toggle()
		return a, nil
	case "enter":
		return a, a.saveSettings()
	case "t":
		if err := a.theme.Set(nextPreference(a.theme.Preference())); err != nil {
			a.err = err
		}
		return a, nil
	}
	return a, nil
}

func (a *App) renderSettings(height int) string {
	var b strings.Builder

	title := "Settings"
	if a.settings.onboarding {
		title = "Welcome! Pick the categories you want in your feed"
	}
	b.WriteString(previewTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(helpDimStyle.Render(fmt.Sprintf("Profile: %s   Theme: %s (%s)",
		profileLabel(a.profile), a.theme.Preference(), a.theme.Resolved())))
	b.WriteString("\n\n")

	listHeight := height - 4
	if listHeight < 1 {
		listHeight = 1
	}
	start, end := window(len(a.settings.labels), a.settings.cursor, listHeight)
	for i := start; i < end; i++ {
		l := a.settings.labels[i]
		box := "[ ]"
		if a.settings.selected[l] {
			box = "[x]"
		}
		line := box + " " + l
		if i == a.settings.cursor {
			line = itemSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}
