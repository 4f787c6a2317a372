package tui

import (
	"github.com/matheuskafuri/thinkscope/internal/store"
)

type feedLoadedMsg struct {
	category string
	articles []store.Article
}

type categoriesLoadedMsg struct {
	categories []string
}

// debounceMsg fires once the user has stopped typing. gen identifies the
// keystroke that scheduled it.
type debounceMsg struct {
	gen   uint64
	query string
}

type suggestionsMsg struct {
	gen      uint64
	query    string
	articles []store.Article
	err      error
}

type resultsMsg struct {
	gen      uint64
	query    string
	articles []store.Article
	err      error
}

type articleLoadedMsg struct {
	article store.Article
	saved   bool
}

type saveToggledMsg struct {
	articleID string
	saved     bool
}

type savedLoadedMsg struct {
	saved []store.SavedArticle
}

type userCategoriesMsg struct {
	selected []string
}

type settingsSavedMsg struct{}

type linkOpenedMsg struct{}

type errMsg struct {
	err error
}
