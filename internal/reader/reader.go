// Package reader is the application layer between the views and the store.
// It decides what to fetch for each screen and hands the candidates to the
// search package for ranking.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/search"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

const (
	DefaultFeedLimit            = 50
	DefaultSuggestionFetchLimit = 20
)

var (
	ErrSignInRequired = errors.New("sign in to save articles")
	ErrNoCategories   = errors.New("select at least one category")
	ErrEmptyPost      = errors.New("title and content are required")
)

type Options struct {
	FeedLimit            int
	SuggestionFetchLimit int
	Logger               *slog.Logger
}

type Service struct {
	store  *store.Store
	opts   Options
	logger *slog.Logger
}

func New(st *store.Store, opts Options) *Service {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = DefaultFeedLimit
	}
	if opts.SuggestionFetchLimit <= 0 {
		opts.SuggestionFetchLimit = DefaultSuggestionFetchLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: st, opts: opts, logger: logger}
}

// Feed returns the newest published articles for a category. With category
// All, a signed-in user only sees their preferred categories when they have any.
func (s *Service) Feed(userID, cat string) ([]store.Article, error) {
	q := store.QueryOpts{Limit: s.opts.FeedLimit}

	if category.IsAll(cat) {
		if userID != "" {
			cats, err := s.store.UserCategories(userID)
			if err != nil {
				return nil, fmt.Errorf("loading feed: %w", err)
			}
			q.Categories = cats
		}
	} else {
		name, err := category.Lookup(cat)
		if err != nil {
			return nil, err
		}
		q.Category = name
	}

	articles, err := s.store.GetArticles(q)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	return articles, nil
}

// Suggest returns at most search.SuggestionLimit titles for the live dropdown.
// A blank query never touches the store.
func (s *Service) Suggest(query string) ([]store.Article, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	candidates, err := s.store.GetArticles(store.QueryOpts{
		Search:        q,
		SearchContent: true,
		Limit:         s.opts.SuggestionFetchLimit,
	})
	if err != nil {
		s.logger.Error("fetching suggestions", "query", q, "err", err)
		return nil, fmt.Errorf("fetching suggestions: %w", err)
	}
	return search.Suggest(q, candidates), nil
}

// Search returns every published article whose title contains query, prefix
// matches first and newest first within each group.
func (s *Service) Search(query, cat string) ([]store.Article, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	opts := store.QueryOpts{}
	if !category.IsAll(cat) {
		name, err := category.Lookup(cat)
		if err != nil {
			return nil, err
		}
		opts.Category = name
	}

	candidates, err := s.store.GetArticles(opts)
	if err != nil {
		s.logger.Error("searching articles", "query", q, "category", cat, "err", err)
		return nil, fmt.Errorf("searching articles: %w", err)
	}
	s.logger.Debug("search", "query", q, "candidates", len(candidates))
	return search.Results(q, candidates), nil
}

func (s *Service) Latest() (store.Article, error) {
	return s.store.LatestArticle()
}

func (s *Service) Article(id string) (store.Article, error) {
	return s.store.GetArticle(id)
}

// ToggleSave saves the article if it is not saved yet and unsaves it otherwise.
// It reports the new state.
func (s *Service) ToggleSave(userID, articleID string) (bool, error) {
	if userID == "" {
		return false, ErrSignInRequired
	}
	saved, err := s.store.IsSaved(userID, articleID)
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.store.UnsaveArticle(userID, articleID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.store.SaveArticle(userID, articleID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Save(userID, articleID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	return s.store.SaveArticle(userID, articleID)
}

func (s *Service) Unsave(userID, articleID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	return s.store.UnsaveArticle(userID, articleID)
}

func (s *Service) IsSaved(userID, articleID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.store.IsSaved(userID, articleID)
}

func (s *Service) Saved(userID string) ([]store.SavedArticle, error) {
	if userID == "" {
		return nil, ErrSignInRequired
	}
	return s.store.ListSaved(userID)
}

func (s *Service) RemoveSaved(userID, savedID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	return s.store.RemoveSaved(userID, savedID)
}

// Categories returns the category bar for a user: All followed by their
// chosen categories, or every label when they have chosen none.
func (s *Service) Categories(userID string) ([]string, error) {
	if userID != "" {
		cats, err := s.store.UserCategories(userID)
		if err != nil {
			return nil, fmt.Errorf("loading categories: %w", err)
		}
		if len(cats) > 0 {
			return append([]string{category.All}, cats...), nil
		}
	}
	return append([]string{category.All}, category.Labels()...), nil
}

// UserCategories returns the categories the user picked, sorted. Guests have none.
func (s *Service) UserCategories(userID string) ([]string, error) {
	if userID == "" {
		return nil, nil
	}
	return s.store.UserCategories(userID)
}

// SignIn returns the local profile called name, creating it on first use.
func (s *Service) SignIn(name string) (store.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.User{}, ErrSignInRequired
	}
	u, err := s.store.EnsureUser(name)
	if err != nil {
		return store.User{}, fmt.Errorf("signing in as %q: %w", name, err)
	}
	return u, nil
}

// SelectCategories is the onboarding step. At least one category is required.
func (s *Service) SelectCategories(userID string, names []string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	cats, err := category.LookupAll(names)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return ErrNoCategories
	}
	if err := s.store.ReplaceUserCategories(userID, cats); err != nil {
		return err
	}
	return s.store.MarkCategoriesSelected(userID)
}

// UpdateCategories replaces the user's categories from settings. An empty
// list clears them, which brings back every category in the feed.
func (s *Service) UpdateCategories(userID string, names []string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	cats, err := category.LookupAll(names)
	if err != nil {
		return err
	}
	return s.store.ReplaceUserCategories(userID, cats)
}

func (s *Service) DeleteAccount(userID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	if err := s.store.DeleteUser(userID); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user", userID)
	return nil
}

// Publish stores a new published article. An empty category becomes
// category.Default.
func (s *Service) Publish(authorID, title, content, cat string) (store.Article, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return store.Article{}, ErrEmptyPost
	}

	name := category.Default
	if strings.TrimSpace(cat) != "" {
		var err error
		if name, err = category.Lookup(cat); err != nil {
			return store.Article{}, err
		}
	}

	a, err := s.store.InsertArticle(store.Article{
		Title:     title,
		Content:   content,
		Category:  name,
		AuthorID:  authorID,
		Published: true,
	})
	if err != nil {
		return store.Article{}, fmt.Errorf("publishing article: %w", err)
	}
	s.logger.Info("article published", "id", a.ID, "category", a.Category)
	return a, nil
}
