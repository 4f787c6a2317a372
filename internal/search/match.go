// Package search ranks articles against a title query.
//
// Matching is a case-insensitive substring test on the title alone. Results are
// ordered with prefix matches first, then by a mode-specific tie-break: newest
// first for the results page, alphabetical for the suggestion dropdown.
package search

import (
	"slices"
	"strings"

	"github.com/matheuskafuri/thinkscope/internal/store"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SuggestionLimit caps the number of suggestions returned in Lexical mode.
const SuggestionLimit = 8

// Mode selects the tie-break applied inside each prefix tier.
type Mode int

const (
	// Recency orders by CreatedAt descending and returns every match.
	Recency Mode = iota
	// Lexical orders by title ascending and truncates to SuggestionLimit.
	Lexical
)

func (m Mode) String() string {
	switch m {
	case Recency:
		return "recency"
	case Lexical:
		return "lexical"
	default:
		return "unknown"
	}
}

// Normalize trims and lower-cases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Results ranks candidates for the full results page.
func Results(query string, candidates []store.Article) []store.Article {
	return Match(query, candidates, Recency)
}

// Suggest ranks candidates for the live suggestion dropdown.
func Suggest(query string, candidates []store.Article) []store.Article {
	return Match(query, candidates, Lexical)
}

type ranked struct {
	article store.Article
	prefix  bool
}

// Match filters candidates to titles containing query and orders them.
// The candidates slice is never modified.
func Match(query string, candidates []store.Article, mode Mode) []store.Article {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	var hits []ranked
	for _, a := range candidates {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		title := strings.ToLower(a.Title)
		if !strings.Contains(title, q) {
			continue
		}
		hits = append(hits, ranked{article: a, prefix: strings.HasPrefix(title, q)})
	}
	if len(hits) == 0 {
		return nil
	}

	// collate.Collator keeps internal buffers, so each call gets its own.
	col := collate.New(language.English)
	byTitle := func(a, b store.Article) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}

	slices.SortFunc(hits, func(a, b ranked) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		if mode == Recency {
			if c := b.article.CreatedAt.Compare(a.article.CreatedAt); c != 0 {
				return c
			}
		}
		return byTitle(a.article, b.article)
	})

	if mode == Lexical && len(hits) > SuggestionLimit {
		hits = hits[:SuggestionLimit]
	}

	out := make([]store.Article, len(hits))
	for i, h := range hits {
		out[i] = h.article
	}
	return out
}
