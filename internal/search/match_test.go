package search

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/thinkscope/internal/store"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func article(id, title string, age time.Duration) store.Article {
	return store.Article{ID: id, Title: title, Published: true, CreatedAt: t0.Add(-age)}
}

func titles(articles []store.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return out
}

func scenario() []store.Article {
	return []store.Article{
		article("1", "Go Concurrency", 3*time.Hour),
		article("2", "Learning Go", 2*time.Hour),
		article("3", "Rust Basics", 1*time.Hour),
	}
}

func TestMatchScenarioRecency(t *testing.T) {
	got := Results("go", scenario())
	assert.Equal(t, []string{"Go Concurrency", "Learning Go"}, titles(got))
}

func TestMatchScenarioLexical(t *testing.T) {
	got := Suggest("go", scenario())
	assert.Equal(t, []string{"Go Concurrency", "Learning Go"}, titles(got))
}

func TestLexicalOrderIgnoresTimestamps(t *testing.T) {
	// Alphabetical order is the reverse of recency order here.
	candidates := []store.Article{
		article("1", "Zen of Go", 1*time.Hour),
		article("2", "Advanced Go", 5*time.Hour),
		article("3", "Mastering Go", 3*time.Hour),
	}

	assert.Equal(t, []string{"Advanced Go", "Mastering Go", "Zen of Go"}, titles(Suggest("go", candidates)))
	assert.Equal(t, []string{"Zen of Go", "Mastering Go", "Advanced Go"}, titles(Results("go", candidates)))
}

func TestLexicalOrderIsCaseInsensitive(t *testing.T) {
	candidates := []store.Article{
		article("1", "b go", 0),
		article("2", "A go", 0),
		article("3", "c go", 0),
	}
	assert.Equal(t, []string{"A go", "b go", "c go"}, titles(Suggest("go", candidates)))
}

func TestPrefixPriorityBothModes(t *testing.T) {
	candidates := []store.Article{
		article("old-prefix", "Gophers at Work", 100*time.Hour),
		article("new-infix", "All about Go", 0),
		article("a-infix", "A Go Primer", 1*time.Hour),
	}

	for _, mode := range []Mode{Recency, Lexical} {
		t.Run(mode.String(), func(t *testing.T) {
			got := Match("go", candidates, mode)
			require.Len(t, got, 3)
			assert.Equal(t, "Gophers at Work", got[0].Title)
		})
	}
}

func TestMatchContainmentBothWays(t *testing.T) {
	candidates := []store.Article{
		article("1", "Cooking with GO", 0),
		article("2", "Good Habits", 0),
		article("3", "Nothing here", 0),
		article("4", "ergonomic chairs", 0),
		article("5", "Tips", 0),
	}
	q := "Go"
	got := Results(q, candidates)

	matched := map[string]bool{}
	for _, a := range got {
		matched[a.ID] = true
		assert.Contains(t, strings.ToLower(a.Title), strings.ToLower(q))
	}
	for _, a := range candidates {
		if !matched[a.ID] {
			assert.NotContains(t, strings.ToLower(a.Title), strings.ToLower(q))
		}
	}
	assert.Len(t, got, 3)
}

func TestMatchIsIdempotent(t *testing.T) {
	candidates := scenario()
	first := Results("go", candidates)
	second := Results("go", candidates)
	assert.Equal(t, first, second)
}

func TestMatchDoesNotMutateCandidates(t *testing.T) {
	candidates := []store.Article{
		article("1", "Learning Go", 0),
		article("2", "Go Basics", 0),
	}
	before := make([]store.Article, len(candidates))
	copy(before, candidates)

	Suggest("go", candidates)
	assert.Equal(t, before, candidates)
}

func TestSuggestionTruncation(t *testing.T) {
	var candidates []store.Article
	for i := 0; i < 20; i++ {
		candidates = append(candidates, article(fmt.Sprint(i), fmt.Sprintf("Go tip %02d", i), time.Duration(i)*time.Hour))
	}

	got := Suggest("go", candidates)
	require.Len(t, got, SuggestionLimit)
	assert.Equal(t, "Go tip 00", got[0].Title)
	assert.Equal(t, "Go tip 07", got[7].Title)

	assert.Len(t, Results("go", candidates), 20)
}

func TestEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		assert.Empty(t, Results(q, scenario()), "query %q", q)
		assert.Empty(t, Suggest(q, scenario()), "query %q", q)
	}
}

func TestQueryIsTrimmed(t *testing.T) {
	got := Results("  GO  ", scenario())
	assert.Equal(t, []string{"Go Concurrency", "Learning Go"}, titles(got))
}

func TestBlankTitlesExcluded(t *testing.T) {
	candidates := []store.Article{
		{ID: "blank", Title: ""},
		{ID: "space", Title: "   "},
		article("ok", "Go", 0),
	}
	got := Results("go", candidates)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)

	assert.Empty(t, Results(" ", candidates))
}

func TestNoCandidates(t *testing.T) {
	assert.Empty(t, Results("go", nil))
	assert.Empty(t, Suggest("go", []store.Article{}))
}

func TestTiesAreDeterministic(t *testing.T) {
	candidates := []store.Article{
		article("b", "Go", 0),
		article("a", "Go", 0),
		article("c", "Go", 0),
	}
	got := Results("go", candidates)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})

	reversed := []store.Article{candidates[2], candidates[1], candidates[0]}
	assert.Equal(t, got, Results("go", reversed))
}

func TestRegexpMetacharactersInQuery(t *testing.T) {
	candidates := []store.Article{
		article("1", "C++ Tips", 0),
		article("2", "Why (not) Go?", 0),
		article("3", "Cats", 0),
	}
	assert.Equal(t, []string{"C++ Tips"}, titles(Results("c++", candidates)))
	assert.Equal(t, []string{"Why (not) Go?"}, titles(Results("(not)", candidates)))
	assert.Empty(t, Results(".*", candidates))
}
