package search

import (
	"regexp"
	"strings"
)

// Span is a piece of highlighted text.
type Span struct {
	Text  string
	Match bool
}

// Highlight splits text into alternating matched and unmatched spans.
// The query is matched literally and case-insensitively; regexp
// metacharacters in it carry no meaning.
func Highlight(text, query string) []Span {
	q := strings.TrimSpace(query)
	if q == "" || text == "" {
		return []Span{{Text: text}}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
