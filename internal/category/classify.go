package category

import (
	"strings"
	"unicode"
)

var keywords = map[string][]string{
	"Tech": {
		"software", "developer", "programming", "kubernetes", "cloud", "api", "database",
		"linux", "golang", "rust", "javascript", "open source", "startup", "devops",
	},
	"Science": {
		"research", "physics", "chemistry", "biology", "astronomy", "experiment", "study",
		"climate", "space", "nasa", "genome",
	},
	"Finance": {
		"stock", "market", "invest", "investing", "budget", "interest rate", "inflation",
		"crypto", "bank", "retirement",
	},
	"Health": {
		"health", "doctor", "diet", "nutrition", "sleep", "disease", "fitness", "exercise",
	},
	"Travel": {
		"travel", "trip", "flight", "hotel", "destination", "itinerary", "backpacking",
	},
	"Food and Recipe": {
		"recipe", "cooking", "bake", "baking", "kitchen", "ingredient", "dinner", "dessert",
	},
	"Gaming": {
		"game", "gaming", "console", "playstation", "xbox", "nintendo", "esports",
	},
	"Sports": {
		"football", "soccer", "basketball", "tennis", "olympics", "league", "championship",
	},
	"Music": {
		"album", "song", "concert", "guitar", "band", "playlist",
	},
	"Productivity": {
		"productivity", "habit", "focus", "workflow", "time management", "to-do",
	},
	"Marketing": {
		"marketing", "seo", "brand", "campaign", "advertising", "social media",
	},
	"SaaS": {
		"saas", "subscription", "churn", "b2b", "onboarding",
	},
}

// classifyOrder fixes tie-breaking between equally scored categories.
var classifyOrder = []string{
	"Tech", "Science", "Finance", "Health", "Travel", "Food and Recipe",
	"Gaming", "Sports", "Music", "Productivity", "Marketing", "SaaS",
}

// Classify guesses a category from title and body text.
// Title keywords count twice. Returns fallback when nothing matches.
func Classify(title, body, fallback string) string {
	titleTokens := tokenize(title)
	bodyTokens := tokenize(body)
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(body)

	best := ""
	bestScore := 0
	for _, cat := range classifyOrder {
		score := 0
		for _, kw := range keywords[cat] {
			if strings.Contains(kw, " ") {
				if strings.Contains(titleLower, kw) {
					score += 2
				}
				if strings.Contains(bodyLower, kw) {
					score++
				}
				continue
			}
			for _, t := range titleTokens {
				if t == kw {
					score += 2
				}
			}
			for _, t := range bodyTokens {
				if t == kw {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}

	if bestScore == 0 {
		return fallback
	}
	return best
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
