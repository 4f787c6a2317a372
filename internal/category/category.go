package category

import (
	"fmt"
	"strings"
)

// All is the pseudo-label that disables category filtering.
const All = "All"

// Default is the category preselected when publishing.
const Default = "Tech"

var labels = []string{
	"Art", "Automotive", "Beauty", "Book and Writing", "Business", "DIY", "Education",
	"Entertainment", "Fashion", "Finance", "Food and Recipe", "Gaming", "Green Living",
	"Health", "History", "Home Décor", "Interior Design", "Internet Services",
	"Love and Relationships", "Marketing", "Mental Health", "Minimalism", "Money-Saving",
	"Music", "Nature", "News and Current Affairs", "Parenting", "Personal", "Personal Development",
	"Photography", "Productivity", "Religion", "Review", "SaaS", "Science",
	"Self-Improvement", "Sports", "Tech", "Travel", "Wellness", "Yoga and Meditation",
}

// Labels returns every category in canonical order. The slice is a copy.
func Labels() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Valid reports whether name is exactly one of the canonical labels.
func Valid(name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

// Lookup resolves name case-insensitively to its canonical label.
func Lookup(name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, l := range labels {
		if strings.EqualFold(l, name) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// LookupAll resolves every name, dropping duplicates while keeping first-seen order.
func LookupAll(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		l, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, nil
}

// IsAll reports whether name selects every category.
func IsAll(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, All)
}
