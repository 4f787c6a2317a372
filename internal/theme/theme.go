// Package theme holds the reader's light/dark preference.
//
// State is passed explicitly to whoever needs it. Readers call Resolved,
// writers call Set, and views that restyle themselves Subscribe and later call
// the returned unsubscribe func.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/matheuskafuri/thinkscope/internal/store"
	"github.com/muesli/termenv"
)

// Preference is what the user asked for.
type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Theme is what actually gets rendered.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const preferenceKey = "theme-preference"

// Persister stores preferences per user.
type Persister interface {
	GetPreference(userID, key string) (string, error)
	SetPreference(userID, key, value string) error
}

// SystemDark asks the terminal whether it has a dark background.
func SystemDark() bool {
	return termenv.HasDarkBackground()
}

func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case Light, Dark, System:
		return p, nil
	case "":
		return System, nil
	default:
		return "", fmt.Errorf("unknown theme %q (valid: light, dark, system)", s)
	}
}

type State struct {
	mu       sync.Mutex
	store    Persister
	userID   string
	pref     Preference
	detect   func() bool
	lastDark bool
	subs     map[int]func(Theme)
	nextID   int
}

// New loads the user's stored preference, falling back to fallback when none
// is stored. detect reports whether the system prefers dark; nil means SystemDark.
func New(p Persister, userID string, fallback Preference, detect func() bool) (*State, error) {
	if detect == nil {
		detect = SystemDark
	}
	if fallback == "" {
		fallback = System
	}
	s := &State{
		store:  p,
		userID: userID,
		pref:   fallback,
		detect: detect,
		subs:   make(map[int]func(Theme)),
	}

	stored, err := p.GetPreference(userID, preferenceKey)
	switch {
	case err == nil:
		pref, perr := ParsePreference(stored)
		if perr == nil {
			s.pref = pref
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, fmt.Errorf("loading theme preference: %w", err)
	}

	s.lastDark = s.detect()
	return s, nil
}

func (s *State) Preference() Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref
}

// Resolved maps the preference to a concrete theme.
func (s *State) Resolved() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvedLocked()
}

func (s *State) resolvedLocked() Theme {
	switch s.pref {
	case Dark:
		return ThemeDark
	case Light:
		return ThemeLight
	default:
		if s.lastDark {
			return ThemeDark
		}
		return ThemeLight
	}
}

// Set persists pref and notifies subscribers if the resolved theme changed.
func (s *State) Set(pref Preference) error {
	if _, err := ParsePreference(string(pref)); err != nil {
		return err
	}
	if err := s.store.SetPreference(s.userID, preferenceKey, string(pref)); err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}

	s.mu.Lock()
	before := s.resolvedLocked()
	s.pref = pref
	after := s.resolvedLocked()
	subs := s.snapshotLocked()
	s.mu.Unlock()

	if before != after {
		notify(subs, after)
	}
	return nil
}

// Refresh re-reads the system preference. Only a System preference can change
// as a result.
func (s *State) Refresh() {
	dark := s.detect()

	s.mu.Lock()
	before := s.resolvedLocked()
	s.lastDark = dark
	after := s.resolvedLocked()
	subs := s.snapshotLocked()
	s.mu.Unlock()

	if before != after {
		notify(subs, after)
	}
}

// Subscribe registers fn for theme changes. Call the returned func to stop.
func (s *State) Subscribe(fn func(Theme)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *State) snapshotLocked() []func(Theme) {
	out := make([]func(Theme), 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(subs []func(Theme), t Theme) {
	for _, fn := range subs {
		fn(t)
	}
}
