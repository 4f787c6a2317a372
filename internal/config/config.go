package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/theme"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const appName = "thinkscope"

type Source struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Category string `yaml:"category,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

type SearchConfig struct {
	SuggestionFetchLimit int    `yaml:"suggestion_fetch_limit,omitempty"`
	Debounce             string `yaml:"debounce,omitempty"`
}

type PreviewConfig struct {
	Feed   int `yaml:"feed,omitempty"`
	Search int `yaml:"search,omitempty"`
}

type Config struct {
	// Profile is the local account name. Empty means browsing as a guest.
	Profile      string        `yaml:"profile,omitempty"`
	Theme        string        `yaml:"theme,omitempty"`
	Database     string        `yaml:"database,omitempty"`
	FeedLimit    int           `yaml:"feed_limit,omitempty"`
	ImportWindow string        `yaml:"import_window,omitempty"`
	Search       SearchConfig  `yaml:"search"`
	Preview      PreviewConfig `yaml:"preview"`
	Sources      []Source      `yaml:"sources"`
}

func (c *Config) GetFeedLimit() int {
	if c.FeedLimit <= 0 {
		return 50
	}
	return c.FeedLimit
}

func (c *Config) SuggestionFetchLimit() int {
	if c.Search.SuggestionFetchLimit <= 0 {
		return 20
	}
	return c.Search.SuggestionFetchLimit
}

func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil || d <= 0 {
		return 150 * time.Millisecond
	}
	return d
}

func (c *Config) FeedPreviewLength() int {
	if c.Preview.Feed <= 0 {
		return 150
	}
	return c.Preview.Feed
}

func (c *Config) SearchPreviewLength() int {
	if c.Preview.Search <= 0 {
		return 200
	}
	return c.Preview.Search
}

// ImportWindowDuration is how far back feed items are imported.
func (c *Config) ImportWindowDuration() time.Duration {
	d, err := ParseDuration(c.ImportWindow)
	if c.ImportWindow == "" || err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// ParseDuration accepts Go durations plus a day suffix, e.g. "30d".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok && days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// ThemePreference returns the configured theme, System when unset or invalid.
func (c *Config) ThemePreference() theme.Preference {
	p, err := theme.ParsePreference(c.Theme)
	if err != nil {
		return theme.System
	}
	return p
}

func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return DefaultDatabasePath()
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

// LogPath is where the TUI writes its log, since stderr belongs to the screen.
func LogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run. Failing to do so is
			// not fatal; the embedded defaults still apply.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaultSources(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultSources refreshes sources the user shares with the defaults and
// appends defaults the user doesn't have yet. The user's Enabled flag wins.
func mergeDefaultSources(cfg, defaults *Config) {
	index := make(map[string]int, len(cfg.Sources))
	for i, s := range cfg.Sources {
		index[s.Name] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := index[d.Name]; ok {
			cfg.Sources[i].URL = d.URL
			cfg.Sources[i].Type = d.Type
			if cfg.Sources[i].Category == "" {
				cfg.Sources[i].Category = d.Category
			}
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if _, err := theme.ParsePreference(cfg.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if cfg.FeedLimit < 0 {
		return fmt.Errorf("feed_limit must not be negative, got %d", cfg.FeedLimit)
	}
	if cfg.ImportWindow != "" {
		if _, err := ParseDuration(cfg.ImportWindow); err != nil {
			return fmt.Errorf("import_window: %w", err)
		}
	}
	if cfg.Search.Debounce != "" {
		if _, err := time.ParseDuration(cfg.Search.Debounce); err != nil {
			return fmt.Errorf("search.debounce: %w", err)
		}
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
		if s.Category != "" && !category.Valid(s.Category) {
			return fmt.Errorf("source %q: unknown category %q", s.Name, s.Category)
		}
	}
	return nil
}
