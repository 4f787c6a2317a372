package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/thinkscope/internal/theme"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
	if cfg.Profile != "" {
		t.Errorf("expected guest profile by default, got %q", cfg.Profile)
	}
}

func TestDefaultsMatchBuiltins(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	empty := &Config{}

	if cfg.GetFeedLimit() != empty.GetFeedLimit() {
		t.Errorf("feed_limit %d, builtin %d", cfg.GetFeedLimit(), empty.GetFeedLimit())
	}
	if cfg.SuggestionFetchLimit() != empty.SuggestionFetchLimit() {
		t.Errorf("suggestion_fetch_limit %d, builtin %d", cfg.SuggestionFetchLimit(), empty.SuggestionFetchLimit())
	}
	if cfg.DebounceDuration() != empty.DebounceDuration() {
		t.Errorf("debounce %v, builtin %v", cfg.DebounceDuration(), empty.DebounceDuration())
	}
	if cfg.FeedPreviewLength() != 150 || cfg.SearchPreviewLength() != 200 {
		t.Errorf("preview lengths %d/%d, want 150/200", cfg.FeedPreviewLength(), cfg.SearchPreviewLength())
	}
}

func TestDebounceDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"", 150 * time.Millisecond},
		{"300ms", 300 * time.Millisecond},
		{"invalid", 150 * time.Millisecond},
		{"-1s", 150 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := &Config{Search: SearchConfig{Debounce: tt.input}}
		if got := cfg.DebounceDuration(); got != tt.want {
			t.Errorf("DebounceDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestImportWindowDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"7d", 7},
		{"720h", 30},
		{"", 30},
		{"invalid", 30},
	}
	for _, tt := range tests {
		cfg := &Config{ImportWindow: tt.input}
		got := cfg.ImportWindowDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("ImportWindowDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{" 30d ", 30 * 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"30x", 0, true},
		{"30dd", 0, true},
		{"-3d", 0, true},
		{"-1h", 0, true},
		{"d", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestThemePreference(t *testing.T) {
	tests := []struct {
		input string
		want  theme.Preference
	}{
		{"", theme.System},
		{"dark", theme.Dark},
		{"Light", theme.Light},
		{"sepia", theme.System},
	}
	for _, tt := range tests {
		cfg := &Config{Theme: tt.input}
		if got := cfg.ThemePreference(); got != tt.want {
			t.Errorf("ThemePreference(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{}
	if got := cfg.DatabasePath(); !strings.HasSuffix(got, filepath.Join("thinkscope", "thinkscope.db")) {
		t.Errorf("unexpected default database path %s", got)
	}
	cfg.Database = "/tmp/custom.db"
	if got := cfg.DatabasePath(); got != "/tmp/custom.db" {
		t.Errorf("expected override, got %s", got)
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(enabled))
	}
	if enabled[0].Name != "A" || enabled[1].Name != "C" {
		t.Errorf("unexpected enabled sources: %v", enabled)
	}
	names := cfg.SourceNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "C" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `profile: ana
theme: dark
feed_limit: 25
search:
  debounce: 200ms
sources:
  - name: Test
    type: rss
    url: https://example.com/feed
    category: Travel
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "ana" {
		t.Errorf("expected profile ana, got %q", cfg.Profile)
	}
	if cfg.ThemePreference() != theme.Dark {
		t.Errorf("expected dark theme, got %q", cfg.ThemePreference())
	}
	if cfg.GetFeedLimit() != 25 {
		t.Errorf("expected feed limit 25, got %d", cfg.GetFeedLimit())
	}
	if cfg.DebounceDuration() != 200*time.Millisecond {
		t.Errorf("expected 200ms debounce, got %v", cfg.DebounceDuration())
	}
	// First source should be the user-defined one
	if cfg.Sources[0].Name != "Test" {
		t.Errorf("expected first source name Test, got %s", cfg.Sources[0].Name)
	}
	// Default sources should be merged in
	if len(cfg.Sources) <= 1 {
		t.Errorf("expected default sources to be merged, got %d total", len(cfg.Sources))
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"theme":    "theme: sepia\n",
		"debounce": "search:\n  debounce: soon\n",
		"limit":    "feed_limit: -1\n",
		"window":   "import_window: 30x\n",
		"category": "sources:\n  - name: X\n    type: rss\n    url: https://x.example/feed\n    category: Nonsense\n",
	}
	for name, content := range tests {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := Load(cfgPath); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected default sources when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestMergeDefaultSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "Existing", Type: "rss", URL: "https://example.com/feed", Enabled: true},
			{Name: "Shared", Type: "rss", URL: "https://old.com/feed", Enabled: false},
		},
	}
	defaults := &Config{
		Sources: []Source{
			{Name: "Shared", Type: "atom", URL: "https://new.com/feed", Category: "Tech", Enabled: true},
			{Name: "NewSource", Type: "rss", URL: "https://new-source.com/feed", Enabled: true},
		},
	}
	mergeDefaultSources(cfg, defaults)

	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 sources after merge, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Name != "Existing" {
		t.Errorf("expected first source Existing, got %s", cfg.Sources[0].Name)
	}
	shared := cfg.Sources[1]
	if shared.URL != "https://new.com/feed" || shared.Type != "atom" {
		t.Errorf("expected Shared updated from defaults, got %+v", shared)
	}
	if shared.Category != "Tech" {
		t.Errorf("expected Shared category filled from defaults, got %q", shared.Category)
	}
	if shared.Enabled {
		t.Error("user's Enabled flag should win")
	}
	if cfg.Sources[2].Name != "NewSource" {
		t.Errorf("expected NewSource appended, got %s", cfg.Sources[2].Name)
	}
}

func TestValidateSources(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		wantErr bool
	}{
		{"missing name", Source{Type: "rss", URL: "https://example.com"}, true},
		{"missing url", Source{Name: "Test", Type: "rss"}, true},
		{"invalid type", Source{Name: "Test", Type: "json", URL: "https://example.com"}, true},
		{"file scheme", Source{Name: "Test", Type: "rss", URL: "file:///etc/passwd"}, true},
		{"unknown category", Source{Name: "Test", Type: "rss", URL: "https://example.com", Category: "Cats"}, true},
		{"https", Source{Name: "Test", Type: "rss", URL: "https://example.com/feed"}, false},
		{"http", Source{Name: "Test", Type: "atom", URL: "http://example.com/feed"}, false},
		{"with category", Source{Name: "Test", Type: "rss", URL: "https://example.com/feed", Category: "Travel"}, false},
	}
	for _, tt := range tests {
		err := validate(&Config{Sources: []Source{tt.src}})
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
