package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheuskafuri/thinkscope/internal/config"
	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

// env is everything a command needs once config and storage are open.
type env struct {
	cfg    *config.Config
	store  *store.Store
	svc    *reader.Service
	logger *slog.Logger
	dbPath string
	// user is the zero User for a guest.
	user store.User
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLogFile opens the TUI log, which cannot share the terminal.
func openLogFile() (*os.File, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	return f, nil
}

func openEnv(logger *slog.Logger) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := cfg.DatabasePath()
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	svc := reader.New(st, reader.Options{
		FeedLimit:            cfg.GetFeedLimit(),
		SuggestionFetchLimit: cfg.SuggestionFetchLimit(),
		Logger:               logger,
	})

	e := &env{cfg: cfg, store: st, svc: svc, logger: logger, dbPath: dbPath}

	profile := cfg.Profile
	if flagProfile != "" {
		profile = flagProfile
	}
	if strings.TrimSpace(profile) != "" {
		u, err := svc.SignIn(profile)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("signing in as %q: %w", profile, err)
		}
		e.user = u
		logger.Debug("signed in", "profile", u.Name, "user", u.ID)
	}
	return e, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing database", "err", err)
	}
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// splitList parses a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
