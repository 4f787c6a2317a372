package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/thinkscope/internal/feed"
	"github.com/matheuskafuri/thinkscope/internal/store"
	"github.com/matheuskafuri/thinkscope/internal/theme"
	"github.com/matheuskafuri/thinkscope/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	e, err := openEnv(logger)
	if err != nil {
		return err
	}
	defer e.Close()

	// Import on first run so the reader has something to show.
	if _, err := e.store.LastImport(); flagRefresh || errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "Fetching feeds...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		res, err := feed.Import(ctx, e.store, feed.NewRSSFetcher(e.cfg.ImportWindowDuration()), e.cfg.EnabledSources(), logger)
		cancel()
		for _, ferr := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", ferr)
		}
		if err != nil {
			return fmt.Errorf("importing feeds: %w", err)
		}
	}

	th, err := theme.New(e.store, e.user.ID, e.cfg.ThemePreference(), theme.SystemDark)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	return tui.Run(tui.RunOpts{
		Service:       e.svc,
		Theme:         th,
		Logger:        logger,
		UserID:        e.user.ID,
		Profile:       e.user.Name,
		Onboard:       e.user.ID != "" && !e.user.CategoriesSelected,
		Debounce:      e.cfg.DebounceDuration(),
		FeedPreview:   e.cfg.FeedPreviewLength(),
		SearchPreview: e.cfg.SearchPreviewLength(),
	})
}
