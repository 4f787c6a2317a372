package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheuskafuri/thinkscope/internal/config"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

type ImportResult struct {
	Imported int
	Errors   []error
}

// Import fetches sources and upserts the items into st. Source failures are
// logged and returned; the articles from the other sources are still stored.
func Import(ctx context.Context, st *store.Store, fetcher Fetcher, sources []config.Source, logger *slog.Logger) (ImportResult, error) {
	res := FetchAll(ctx, fetcher, sources)
	for _, err := range res.Errors {
		logger.Warn("source failed", "err", err)
	}

	if len(res.Articles) > 0 {
		if err := st.UpsertArticles(res.Articles); err != nil {
			return ImportResult{Errors: res.Errors}, fmt.Errorf("storing imported articles: %w", err)
		}
	}
	if err := st.SetLastImport(time.Now()); err != nil {
		return ImportResult{Imported: len(res.Articles), Errors: res.Errors}, err
	}

	logger.Info("import finished", "sources", len(sources), "articles", len(res.Articles), "failed", len(res.Errors))
	return ImportResult{Imported: len(res.Articles), Errors: res.Errors}, nil
}
