package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/config"
	"github.com/matheuskafuri/thinkscope/internal/store"
	"github.com/mmcdole/gofeed"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]store.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	// MaxAge drops items published earlier than now minus MaxAge. Zero keeps all.
	MaxAge time.Duration
	now    func() time.Time
}

func NewRSSFetcher(maxAge time.Duration) *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), MaxAge: maxAge, now: time.Now}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]store.Article, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}
	return f.articles(source, feed.Items), nil
}

func (f *RSSFetcher) articles(source config.Source, items []*gofeed.Item) []store.Article {
	now := f.now()
	articles := make([]store.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(html.UnescapeString(item.Title))
		if title == "" {
			continue
		}

		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		if f.MaxAge > 0 && pub.Before(now.Add(-f.MaxAge)) {
			continue
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}
		body = stripHTML(body)

		cat := source.Category
		if cat == "" {
			cat = category.Classify(title, body, category.Default)
		}

		key := item.Link
		if key == "" {
			key = item.GUID
		}
		if key == "" {
			key = source.Name + "\x00" + title
		}

		articles = append(articles, store.Article{
			ID:        articleID(key),
			Title:     title,
			Content:   body,
			Category:  cat,
			AuthorID:  source.Name,
			Link:      item.Link,
			Published: true,
			CreatedAt: pub.UTC(),
		})
	}
	return articles
}

func articleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

type FetchResult struct {
	Articles []store.Article
	Errors   []error
}

// FetchAll fetches every source concurrently. A failing source is recorded in
// Errors and does not affect the others.
func FetchAll(ctx context.Context, fetcher Fetcher, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			articles, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Articles = append(result.Articles, articles...)
		}(src)
	}

	wg.Wait()
	return result
}
