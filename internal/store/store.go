package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// DefaultLimit caps unbounded article queries.
const DefaultLimit = 1000

var ErrNotFound = errors.New("not found")

// SQLite's LIKE and lower() only fold ASCII, so text search compares through
// unicode_lower instead.
var (
	registerOnce sync.Once
	registerErr  error
)

func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("unicode_lower", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case string:
					return strings.ToLower(v), nil
				case []byte:
					return strings.ToLower(string(v)), nil
				default:
					return v, nil
				}
			})
	})
	return registerErr
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("registering sql functions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	s := &Store{writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	// Opened after init so readers always see the schema.
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	s.readDB = readDB
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT '',
			author_id  TEXT NOT NULL DEFAULT '',
			link       TEXT NOT NULL DEFAULT '',
			published  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);

		CREATE TABLE IF NOT EXISTS users (
			id                  TEXT PRIMARY KEY,
			name                TEXT NOT NULL UNIQUE,
			categories_selected INTEGER NOT NULL DEFAULT 0,
			created_at          DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_categories (
			user_id  TEXT NOT NULL,
			category TEXT NOT NULL,
			PRIMARY KEY (user_id, category)
		);

		CREATE TABLE IF NOT EXISTS saved_articles (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			UNIQUE (user_id, article_id)
		);

		CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT NOT NULL,
			key     TEXT NOT NULL,
			value   TEXT NOT NULL,
			PRIMARY KEY (user_id, key)
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// InsertArticle stores a new article and returns it with ID and CreatedAt filled in.
func (s *Store) InsertArticle(a Article) (Article, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	_, err := s.writeDB.Exec(`
		INSERT INTO articles (id, title, content, category, author_id, link, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Title, a.Content, a.Category, a.AuthorID, a.Link, a.Published, a.CreatedAt)
	if err != nil {
		return Article{}, fmt.Errorf("inserting article: %w", err)
	}
	return a, nil
}

func (s *Store) UpsertArticles(articles []Article) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (id, title, content, category, author_id, link, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			category = excluded.category,
			link = excluded.link,
			published = excluded.published
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.Exec(a.ID, a.Title, a.Content, a.Category, a.AuthorID, a.Link, a.Published, a.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("upserting article %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

const articleColumns = "id, title, content, category, author_id, link, published, created_at"

// GetArticles returns published articles, newest first.
func (s *Store) GetArticles(opts QueryOpts) ([]Article, error) {
	where := []string{"published = 1"}
	var args []interface{}

	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}

	if len(opts.Categories) > 0 {
		placeholders := make([]string, len(opts.Categories))
		for i, c := range opts.Categories {
			placeholders[i] = "?"
			args = append(args, c)
		}
		where = append(where, "category IN ("+strings.Join(placeholders, ",")+")") //nolint:gosec
	}

	if opts.Search != "" {
		term := "%" + escapeLike(strings.ToLower(opts.Search)) + "%"
		if opts.SearchContent {
			where = append(where, `(unicode_lower(title) LIKE ? ESCAPE '\' OR unicode_lower(content) LIKE ? ESCAPE '\')`)
			args = append(args, term, term)
		} else {
			where = append(where, `unicode_lower(title) LIKE ? ESCAPE '\'`)
			args = append(args, term)
		}
	}

	query := "SELECT " + articleColumns + " FROM articles WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle returns a published article by id.
func (s *Store) GetArticle(id string) (Article, error) {
	row := s.readDB.QueryRow("SELECT "+articleColumns+" FROM articles WHERE id = ? AND published = 1", id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return a, err
}

// LatestArticle returns the most recently created published article.
func (s *Store) LatestArticle() (Article, error) {
	row := s.readDB.QueryRow("SELECT " + articleColumns + " FROM articles WHERE published = 1 ORDER BY created_at DESC LIMIT 1")
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, fmt.Errorf("latest article: %w", ErrNotFound)
	}
	return a, err
}

func (s *Store) Stats(dbPath string) (count int, size int64, err error) {
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM articles WHERE published = 1").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("reading db size: %w", err)
	}
	return count, info.Size(), nil
}

// Prune deletes imported articles older than olderThan. Articles someone has
// saved and articles published locally are kept.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := s.writeDB.Exec(`
		DELETE FROM articles
		WHERE link != '' AND created_at < ?
		  AND id NOT IN (SELECT article_id FROM saved_articles)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// LastImport returns when feeds were last imported.
func (s *Store) LastImport() (time.Time, error) {
	v, err := s.getMeta("last_import")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

func (s *Store) SetLastImport(t time.Time) error {
	return s.setMeta("last_import", t.UTC().Format(time.RFC3339))
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(r scanner) (Article, error) {
	var a Article
	if err := r.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.AuthorID, &a.Link, &a.Published, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Article{}, err
		}
		return Article{}, fmt.Errorf("scanning article: %w", err)
	}
	return a, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
