package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveArticle bookmarks an article for the user. Saving twice is a no-op.
func (s *Store) SaveArticle(userID, articleID string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO saved_articles (id, user_id, article_id, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, article_id) DO NOTHING
	`, uuid.New().String(), userID, articleID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving article %s: %w", articleID, err)
	}
	return nil
}

func (s *Store) UnsaveArticle(userID, articleID string) error {
	_, err := s.writeDB.Exec(
		"DELETE FROM saved_articles WHERE user_id = ? AND article_id = ?", userID, articleID)
	if err != nil {
		return fmt.Errorf("unsaving article %s: %w", articleID, err)
	}
	return nil
}

func (s *Store) IsSaved(userID, articleID string) (bool, error) {
	var n int
	err := s.readDB.QueryRow(
		"SELECT COUNT(*) FROM saved_articles WHERE user_id = ? AND article_id = ?", userID, articleID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking saved article: %w", err)
	}
	return n > 0, nil
}

// ListSaved returns the user's bookmarks, most recently saved first.
func (s *Store) ListSaved(userID string) ([]SavedArticle, error) {
	rows, err := s.readDB.Query(`
		SELECT s.id, s.created_at,
			a.id, a.title, a.content, a.category, a.author_id, a.link, a.published, a.created_at
		FROM saved_articles s
		JOIN articles a ON a.id = s.article_id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying saved articles: %w", err)
	}
	defer rows.Close()

	var saved []SavedArticle
	for rows.Next() {
		var sa SavedArticle
		a := &sa.Article
		if err := rows.Scan(&sa.ID, &sa.SavedAt,
			&a.ID, &a.Title, &a.Content, &a.Category, &a.AuthorID, &a.Link, &a.Published, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning saved article: %w", err)
		}
		saved = append(saved, sa)
	}
	return saved, rows.Err()
}

// RemoveSaved deletes one bookmark by its own id. Only the owner's rows match.
func (s *Store) RemoveSaved(userID, savedID string) error {
	res, err := s.writeDB.Exec(
		"DELETE FROM saved_articles WHERE id = ? AND user_id = ?", savedID, userID)
	if err != nil {
		return fmt.Errorf("removing saved article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("saved article %s: %w", savedID, ErrNotFound)
	}
	return nil
}
