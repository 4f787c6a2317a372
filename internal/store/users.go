package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// EnsureUser returns the local profile with the given name, creating it on first use.
func (s *Store) EnsureUser(name string) (User, error) {
	u, err := s.userByName(name)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	u = User{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	_, err = s.writeDB.Exec(`
		INSERT INTO users (id, name, categories_selected, created_at) VALUES (?, ?, 0, ?)
		ON CONFLICT(name) DO NOTHING
	`, u.ID, u.Name, u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("creating user %q: %w", name, err)
	}
	// Re-read in case another process created the profile first.
	return s.userByName(name)
}

func (s *Store) GetUser(id string) (User, error) {
	return s.scanUser(s.readDB.QueryRow(
		"SELECT id, name, categories_selected, created_at FROM users WHERE id = ?", id))
}

func (s *Store) userByName(name string) (User, error) {
	return s.scanUser(s.writeDB.QueryRow(
		"SELECT id, name, categories_selected, created_at FROM users WHERE name = ?", name))
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.CategoriesSelected, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the user and everything that belongs to them.
func (s *Store) DeleteUser(id string) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM user_categories WHERE user_id = ?",
		"DELETE FROM saved_articles WHERE user_id = ?",
		"DELETE FROM preferences WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("deleting user %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// UserCategories returns the user's preferred categories sorted by name.
func (s *Store) UserCategories(userID string) ([]string, error) {
	rows, err := s.readDB.Query("SELECT category FROM user_categories WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("querying user categories: %w", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(cats)
	return cats, nil
}

// ReplaceUserCategories swaps the user's whole category set in one transaction.
func (s *Store) ReplaceUserCategories(userID string, cats []string) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_categories WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}
	for _, c := range cats {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO user_categories (user_id, category) VALUES (?, ?)", userID, c,
		); err != nil {
			return fmt.Errorf("inserting category %q: %w", c, err)
		}
	}
	return tx.Commit()
}

func (s *Store) MarkCategoriesSelected(userID string) error {
	res, err := s.writeDB.Exec("UPDATE users SET categories_selected = 1 WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

func (s *Store) GetPreference(userID, key string) (string, error) {
	var value string
	err := s.readDB.QueryRow(
		"SELECT value FROM preferences WHERE user_id = ? AND key = ?", userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetPreference(userID, key, value string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO preferences (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value
	`, userID, key, value)
	if err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}
