package store

import "time"

type Article struct {
	ID       string
	Title    string
	Content  string
	Category string
	AuthorID string
	// Link points at the original post for imported articles.
	Link      string
	Published bool
	CreatedAt time.Time
}

type User struct {
	ID                 string
	Name               string
	CategoriesSelected bool
	CreatedAt          time.Time
}

// SavedArticle is a bookmark joined with the article it points at.
type SavedArticle struct {
	ID      string
	SavedAt time.Time
	Article Article
}

type QueryOpts struct {
	Category   string
	Categories []string
	Search     string
	// SearchContent widens Search to the article body as well as the title.
	SearchContent bool
	Limit         int
}
