package store

import (
	"errors"
	"testing"
)

func TestSaveAndList(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	if err := db.SaveArticle("u1", "bbb"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveArticle("u1", "aaa"); err != nil {
		t.Fatalf("save: %v", err)
	}

	saved, err := db.ListSaved("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved, got %d", len(saved))
	}
	// Most recently saved first.
	if saved[0].Article.ID != "aaa" {
		t.Errorf("expected aaa first, got %s", saved[0].Article.ID)
	}
	if saved[0].Article.Title != "Go Concurrency Patterns" {
		t.Errorf("expected joined article title, got %q", saved[0].Article.Title)
	}
}

func TestSaveTwiceIsNoop(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	db.SaveArticle("u1", "aaa")
	if err := db.SaveArticle("u1", "aaa"); err != nil {
		t.Fatalf("second save: %v", err)
	}
	saved, _ := db.ListSaved("u1")
	if len(saved) != 1 {
		t.Errorf("expected 1 saved row, got %d", len(saved))
	}
}

func TestSaveUnknownArticleFails(t *testing.T) {
	db := testDB(t)
	if err := db.SaveArticle("u1", "missing"); err == nil {
		t.Error("expected foreign key error for unknown article")
	}
}

func TestIsSavedAndUnsave(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	db.SaveArticle("u1", "aaa")
	ok, err := db.IsSaved("u1", "aaa")
	if err != nil || !ok {
		t.Fatalf("expected saved, got %v (%v)", ok, err)
	}
	if ok, _ := db.IsSaved("u2", "aaa"); ok {
		t.Error("saves must be per user")
	}

	if err := db.UnsaveArticle("u1", "aaa"); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if ok, _ := db.IsSaved("u1", "aaa"); ok {
		t.Error("expected unsaved")
	}
}

func TestRemoveSaved(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	db.SaveArticle("u1", "aaa")
	saved, _ := db.ListSaved("u1")
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved, got %d", len(saved))
	}

	// Another user cannot remove it.
	if err := db.RemoveSaved("u2", saved[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := db.RemoveSaved("u1", saved[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if saved, _ := db.ListSaved("u1"); len(saved) != 0 {
		t.Errorf("expected empty list, got %d", len(saved))
	}
}
