package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRatings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ratings.csv", "user_id,book_id,rating\n1,10,4\n2,10,5\n1,11,3\n")

	ratings, err := LoadRatings(path)
	if err != nil {
		t.Fatalf("LoadRatings: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("expected 3 ratings, got %d", len(ratings))
	}
	if ratings[1] != (Rating{UserID: 2, BookID: 10, Rating: 5}) {
		t.Errorf("unexpected row: %+v", ratings[1])
	}
}

func TestLoadRatingsRejectsBadRows(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"out of range low", "user_id,book_id,rating\n1,10,0\n"},
		{"out of range high", "user_id,book_id,rating\n1,10,6\n"},
		{"malformed numeric", "user_id,book_id,rating\n1,ten,4\n"},
		{"empty value", "user_id,book_id,rating\n1,,4\n"},
		{"missing column", "user_id,book_id\n1,10\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "ratings.csv", tc.content)
			if _, err := LoadRatings(path); !errors.Is(err, ErrDataUnavailable) {
				t.Errorf("expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadBooks(filepath.Join(t.TempDir(), "books.csv")); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadBooksIgnoresExtraColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "books.csv",
		"book_id,goodreads_book_id,isbn,title,ratings_count\n1,2767052,439023483,The Hunger Games,4780653\n")

	books, err := LoadBooks(path)
	if err != nil {
		t.Fatalf("LoadBooks: %v", err)
	}
	want := Book{BookID: 1, GoodreadsID: 2767052, Title: "The Hunger Games"}
	if len(books) != 1 || books[0] != want {
		t.Errorf("got %+v, want %+v", books, want)
	}
}

func TestLoadBookTagsParsesCount(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "book_tags.csv", "goodreads_book_id,tag_id,count\n2767052,30574,167697\n")

	assocs, err := LoadBookTags(path)
	if err != nil {
		t.Fatalf("LoadBookTags: %v", err)
	}
	if len(assocs) != 1 || assocs[0].Count != 167697 {
		t.Errorf("unexpected rows: %+v", assocs)
	}
}

func TestLoadAllFour(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "books.csv", "book_id,goodreads_book_id,title\n1,100,A\n2,200,B\n")
	writeFile(t, dir, "tags.csv", "tag_id,tag_name\n7,fantasy\n8,to-read\n")
	writeFile(t, dir, "book_tags.csv", "goodreads_book_id,tag_id,count\n100,7,12\n")
	writeFile(t, dir, "ratings.csv", "user_id,book_id,rating\n1,1,5\n")

	tables, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tables.Books) != 2 || len(tables.Tags) != 2 || len(tables.BookTags) != 1 || len(tables.Ratings) != 1 {
		t.Errorf("unexpected table sizes: %d %d %d %d",
			len(tables.Books), len(tables.Tags), len(tables.BookTags), len(tables.Ratings))
	}
}
