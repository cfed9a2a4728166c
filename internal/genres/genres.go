// Package genres restricts the tag vocabulary to a fixed allowlist and
// joins books to their allowlisted genres.
package genres

import (
	"errors"

	"github.com/premalytics/cmsc320-final-project/internal/dataset"
)

// ErrEmptyJoin signals that the join produced zero rows (for example an
// allowlist that matches no tag name). Callers surface it as a warning:
// downstream stages would otherwise silently run on empty tables.
var ErrEmptyJoin = errors.New("genre join produced no rows")

// BookGenre is one (book, genre) association. A book appears once per
// allowlisted genre it carries, and not at all if it carries none.
type BookGenre struct {
	BookID int
	Title  string
	Genre  string
}

// Join inner-joins books -> book_tags on the goodreads id, then -> tags
// on the tag id, keeping only tag names present in the allowlist
// (case-sensitive exact match). Books without any allowlisted tag
// contribute no rows.
func Join(t *dataset.Tables, allowlist []string) ([]BookGenre, error) {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, g := range allowlist {
		allowed[g] = struct{}{}
	}

	// tag_id -> genre name, restricted to the allowlist up front
	tagGenre := make(map[int]string, len(allowlist))
	for _, tag := range t.Tags {
		if _, ok := allowed[tag.Name]; ok {
			tagGenre[tag.TagID] = tag.Name
		}
	}

	byGoodreads := make(map[int]dataset.Book, len(t.Books))
	for _, b := range t.Books {
		byGoodreads[b.GoodreadsID] = b
	}

	var out []BookGenre
	seen := make(map[[2]int]struct{}) // (book_id, tag_id): book_tags may repeat pairs
	for _, bt := range t.BookTags {
		genre, ok := tagGenre[bt.TagID]
		if !ok {
			continue
		}
		book, ok := byGoodreads[bt.GoodreadsID]
		if !ok {
			continue
		}
		key := [2]int{book.BookID, bt.TagID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, BookGenre{BookID: book.BookID, Title: book.Title, Genre: genre})
	}

	if len(out) == 0 {
		return nil, ErrEmptyJoin
	}
	return out, nil
}

// Coverage counts associated books per genre, for the prepare report.
func Coverage(assocs []BookGenre) map[string]int {
	cov := make(map[string]int)
	for _, a := range assocs {
		cov[a.Genre]++
	}
	return cov
}
