// Package features turns raw per-rating rows into the per-user feature
// matrix: join ratings to book genres, pivot one column per genre,
// aggregate by mean and impute missing cells with a sentinel value.
package features

import (
	"errors"
	"fmt"
	"sort"

	"github.com/premalytics/cmsc320-final-project/internal/dataset"
	"github.com/premalytics/cmsc320-final-project/internal/genres"
)

// ErrEmptyJoin signals that no rating matched any (book, genre) row.
var ErrEmptyJoin = errors.New("ratings-to-genres join produced no rows")

// Table is the per-user feature matrix. Rows[i][j] is user Users[i]'s
// mean rating over Genres[j], or the sentinel when the user rated no
// book in that genre. Exactly one row per distinct user id.
type Table struct {
	Users    []int
	Genres   []string
	Rows     [][]float64
	Sentinel float64
}

// Builder carries the configuration of the feature construction.
type Builder struct {
	Genres   []string // column order of the output
	Sentinel float64  // imputation value, outside the valid [1,5] range
}

// Build runs the join -> pivot -> aggregate -> impute pipeline.
//
// A rating for a book tagged with n allowlisted genres fans out into n
// (user, genre, rating) rows, so the rating counts once per genre. All
// values landing on the same (user, genre) cell are combined by
// arithmetic mean at the aggregation step; the sum/count accumulators
// make that rule explicit instead of leaning on pivot ordering.
func (b Builder) Build(ratings []dataset.Rating, assocs []genres.BookGenre) (*Table, error) {
	if len(b.Genres) == 0 {
		return nil, errors.New("no genre columns configured")
	}
	if b.Sentinel >= 1 && b.Sentinel <= 5 {
		return nil, fmt.Errorf("sentinel %g falls inside the valid rating range [1,5]; imputed cells would be indistinguishable from real means", b.Sentinel)
	}

	col := make(map[string]int, len(b.Genres))
	for j, g := range b.Genres {
		col[g] = j
	}

	// book -> column indices of its allowlisted genres
	bookCols := make(map[int][]int, len(assocs))
	for _, a := range assocs {
		j, ok := col[a.Genre]
		if !ok {
			return nil, fmt.Errorf("association carries genre %q outside the configured columns", a.Genre)
		}
		bookCols[a.BookID] = append(bookCols[a.BookID], j)
	}

	type cell struct {
		sum   float64
		count int
	}
	userCells := make(map[int][]cell)
	matched := 0
	for _, r := range ratings {
		cols, ok := bookCols[r.BookID]
		cells, seen := userCells[r.UserID]
		if !seen {
			cells = make([]cell, len(b.Genres))
			userCells[r.UserID] = cells
		}
		if !ok {
			// user still gets a row, even if none of their books carry a genre
			continue
		}
		matched++
		for _, j := range cols {
			cells[j].sum += float64(r.Rating)
			cells[j].count++
		}
	}
	if len(ratings) > 0 && matched == 0 {
		return nil, ErrEmptyJoin
	}

	users := make([]int, 0, len(userCells))
	for u := range userCells {
		users = append(users, u)
	}
	sort.Ints(users)

	rows := make([][]float64, len(users))
	for i, u := range users {
		row := make([]float64, len(b.Genres))
		for j, c := range userCells[u] {
			if c.count == 0 {
				row[j] = b.Sentinel
			} else {
				row[j] = c.sum / float64(c.count)
			}
		}
		rows[i] = row
	}

	return &Table{Users: users, Genres: b.Genres, Rows: rows, Sentinel: b.Sentinel}, nil
}
