package features

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/premalytics/cmsc320-final-project/internal/dataset"
	"github.com/premalytics/cmsc320-final-project/internal/genres"
)

const sentinel = -5.0

func builder() Builder {
	return Builder{Genres: []string{"fantasy", "horror"}, Sentinel: sentinel}
}

func TestBuildGenreMeans(t *testing.T) {
	// three users rate two fantasy books (4, 5) and no horror books
	assocs := []genres.BookGenre{
		{BookID: 1, Genre: "fantasy"},
		{BookID: 2, Genre: "fantasy"},
	}
	var ratings []dataset.Rating
	for _, u := range []int{1, 2, 3} {
		ratings = append(ratings,
			dataset.Rating{UserID: u, BookID: 1, Rating: 4},
			dataset.Rating{UserID: u, BookID: 2, Rating: 5},
		)
	}

	table, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 user rows, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		if row[0] != 4.5 {
			t.Errorf("user %d fantasy mean = %v, want 4.5", table.Users[i], row[0])
		}
		if row[1] != sentinel {
			t.Errorf("user %d horror = %v, want sentinel %v", table.Users[i], row[1], sentinel)
		}
	}
}

func TestBuildMultiGenreBookCountsOncePerGenre(t *testing.T) {
	assocs := []genres.BookGenre{
		{BookID: 1, Genre: "fantasy"},
		{BookID: 1, Genre: "horror"},
	}
	ratings := []dataset.Rating{{UserID: 9, BookID: 1, Rating: 3}}

	table, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := table.Rows[0]; got[0] != 3 || got[1] != 3 {
		t.Errorf("rating must fan out to both genre columns, got %v", got)
	}
}

func TestBuildDuplicateCellsMeanCombined(t *testing.T) {
	// two fantasy books rated 2 and 4 land in the same (user, genre)
	// cell and must average, not first- or last-win
	assocs := []genres.BookGenre{
		{BookID: 1, Genre: "fantasy"},
		{BookID: 2, Genre: "fantasy"},
	}
	ratings := []dataset.Rating{
		{UserID: 1, BookID: 1, Rating: 2},
		{UserID: 1, BookID: 2, Rating: 4},
	}

	table, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if table.Rows[0][0] != 3 {
		t.Errorf("duplicate cells must mean-combine: got %v, want 3", table.Rows[0][0])
	}
}

func TestBuildKeepsUserWithNoGenreSignal(t *testing.T) {
	assocs := []genres.BookGenre{{BookID: 1, Genre: "fantasy"}}
	ratings := []dataset.Rating{
		{UserID: 1, BookID: 1, Rating: 5},
		{UserID: 2, BookID: 99, Rating: 4}, // book 99 carries no allowlisted genre
	}

	table, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table.Users) != 2 {
		t.Fatalf("user without genre signal must keep a row, got users %v", table.Users)
	}
	for i, u := range table.Users {
		if u == 2 {
			for _, v := range table.Rows[i] {
				if v != sentinel {
					t.Errorf("user 2 must be all-sentinel, got %v", table.Rows[i])
				}
			}
		}
	}
}

func TestBuildValueDomain(t *testing.T) {
	assocs := []genres.BookGenre{
		{BookID: 1, Genre: "fantasy"},
		{BookID: 2, Genre: "horror"},
		{BookID: 3, Genre: "fantasy"},
	}
	ratings := []dataset.Rating{
		{UserID: 1, BookID: 1, Rating: 1},
		{UserID: 1, BookID: 3, Rating: 5},
		{UserID: 2, BookID: 2, Rating: 3},
		{UserID: 3, BookID: 1, Rating: 2},
	}

	table, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, row := range table.Rows {
		for j, v := range row {
			if v != sentinel && (v < 1 || v > 5) {
				t.Errorf("cell (%d,%d) = %v outside [1,5] and not the sentinel", i, j, v)
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	assocs := []genres.BookGenre{
		{BookID: 1, Genre: "fantasy"},
		{BookID: 2, Genre: "horror"},
	}
	ratings := []dataset.Rating{
		{UserID: 3, BookID: 1, Rating: 4},
		{UserID: 1, BookID: 2, Rating: 2},
		{UserID: 3, BookID: 2, Rating: 5},
	}

	a, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := builder().Build(ratings, assocs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two builds over identical inputs differ:\n%+v\n%+v", a, b)
	}
}

func TestBuildRejectsInRangeSentinel(t *testing.T) {
	assocs := []genres.BookGenre{{BookID: 1, Genre: "fantasy"}}
	ratings := []dataset.Rating{{UserID: 1, BookID: 1, Rating: 4}}
	for _, s := range []float64{1, 3, 5} {
		b := Builder{Genres: []string{"fantasy", "horror"}, Sentinel: s}
		if _, err := b.Build(ratings, assocs); err == nil {
			t.Errorf("sentinel %g inside [1,5] must be rejected", s)
		}
	}
	// boundary values just outside the range stay legal
	b := Builder{Genres: []string{"fantasy", "horror"}, Sentinel: 0}
	if _, err := b.Build(ratings, assocs); err != nil {
		t.Errorf("sentinel 0 must be accepted: %v", err)
	}
}

func TestBuildEmptyJoin(t *testing.T) {
	ratings := []dataset.Rating{{UserID: 1, BookID: 1, Rating: 4}}
	_, err := builder().Build(ratings, nil)
	if !errors.Is(err, ErrEmptyJoin) {
		t.Errorf("expected ErrEmptyJoin, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	table := &Table{
		Users:    []int{1, 5},
		Genres:   []string{"fantasy", "horror"},
		Rows:     [][]float64{{4.5, sentinel}, {sentinel, 3.25}},
		Sentinel: sentinel,
	}
	path := filepath.Join(t.TempDir(), "user_features.csv")
	if err := table.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := ReadCSV(path, sentinel)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round trip changed the table:\n%+v\n%+v", got, table)
	}
}
