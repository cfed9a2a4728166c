// Package dataset loads the four goodbooks-10k tables into memory with
// typed columns. Parsing is strict: a missing file, a short row or a
// malformed value is a fatal ErrDataUnavailable, never a silent coercion.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrDataUnavailable marks a missing or malformed input file. Stages
// treat it as fatal: the run aborts rather than computing on bad data.
var ErrDataUnavailable = errors.New("data unavailable")

type Book struct {
	BookID      int
	GoodreadsID int // cross-reference id used by book_tags.csv
	Title       string
}

type Tag struct {
	TagID int
	Name  string
}

// BookTag associates a book (by goodreads id) with a tag. Count is the
// number of users who shelved the book under the tag; it is parsed for
// validation but unused downstream.
type BookTag struct {
	GoodreadsID int
	TagID       int
	Count       int
}

type Rating struct {
	UserID int
	BookID int
	Rating int // always in [1,5]
}

// Tables bundles the four source tables of one run.
type Tables struct {
	Books    []Book
	Tags     []Tag
	BookTags []BookTag
	Ratings  []Rating
}

// Load reads the four CSVs from dir using the goodbooks-10k file names.
func Load(dir string) (*Tables, error) {
	books, err := LoadBooks(dir + "/books.csv")
	if err != nil {
		return nil, err
	}
	tags, err := LoadTags(dir + "/tags.csv")
	if err != nil {
		return nil, err
	}
	bookTags, err := LoadBookTags(dir + "/book_tags.csv")
	if err != nil {
		return nil, err
	}
	ratings, err := LoadRatings(dir + "/ratings.csv")
	if err != nil {
		return nil, err
	}
	return &Tables{Books: books, Tags: tags, BookTags: bookTags, Ratings: ratings}, nil
}

// columns we need from books.csv; the file carries many more.
const (
	bookIDCol      = "book_id"
	goodreadsIDCol = "goodreads_book_id"
	titleCol       = "title"
)

func LoadBooks(path string) ([]Book, error) {
	var books []Book
	err := readCSV(path, []string{bookIDCol, goodreadsIDCol, titleCol}, func(line int, get func(string) string) error {
		id, err := parseInt(get(bookIDCol))
		if err != nil {
			return fmt.Errorf("line %d: book_id: %v", line, err)
		}
		gid, err := parseInt(get(goodreadsIDCol))
		if err != nil {
			return fmt.Errorf("line %d: goodreads_book_id: %v", line, err)
		}
		books = append(books, Book{BookID: id, GoodreadsID: gid, Title: get(titleCol)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

func LoadTags(path string) ([]Tag, error) {
	var tags []Tag
	err := readCSV(path, []string{"tag_id", "tag_name"}, func(line int, get func(string) string) error {
		id, err := parseInt(get("tag_id"))
		if err != nil {
			return fmt.Errorf("line %d: tag_id: %v", line, err)
		}
		tags = append(tags, Tag{TagID: id, Name: get("tag_name")})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func LoadBookTags(path string) ([]BookTag, error) {
	var assocs []BookTag
	err := readCSV(path, []string{"goodreads_book_id", "tag_id", "count"}, func(line int, get func(string) string) error {
		gid, err := parseInt(get("goodreads_book_id"))
		if err != nil {
			return fmt.Errorf("line %d: goodreads_book_id: %v", line, err)
		}
		tid, err := parseInt(get("tag_id"))
		if err != nil {
			return fmt.Errorf("line %d: tag_id: %v", line, err)
		}
		cnt, err := parseInt(get("count"))
		if err != nil {
			return fmt.Errorf("line %d: count: %v", line, err)
		}
		assocs = append(assocs, BookTag{GoodreadsID: gid, TagID: tid, Count: cnt})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assocs, nil
}

func LoadRatings(path string) ([]Rating, error) {
	var ratings []Rating
	err := readCSV(path, []string{"user_id", "book_id", "rating"}, func(line int, get func(string) string) error {
		uid, err := parseInt(get("user_id"))
		if err != nil {
			return fmt.Errorf("line %d: user_id: %v", line, err)
		}
		bid, err := parseInt(get("book_id"))
		if err != nil {
			return fmt.Errorf("line %d: book_id: %v", line, err)
		}
		r, err := parseInt(get("rating"))
		if err != nil {
			return fmt.Errorf("line %d: rating: %v", line, err)
		}
		if r < 1 || r > 5 {
			return fmt.Errorf("line %d: rating %d outside [1,5]", line, r)
		}
		ratings = append(ratings, Rating{UserID: uid, BookID: bid, Rating: r})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// readCSV streams path row by row, resolving the wanted columns through
// the header so extra columns (books.csv has over twenty) are ignored.
// Any per-row error aborts the load as ErrDataUnavailable.
func readCSV(path string, want []string, each func(line int, get func(string) string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, path, err)
	}
	defer f.Close()

	rd := csv.NewReader(bufio.NewReader(f))
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return fmt.Errorf("%w: %s: read header: %v", ErrDataUnavailable, path, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", ErrDataUnavailable, path, name)
		}
	}

	line := 1
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: line %d: %v", ErrDataUnavailable, path, line+1, err)
		}
		line++

		get := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		for _, name := range want {
			if i := idx[name]; i >= len(row) {
				return fmt.Errorf("%w: %s: line %d: expected at least %d columns, got %d",
					ErrDataUnavailable, path, line, i+1, len(row))
			}
		}
		if err := each(line, get); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, err)
		}
	}
	return nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	return strconv.Atoi(s)
}
