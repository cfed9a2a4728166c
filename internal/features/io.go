package features

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV persists the table as user_id followed by one column per
// genre, so later stages can rerun without rebuilding the features.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(bufio.NewWriter(f))
	defer w.Flush()

	header := append([]string{"user_id"}, t.Genres...)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i, u := range t.Users {
		rec[0] = strconv.Itoa(u)
		for j, v := range t.Rows[i] {
			rec[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// ReadCSV loads a table written by WriteCSV.
func ReadCSV(path string, sentinel float64) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rd := csv.NewReader(bufio.NewReader(f))
	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	if len(header) < 2 || header[0] != "user_id" {
		return nil, fmt.Errorf("%s: unexpected header", path)
	}

	t := &Table{Genres: header[1:], Sentinel: sentinel}
	line := 1
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line+1, err)
		}
		line++
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%s: line %d: expected %d columns, got %d", path, line, len(header), len(rec))
		}
		u, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: user_id: %w", path, line, err)
		}
		row := make([]float64, len(rec)-1)
		for j, s := range rec[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: column %s: %w", path, line, header[j+1], err)
			}
			row[j] = v
		}
		t.Users = append(t.Users, u)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Select returns a new table holding the rows at idx, in that order.
// Used with a seeded index sample to subsample users.
func (t *Table) Select(idx []int) *Table {
	out := &Table{Genres: t.Genres, Sentinel: t.Sentinel}
	out.Users = make([]int, len(idx))
	out.Rows = make([][]float64, len(idx))
	for i, k := range idx {
		out.Users[i] = t.Users[k]
		out.Rows[i] = t.Rows[k]
	}
	return out
}
