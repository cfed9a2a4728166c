// Package report writes the run artifacts: plain-text reports, derived
// CSV tables and the PNG plots. Everything lands under the artifacts
// directory; stages hand data to each other through these files.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/premalytics/cmsc320-final-project/internal/kmeans"
)

// EnsureDir creates the artifacts directory (and parents) if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteText writes a finished report body to path.
func WriteText(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(body), 0o644)
}

// WriteKSelect persists the sweep as (k, sse, silhouette, converged).
func WriteKSelect(path string, stats []kmeans.KStat) error {
	return writeCSV(path, []string{"k", "sse", "silhouette", "converged"}, len(stats), func(i int, rec []string) {
		rec[0] = strconv.Itoa(stats[i].K)
		rec[1] = strconv.FormatFloat(stats[i].SSE, 'f', 6, 64)
		rec[2] = strconv.FormatFloat(stats[i].Silhouette, 'f', 6, 64)
		rec[3] = strconv.FormatBool(stats[i].Converged)
	})
}

// WriteAssignments persists (user_id, cluster) pairs.
func WriteAssignments(path string, users []int, labels []int) error {
	return writeCSV(path, []string{"user_id", "cluster"}, len(users), func(i int, rec []string) {
		rec[0] = strconv.Itoa(users[i])
		rec[1] = strconv.Itoa(labels[i])
	})
}

// ReadAssignments loads a file written by WriteAssignments as a
// user_id -> cluster map.
func ReadAssignments(path string) (map[int]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rd := csv.NewReader(bufio.NewReader(f))
	if _, err := rd.Read(); err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	out := make(map[int]int)
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(rec) < 2 {
			continue
		}
		u, err1 := strconv.Atoi(rec[0])
		c, err2 := strconv.Atoi(rec[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%s: malformed row %v", path, rec)
		}
		out[u] = c
	}
	return out, nil
}

// WriteCentroids persists one row per centroid, one column per genre.
func WriteCentroids(path string, genres []string, centroids [][]float64) error {
	header := append([]string{"cluster"}, genres...)
	return writeCSV(path, header, len(centroids), func(i int, rec []string) {
		rec[0] = strconv.Itoa(i)
		for j, v := range centroids[i] {
			rec[j+1] = strconv.FormatFloat(v, 'f', 6, 64)
		}
	})
}

// WriteProjection persists the 2-D PCA projection with cluster labels,
// the data behind the scatter plot.
func WriteProjection(path string, users []int, proj [][]float64, labels []int) error {
	return writeCSV(path, []string{"user_id", "pc1", "pc2", "cluster"}, len(users), func(i int, rec []string) {
		rec[0] = strconv.Itoa(users[i])
		rec[1] = strconv.FormatFloat(proj[i][0], 'f', 6, 64)
		rec[2] = strconv.FormatFloat(proj[i][1], 'f', 6, 64)
		rec[3] = strconv.Itoa(labels[i])
	})
}

func writeCSV(path string, header []string, n int, fill func(i int, rec []string)) error {
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
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i := 0; i < n; i++ {
		fill(i, rec)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
