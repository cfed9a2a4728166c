package main

/*
PREPARE (load + genre join + feature build)

Reads the four goodbooks-10k tables, restricts tags to the configured
genre allowlist, joins books to their genres and builds the per-user
feature matrix (mean rating per genre, sentinel-imputed).

Inputs (DATA_DIR):
  - books.csv      (book_id, goodreads_book_id, title, …)
  - tags.csv       (tag_id, tag_name)
  - book_tags.csv  (goodreads_book_id, tag_id, count)
  - ratings.csv    (user_id, book_id, rating)

Outputs (ARTIFACTS_DIR):
  - user_features.csv     one row per user, one column per genre
  - prepare_report.txt    row counts, join statistics, genre coverage
*/

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/premalytics/cmsc320-final-project/config"
	"github.com/premalytics/cmsc320-final-project/internal/dataset"
	"github.com/premalytics/cmsc320-final-project/internal/features"
	"github.com/premalytics/cmsc320-final-project/internal/genres"
	"github.com/premalytics/cmsc320-final-project/internal/report"
	"github.com/premalytics/cmsc320-final-project/utils"
)

func main() {
	cfg := config.Load()
	log := utils.NewLogger(true)
	timer := utils.NewTimer()

	if err := report.EnsureDir(cfg.ArtifactsDir); err != nil {
		log.Fatal("create %s: %v", cfg.ArtifactsDir, err)
	}

	log.Section("load")
	tables, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatal("load input tables: %v", err)
	}
	log.Info("books=%d tags=%d book_tags=%d ratings=%d (%s)",
		len(tables.Books), len(tables.Tags), len(tables.BookTags), len(tables.Ratings), timer.Lap())

	log.Section("genre join")
	assocs, err := genres.Join(tables, cfg.Genres)
	if err != nil {
		if errors.Is(err, genres.ErrEmptyJoin) {
			log.Warn("%v — the allowlist matched no tags; downstream stages will see empty data", err)
		} else {
			log.Fatal("genre join: %v", err)
		}
	}
	coverage := genres.Coverage(assocs)
	log.Info("book-genre associations=%d over %d genres (%s)", len(assocs), len(coverage), timer.Lap())

	log.Section("feature build")
	builder := features.Builder{Genres: cfg.Genres, Sentinel: cfg.Sentinel}
	table, err := builder.Build(tables.Ratings, assocs)
	if err != nil {
		if errors.Is(err, features.ErrEmptyJoin) {
			log.Warn("%v — writing an empty feature table", err)
			table = &features.Table{Genres: cfg.Genres, Sentinel: cfg.Sentinel}
		} else {
			log.Fatal("feature build: %v", err)
		}
	}
	log.Info("feature matrix: %d users x %d genres (%s)", len(table.Users), len(table.Genres), timer.Lap())

	outFeatures := filepath.Join(cfg.ArtifactsDir, "user_features.csv")
	if err := table.WriteCSV(outFeatures); err != nil {
		log.Fatal("write %s: %v", outFeatures, err)
	}

	outReport := filepath.Join(cfg.ArtifactsDir, "prepare_report.txt")
	if err := report.WriteText(outReport, prepareReport(cfg, tables, assocs, coverage, table)); err != nil {
		log.Fatal("write %s: %v", outReport, err)
	}

	log.Info("done: %s, %s (total %s)", outFeatures, outReport, timer.Elapsed())
}

func prepareReport(cfg *config.Config, t *dataset.Tables, assocs []genres.BookGenre,
	coverage map[string]int, table *features.Table) string {

	var b strings.Builder
	fmt.Fprintf(&b, "== PREPARE ==\n\n")
	fmt.Fprintf(&b, "Books              : %d\n", len(t.Books))
	fmt.Fprintf(&b, "Tags               : %d\n", len(t.Tags))
	fmt.Fprintf(&b, "Book-tag rows      : %d\n", len(t.BookTags))
	fmt.Fprintf(&b, "Ratings            : %d\n\n", len(t.Ratings))

	fmt.Fprintf(&b, "Genre allowlist    : %s\n", strings.Join(cfg.Genres, ", "))
	fmt.Fprintf(&b, "Associations       : %d (books without an allowlisted tag are dropped)\n\n", len(assocs))

	fmt.Fprintf(&b, "-- Books per genre --\n")
	ordered := append([]string(nil), cfg.Genres...)
	sort.Strings(ordered)
	for _, g := range ordered {
		fmt.Fprintf(&b, "  %-20s : %d\n", g, coverage[g])
	}
	fmt.Fprintf(&b, "\n")

	sentinelOnly := 0
	for _, row := range table.Rows {
		all := true
		for _, v := range row {
			if v != table.Sentinel {
				all = false
				break
			}
		}
		if all {
			sentinelOnly++
		}
	}
	fmt.Fprintf(&b, "Feature matrix     : %d users x %d genres\n", len(table.Users), len(table.Genres))
	fmt.Fprintf(&b, "Sentinel value     : %g\n", table.Sentinel)
	fmt.Fprintf(&b, "All-sentinel users : %d (kept; they rated no allowlisted genre)\n", sentinelOnly)
	return b.String()
}
