package main

/*
SELECTK (cluster-count sweep)

Fits seeded K-means for every candidate K on a seeded subsample of the
feature matrix, recording total within-cluster SSE and mean silhouette.
The choice of K stays manual: this stage only produces the two curves
(the "elbow" inspection), plus a library estimate as a second opinion.

Inputs (ARTIFACTS_DIR):
  - user_features.csv

Parameters:
  --kmin / --kmax    candidate range       (default from K_MIN/K_MAX)
  --sample           subsample size        (default from SWEEP_SAMPLE)

Outputs (ARTIFACTS_DIR):
  - kselect.csv          (k, sse, silhouette, converged)
  - elbow.png            SSE vs K
  - silhouette.png       mean silhouette vs K
  - kselect_report.txt
*/

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mpraski/clusters"

	"github.com/premalytics/cmsc320-final-project/config"
	"github.com/premalytics/cmsc320-final-project/internal/features"
	"github.com/premalytics/cmsc320-final-project/internal/kmeans"
	"github.com/premalytics/cmsc320-final-project/internal/report"
	"github.com/premalytics/cmsc320-final-project/utils"
)

func main() {
	cfg := config.Load()
	log := utils.NewLogger(true)
	timer := utils.NewTimer()

	var kMin, kMax, sample int
	flag.IntVar(&kMin, "kmin", cfg.KMin, "smallest candidate cluster count")
	flag.IntVar(&kMax, "kmax", cfg.KMax, "largest candidate cluster count")
	flag.IntVar(&sample, "sample", cfg.SweepSize, "subsample size for the sweep")
	flag.Parse()
	if kMin < 2 || kMax < kMin {
		log.Fatal("invalid candidate range [%d, %d]", kMin, kMax)
	}

	featPath := filepath.Join(cfg.ArtifactsDir, "user_features.csv")
	table, err := features.ReadCSV(featPath, cfg.Sentinel)
	if err != nil {
		log.Fatal("read %s (run prepare first): %v", featPath, err)
	}
	if len(table.Rows) < kMax {
		log.Fatal("only %d users in %s, cannot sweep up to k=%d", len(table.Rows), featPath, kMax)
	}

	idx := kmeans.SampleIndices(len(table.Rows), sample, cfg.Seed)
	sub := table.Select(idx)
	if len(sub.Rows) < kMax {
		log.Fatal("subsample of %d users cannot sweep up to k=%d; raise --sample or lower --kmax", len(sub.Rows), kMax)
	}
	log.Info("sweeping k=%d..%d on %d of %d users (seed %d)", kMin, kMax, len(sub.Rows), len(table.Rows), cfg.Seed)

	sweepCfg := kmeans.Config{
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Seed:          cfg.Seed,
	}
	stats, skipped := kmeans.Sweep(sub.Rows, kMin, kMax, sweepCfg)
	for _, k := range skipped {
		log.Warn("k=%d produced no sweep row; its fit failed outright", k)
	}
	for _, s := range stats {
		if !s.Converged {
			log.Warn("k=%d hit the iteration cap; keeping the best iterate", s.K)
		}
		log.Info("k=%-3d sse=%12.2f silhouette=%.4f", s.K, s.SSE, s.Silhouette)
	}
	log.Info("sweep finished (%s)", timer.Lap())

	// Second opinion from the library clusterer at the top of the range.
	libNote := libraryCrossCheck(sub.Rows, kMax, cfg.MaxIterations, log)

	outCSV := filepath.Join(cfg.ArtifactsDir, "kselect.csv")
	if err := report.WriteKSelect(outCSV, stats); err != nil {
		log.Fatal("write %s: %v", outCSV, err)
	}

	xs := make([]float64, len(stats))
	sses := make([]float64, len(stats))
	sils := make([]float64, len(stats))
	for i, s := range stats {
		xs[i] = float64(s.K)
		sses[i] = s.SSE
		sils[i] = s.Silhouette
	}
	elbowPNG := filepath.Join(cfg.ArtifactsDir, "elbow.png")
	if err := report.Curve(elbowPNG, "Within-cluster SSE by cluster count", "k", "SSE", "SSE", xs, sses); err != nil {
		log.Fatal("render %s: %v", elbowPNG, err)
	}
	silPNG := filepath.Join(cfg.ArtifactsDir, "silhouette.png")
	if err := report.Curve(silPNG, "Mean silhouette by cluster count", "k", "mean silhouette", "silhouette", xs, sils); err != nil {
		log.Fatal("render %s: %v", silPNG, err)
	}

	outReport := filepath.Join(cfg.ArtifactsDir, "kselect_report.txt")
	if err := report.WriteText(outReport, sweepReport(stats, len(sub.Rows), libNote)); err != nil {
		log.Fatal("write %s: %v", outReport, err)
	}

	log.Info("done: %s, %s, %s (total %s)", outCSV, elbowPNG, silPNG, timer.Elapsed())
	log.Info("inspect the curves and pass the chosen k to cmd/cluster --k")
}

// libraryCrossCheck runs the mpraski clusterer once at the largest
// candidate K and reports its cluster sizes, a sanity check that the
// in-repo sweep is not wildly off. Its initialization is not seeded, so
// it never replaces the sweep.
func libraryCrossCheck(data [][]float64, k, maxIter int, log *utils.Logger) string {
	c, err := clusters.KMeans(maxIter, k, clusters.EuclideanDistance)
	if err != nil {
		log.Warn("library clusterer unavailable: %v", err)
		return ""
	}
	if err := c.Learn(data); err != nil {
		log.Warn("library clusterer failed to learn: %v", err)
		return ""
	}
	note := fmt.Sprintf("library k-means at k=%d cluster sizes: %v", k, c.Sizes())
	log.Info("%s", note)
	return note
}

func sweepReport(stats []kmeans.KStat, sampleSize int, libNote string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== CLUSTER-COUNT SWEEP ==\n\n")
	fmt.Fprintf(&b, "Subsample size : %d users\n\n", sampleSize)
	fmt.Fprintf(&b, "%4s  %14s  %12s  %s\n", "k", "sse", "silhouette", "converged")
	for _, s := range stats {
		fmt.Fprintf(&b, "%4d  %14.2f  %12.4f  %t\n", s.K, s.SSE, s.Silhouette, s.Converged)
	}
	fmt.Fprintf(&b, "\nK is chosen manually from the elbow of the SSE curve and the\n")
	fmt.Fprintf(&b, "silhouette peak; no automatic selection is performed.\n")
	if libNote != "" {
		fmt.Fprintf(&b, "\n%s\n", libNote)
	}
	return b.String()
}
