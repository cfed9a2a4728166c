package main

/*
CLUSTER (final K-means fit)

Fits one seeded K-means model at the chosen K on the full feature
matrix, then projects the matrix to two principal components for the
cluster scatter plot. K comes from a human reading of selectk's curves.

Inputs (ARTIFACTS_DIR):
  - user_features.csv

Parameters:
  --k    cluster count (required)

Outputs (ARTIFACTS_DIR):
  - clusters.csv           (user_id, cluster)
  - centroids.csv          one row per centroid
  - pca_projection.csv     (user_id, pc1, pc2, cluster)
  - pca.png                scatter colored by cluster
  - cluster_report.txt
*/

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/premalytics/cmsc320-final-project/config"
	"github.com/premalytics/cmsc320-final-project/internal/features"
	"github.com/premalytics/cmsc320-final-project/internal/kmeans"
	"github.com/premalytics/cmsc320-final-project/internal/pca"
	"github.com/premalytics/cmsc320-final-project/internal/report"
	"github.com/premalytics/cmsc320-final-project/utils"
)

func main() {
	cfg := config.Load()
	log := utils.NewLogger(true)
	timer := utils.NewTimer()

	var k int
	flag.IntVar(&k, "k", 0, "cluster count chosen from the selectk curves (required)")
	flag.Parse()
	if k < 2 {
		log.Fatal("--k is required and must be at least 2 (inspect artifacts/kselect.csv first)")
	}

	featPath := filepath.Join(cfg.ArtifactsDir, "user_features.csv")
	table, err := features.ReadCSV(featPath, cfg.Sentinel)
	if err != nil {
		log.Fatal("read %s (run prepare first): %v", featPath, err)
	}
	log.Info("feature matrix: %d users x %d genres", len(table.Rows), len(table.Genres))

	model, err := kmeans.Fit(table.Rows, kmeans.Config{
		K:             k,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Seed:          cfg.Seed,
	})
	if err != nil {
		if errors.Is(err, kmeans.ErrNoConvergence) {
			log.Warn("%v after %d iterations; keeping the best iterate", err, model.Iterations)
		} else {
			log.Fatal("kmeans fit: %v", err)
		}
	}
	log.Info("fit k=%d in %d iterations, sse=%.2f (%s)", k, model.Iterations, model.SSE, timer.Lap())

	silIdx := kmeans.SampleIndices(len(table.Rows), cfg.SweepSize, cfg.Seed)
	silData, silLabels := make([][]float64, len(silIdx)), make([]int, len(silIdx))
	for i, r := range silIdx {
		silData[i] = table.Rows[r]
		silLabels[i] = model.Labels[r]
	}
	sil := kmeans.MeanSilhouette(silData, silLabels, k)
	log.Info("mean silhouette (subsample of %d): %.4f (%s)", len(silIdx), sil, timer.Lap())

	proj, err := pca.Project(table.Rows, 2)
	if err != nil {
		log.Fatal("pca projection: %v", err)
	}

	outClusters := filepath.Join(cfg.ArtifactsDir, "clusters.csv")
	if err := report.WriteAssignments(outClusters, table.Users, model.Labels); err != nil {
		log.Fatal("write %s: %v", outClusters, err)
	}
	outCentroids := filepath.Join(cfg.ArtifactsDir, "centroids.csv")
	if err := report.WriteCentroids(outCentroids, table.Genres, model.Centroids); err != nil {
		log.Fatal("write %s: %v", outCentroids, err)
	}
	outProj := filepath.Join(cfg.ArtifactsDir, "pca_projection.csv")
	if err := report.WriteProjection(outProj, table.Users, proj, model.Labels); err != nil {
		log.Fatal("write %s: %v", outProj, err)
	}
	outPNG := filepath.Join(cfg.ArtifactsDir, "pca.png")
	if err := report.Scatter(outPNG, fmt.Sprintf("Reader clusters (k=%d, 2-component PCA)", k), proj, model.Labels, k); err != nil {
		log.Fatal("render %s: %v", outPNG, err)
	}

	outReport := filepath.Join(cfg.ArtifactsDir, "cluster_report.txt")
	if err := report.WriteText(outReport, clusterReport(table, model, sil)); err != nil {
		log.Fatal("write %s: %v", outReport, err)
	}

	log.Info("done: %s, %s, %s, %s (total %s)", outClusters, outCentroids, outProj, outPNG, timer.Elapsed())
}

func clusterReport(table *features.Table, model *kmeans.Model, silhouette float64) string {
	sizes := make([]int, model.K)
	for _, l := range model.Labels {
		sizes[l]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "== FINAL CLUSTERING ==\n\n")
	fmt.Fprintf(&b, "Users        : %d\n", len(table.Users))
	fmt.Fprintf(&b, "K            : %d\n", model.K)
	fmt.Fprintf(&b, "Iterations   : %d (converged=%t)\n", model.Iterations, model.Converged)
	fmt.Fprintf(&b, "SSE          : %.2f\n", model.SSE)
	fmt.Fprintf(&b, "Silhouette   : %.4f (subsample)\n\n", silhouette)

	fmt.Fprintf(&b, "-- Cluster sizes --\n")
	for c, n := range sizes {
		fmt.Fprintf(&b, "  cluster %-3d : %d\n", c, n)
	}
	fmt.Fprintf(&b, "\n-- Centroids (mean rating per genre; %g = no signal) --\n", table.Sentinel)
	fmt.Fprintf(&b, "%-8s", "cluster")
	for _, g := range table.Genres {
		fmt.Fprintf(&b, "  %18s", g)
	}
	fmt.Fprintf(&b, "\n")
	for c, ct := range model.Centroids {
		fmt.Fprintf(&b, "%-8d", c)
		for _, v := range ct {
			fmt.Fprintf(&b, "  %18.3f", v)
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String()
}
