package main

/*
CLASSIFY (cluster-membership classifiers + evaluation)

Joins the feature matrix with the cluster assignments, draws a seeded
user sample, splits it 75/25 and trains a random forest and an RBF SVM
on identical training rows to predict cluster membership from genre
means. Evaluation is a confusion matrix per model plus the forest's
per-genre permutation importance; there is no pass/fail threshold.

Inputs (ARTIFACTS_DIR):
  - user_features.csv
  - clusters.csv

Parameters:
  --sample   users sampled for training+testing (default CLASSIFY_SAMPLE)
  --trees    forest size                        (default FOREST_SIZE)

Outputs (ARTIFACTS_DIR):
  - svm/train.svm          libsvm-format training rows
  - classify_report.txt
*/

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/premalytics/cmsc320-final-project/config"
	"github.com/premalytics/cmsc320-final-project/internal/classify"
	"github.com/premalytics/cmsc320-final-project/internal/features"
	"github.com/premalytics/cmsc320-final-project/internal/kmeans"
	"github.com/premalytics/cmsc320-final-project/internal/report"
	"github.com/premalytics/cmsc320-final-project/utils"
)

func main() {
	cfg := config.Load()
	log := utils.NewLogger(true)
	timer := utils.NewTimer()

	var sample, trees int
	flag.IntVar(&sample, "sample", cfg.SampleSize, "users sampled for train+test")
	flag.IntVar(&trees, "trees", cfg.ForestSize, "number of trees in the forest")
	flag.Parse()

	featPath := filepath.Join(cfg.ArtifactsDir, "user_features.csv")
	table, err := features.ReadCSV(featPath, cfg.Sentinel)
	if err != nil {
		log.Fatal("read %s (run prepare first): %v", featPath, err)
	}
	clustersPath := filepath.Join(cfg.ArtifactsDir, "clusters.csv")
	assignments, err := report.ReadAssignments(clustersPath)
	if err != nil {
		log.Fatal("read %s (run cluster first): %v", clustersPath, err)
	}

	// inner join: users present in both tables, cluster label as target
	rows := make([][]float64, 0, len(table.Users))
	labels := make([]int, 0, len(table.Users))
	k := 0
	for i, u := range table.Users {
		c, ok := assignments[u]
		if !ok {
			continue
		}
		rows = append(rows, table.Rows[i])
		labels = append(labels, c)
		if c+1 > k {
			k = c + 1
		}
	}
	if len(rows) == 0 {
		log.Fatal("no users shared between %s and %s", featPath, clustersPath)
	}
	log.Info("labeled users=%d clusters=%d", len(rows), k)

	ccfg := classify.Config{
		Seed:          cfg.Seed,
		TrainFraction: cfg.TrainFraction,
		ForestSize:    trees,
		ForestSplit:   cfg.ForestSplit,
		SVMCost:       cfg.SVMCost,
		SVMGamma:      cfg.SVMGamma,
		WorkDir:       filepath.Join(cfg.ArtifactsDir, "svm"),
	}

	idx := kmeans.SampleIndices(len(rows), sample, ccfg.Seed)
	sampleRows, sampleLabels := classify.Take(rows, labels, idx)

	trainIdx, testIdx := classify.Split(len(sampleRows), ccfg.TrainFraction, ccfg.Seed)
	trainRows, trainLabels := classify.Take(sampleRows, sampleLabels, trainIdx)
	testRows, testLabels := classify.Take(sampleRows, sampleLabels, testIdx)
	log.Info("sample=%d train=%d test=%d (seed %d)", len(sampleRows), len(trainRows), len(testRows), ccfg.Seed)

	log.Section("random forest")
	forest, err := classify.TrainForest(table.Genres, trainRows, trainLabels, testRows, testLabels, ccfg)
	if err != nil {
		log.Fatal("random forest: %v", err)
	}
	log.Info("accuracy=%.4f trees=%d (%s)", forest.Accuracy, trees, timer.Lap())

	log.Section("svm")
	svm, err := classify.TrainSVM(trainRows, trainLabels, testRows, testLabels, k, ccfg)
	if err != nil {
		log.Fatal("svm: %v", err)
	}
	log.Info("accuracy=%.4f C=%g gamma=%g (%s)", svm.Accuracy, cfg.SVMCost, cfg.SVMGamma, timer.Lap())

	outReport := filepath.Join(cfg.ArtifactsDir, "classify_report.txt")
	if err := report.WriteText(outReport, classifyReport(forest, svm, len(testRows))); err != nil {
		log.Fatal("write %s: %v", outReport, err)
	}
	log.Info("done: %s (total %s)", outReport, timer.Elapsed())
}

func classifyReport(forest *classify.ForestResult, svm *classify.Result, testSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== CLUSTER-MEMBERSHIP CLASSIFIERS ==\n\n")
	fmt.Fprintf(&b, "Held-out rows : %d\n\n", testSize)

	fmt.Fprintf(&b, "-- %s (accuracy %.4f) --\n", forest.Name, forest.Accuracy)
	fmt.Fprintf(&b, "%s\n", classify.FormatConfusion(forest.Confusion))
	fmt.Fprintf(&b, "%s\n", forest.Summary)

	fmt.Fprintf(&b, "-- %s (accuracy %.4f) --\n", svm.Name, svm.Accuracy)
	fmt.Fprintf(&b, "%s\n", classify.FormatConfusion(svm.Confusion))
	fmt.Fprintf(&b, "%s\n", svm.Summary)

	fmt.Fprintf(&b, "-- Genre importance (held-out permutation accuracy drop) --\n")
	for rank, imp := range forest.Importance {
		fmt.Fprintf(&b, "  %2d. %-20s %+.4f\n", rank+1, imp.Genre, imp.Drop)
	}
	return b.String()
}
