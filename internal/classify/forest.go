package classify

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/sjwhitworth/golearn/filters"
)

// Importance is one genre's permutation-importance score: the accuracy
// lost on the held-out rows when that column's values are shuffled.
type Importance struct {
	Genre string
	Drop  float64
}

// ForestResult extends Result with the per-genre importance ranking.
type ForestResult struct {
	Result
	Importance []Importance
}

// TrainForest fits a random forest on the training rows and evaluates
// it on the test rows. Genre columns are discretized with ChiMerge
// before fitting (the forest's trees split on categorical bins), and
// permutation importance is measured on the held-out rows afterwards.
func TrainForest(genres []string, trainRows [][]float64, trainLabels []int,
	testRows [][]float64, testLabels []int, cfg Config) (*ForestResult, error) {

	attrs := newAttrSet(genres)
	trainInst, err := attrs.instances(trainRows, trainLabels)
	if err != nil {
		return nil, fmt.Errorf("build training instances: %w", err)
	}
	testInst, err := attrs.instances(testRows, testLabels)
	if err != nil {
		return nil, fmt.Errorf("build test instances: %w", err)
	}

	filt := filters.NewChiMergeFilter(trainInst, 0.999)
	for _, a := range base.NonClassFloatAttributes(trainInst) {
		filt.AddAttribute(a)
	}
	if err := filt.Train(); err != nil {
		return nil, fmt.Errorf("train discretization filter: %w", err)
	}
	trainF := base.NewLazilyFilteredInstances(trainInst, filt)
	testF := base.NewLazilyFilteredInstances(testInst, filt)

	split := cfg.ForestSplit
	if split < 1 || split > len(genres) {
		split = len(genres)
	}
	rf := ensemble.NewRandomForest(cfg.ForestSize, split)
	if err := rf.Fit(trainF); err != nil {
		return nil, fmt.Errorf("fit random forest: %w", err)
	}

	preds, err := rf.Predict(testF)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	cm, err := evaluation.GetConfusionMatrix(testF, preds)
	if err != nil {
		return nil, fmt.Errorf("confusion matrix: %w", err)
	}
	baseline := evaluation.GetAccuracy(cm)

	// Permutation importance: shuffle one genre column of the held-out
	// rows at a time and measure the accuracy drop. Seeded so the
	// ranking reproduces.
	rng := rand.New(rand.NewSource(cfg.Seed))
	importance := make([]Importance, 0, len(genres))
	for j, g := range genres {
		permuted := permuteColumn(testRows, j, rng)
		permInst, err := attrs.instances(permuted, testLabels)
		if err != nil {
			return nil, fmt.Errorf("build permuted instances for %s: %w", g, err)
		}
		permF := base.NewLazilyFilteredInstances(permInst, filt)
		permPreds, err := rf.Predict(permF)
		if err != nil {
			return nil, fmt.Errorf("predict permuted %s: %w", g, err)
		}
		permCM, err := evaluation.GetConfusionMatrix(permF, permPreds)
		if err != nil {
			return nil, fmt.Errorf("permuted confusion matrix for %s: %w", g, err)
		}
		importance = append(importance, Importance{Genre: g, Drop: baseline - evaluation.GetAccuracy(permCM)})
	}
	sort.SliceStable(importance, func(a, b int) bool {
		return importance[a].Drop > importance[b].Drop
	})

	return &ForestResult{
		Result: Result{
			Name:      "random forest",
			Accuracy:  baseline,
			Confusion: cm,
			Summary:   evaluation.GetSummary(cm),
		},
		Importance: importance,
	}, nil
}

// permuteColumn copies rows and shuffles the values of column j.
func permuteColumn(rows [][]float64, j int, rng *rand.Rand) [][]float64 {
	out := make([][]float64, len(rows))
	col := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
		col[i] = r[j]
	}
	rng.Shuffle(len(col), func(a, b int) { col[a], col[b] = col[b], col[a] })
	for i := range out {
		out[i][j] = col[i]
	}
	return out
}
