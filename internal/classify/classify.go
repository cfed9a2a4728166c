// Package classify trains the two cluster-membership classifiers
// (random forest, RBF SVM) on identical seeded train/test rows and
// evaluates them with confusion matrices.
package classify

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Config carries the training knobs; see config.Load for defaults.
type Config struct {
	Seed          int64
	TrainFraction float64
	ForestSize    int
	ForestSplit   int // features considered per split
	SVMCost       float64
	SVMGamma      float64
	WorkDir       string // where the libsvm problem files are written
}

// Result is one trained-and-evaluated model.
type Result struct {
	Name      string
	Accuracy  float64
	Confusion evaluation.ConfusionMatrix
	Summary   string
}

// Split partitions 0..n-1 into train and test index sets by a seeded
// shuffle. Row selection without replacement; every index lands in
// exactly one side.
func Split(n int, trainFraction float64, seed int64) (train, test []int) {
	if trainFraction <= 0 || trainFraction >= 1 {
		trainFraction = 0.75
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	cut := int(float64(n) * trainFraction)
	return perm[:cut], perm[cut:]
}

// Take materializes the rows and labels at idx.
func Take(rows [][]float64, labels []int, idx []int) ([][]float64, []int) {
	outR := make([][]float64, len(idx))
	outL := make([]int, len(idx))
	for i, k := range idx {
		outR[i] = rows[k]
		outL[i] = labels[k]
	}
	return outR, outL
}

// FormatConfusion renders the matrix as a count table with one row per
// predicted class and one column per true class; golearn stores it the
// other way round (outer key = true class), so the cells are transposed
// on the way out. Classes are ordered numerically.
func FormatConfusion(cm evaluation.ConfusionMatrix) string {
	classes := make([]string, 0, len(cm))
	for c := range cm {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool {
		a, _ := strconv.Atoi(classes[i])
		b, _ := strconv.Atoi(classes[j])
		return a < b
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s", "pred \\ true")
	for _, c := range classes {
		fmt.Fprintf(&b, "  %8s", c)
	}
	b.WriteByte('\n')
	for _, pred := range classes {
		fmt.Fprintf(&b, "%-12s", pred)
		for _, tru := range classes {
			fmt.Fprintf(&b, "  %8d", cm[tru][pred])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// BuildConfusion cross-tabulates true vs predicted labels into the
// golearn confusion-matrix shape (outer key = true class, inner key =
// predicted class), fully initialized so row and column sums cover
// every class pair.
func BuildConfusion(trueLabels, predLabels []int, k int) (evaluation.ConfusionMatrix, error) {
	if len(trueLabels) != len(predLabels) {
		return nil, fmt.Errorf("label length mismatch: %d vs %d", len(trueLabels), len(predLabels))
	}
	cm := make(evaluation.ConfusionMatrix, k)
	for i := 0; i < k; i++ {
		row := make(map[string]int, k)
		for j := 0; j < k; j++ {
			row[strconv.Itoa(j)] = 0
		}
		cm[strconv.Itoa(i)] = row
	}
	for i := range trueLabels {
		cm[strconv.Itoa(trueLabels[i])][strconv.Itoa(predLabels[i])]++
	}
	return cm, nil
}
