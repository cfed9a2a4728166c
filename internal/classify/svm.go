package classify

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	libSvm "github.com/ewalker544/libsvm-go"
	"github.com/sjwhitworth/golearn/evaluation"
)

// TrainSVM fits a C-SVC with an RBF kernel on the training rows and
// evaluates it on the test rows. libsvm reads its problems from disk,
// so the training rows are written in libsvm sparse format under
// cfg.WorkDir first (the file doubles as a run artifact).
func TrainSVM(trainRows [][]float64, trainLabels []int,
	testRows [][]float64, testLabels []int, k int, cfg Config) (*Result, error) {

	trainPath := filepath.Join(cfg.WorkDir, "train.svm")
	if err := writeProblem(trainPath, trainRows, trainLabels); err != nil {
		return nil, fmt.Errorf("write training problem: %w", err)
	}

	param := libSvm.NewParameter()
	param.SvmType = libSvm.C_SVC
	param.KernelType = libSvm.RBF
	param.C = cfg.SVMCost
	param.Gamma = cfg.SVMGamma
	param.QuietMode = true

	prob, err := libSvm.NewProblem(trainPath, param)
	if err != nil {
		return nil, fmt.Errorf("load training problem: %w", err)
	}
	model := libSvm.NewModel(param)
	if err := model.Train(prob); err != nil {
		return nil, fmt.Errorf("train svm: %w", err)
	}

	preds := make([]int, len(testRows))
	for i, row := range testRows {
		x := make(map[int]float64, len(row))
		for j, v := range row {
			x[j+1] = v // libsvm feature indices are 1-based
		}
		preds[i] = int(model.Predict(x))
	}

	cm, err := BuildConfusion(testLabels, preds, k)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:      "svm (rbf)",
		Accuracy:  evaluation.GetAccuracy(cm),
		Confusion: cm,
		Summary:   evaluation.GetSummary(cm),
	}, nil
}

// writeProblem emits rows in libsvm sparse format: "label 1:v1 2:v2 …".
// Sentinel cells are real feature values here, not missing entries, so
// every index is written explicitly.
func writeProblem(path string, rows [][]float64, labels []int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, row := range rows {
		if _, err := w.WriteString(strconv.Itoa(labels[i])); err != nil {
			return err
		}
		for j, v := range row {
			if _, err := fmt.Fprintf(w, " %d:%s", j+1, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
