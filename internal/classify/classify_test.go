package classify

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sjwhitworth/golearn/evaluation"
)

func TestSplitPartitions(t *testing.T) {
	train, test := Split(100, 0.75, 320)
	if len(train) != 75 || len(test) != 25 {
		t.Fatalf("expected 75/25, got %d/%d", len(train), len(test))
	}
	seen := make(map[int]bool, 100)
	for _, i := range append(append([]int(nil), train...), test...) {
		if i < 0 || i >= 100 {
			t.Fatalf("index %d out of range", i)
		}
		if seen[i] {
			t.Fatalf("index %d in both sides", i)
		}
		seen[i] = true
	}
	if len(seen) != 100 {
		t.Errorf("split dropped %d rows", 100-len(seen))
	}
}

func TestSplitDeterministicUnderFixedSeed(t *testing.T) {
	a1, b1 := Split(500, 0.75, 7)
	a2, b2 := Split(500, 0.75, 7)
	if !reflect.DeepEqual(a1, a2) || !reflect.DeepEqual(b1, b2) {
		t.Error("same seed produced different splits")
	}
	a3, _ := Split(500, 0.75, 8)
	if reflect.DeepEqual(a1, a3) {
		t.Error("different seeds produced identical splits")
	}
}

func TestTake(t *testing.T) {
	rows := [][]float64{{1}, {2}, {3}, {4}}
	labels := []int{10, 20, 30, 40}
	gotR, gotL := Take(rows, labels, []int{3, 1})
	if !reflect.DeepEqual(gotR, [][]float64{{4}, {2}}) || !reflect.DeepEqual(gotL, []int{40, 20}) {
		t.Errorf("Take mismatch: %v %v", gotR, gotL)
	}
}

func TestBuildConfusionSumsToTestSize(t *testing.T) {
	trueLabels := []int{0, 0, 1, 1, 2, 2, 2, 0}
	predLabels := []int{0, 1, 1, 1, 2, 0, 2, 0}
	cm, err := BuildConfusion(trueLabels, predLabels, 3)
	if err != nil {
		t.Fatalf("BuildConfusion: %v", err)
	}
	total := 0
	for _, row := range cm {
		for _, n := range row {
			total += n
		}
	}
	if total != len(trueLabels) {
		t.Errorf("confusion matrix total %d, want %d", total, len(trueLabels))
	}
	if cm["0"]["0"] != 2 || cm["0"]["1"] != 1 || cm["2"]["0"] != 1 {
		t.Errorf("unexpected counts: %v", cm)
	}
	// golearn's evaluation helpers must accept the hand-built matrix
	if acc := evaluation.GetAccuracy(cm); acc != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", acc)
	}
}

func TestBuildConfusionCoversAllClassPairs(t *testing.T) {
	cm, err := BuildConfusion([]int{0}, []int{0}, 3)
	if err != nil {
		t.Fatalf("BuildConfusion: %v", err)
	}
	if len(cm) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(cm))
	}
	for c, row := range cm {
		if len(row) != 3 {
			t.Errorf("row %s has %d columns, want 3", c, len(row))
		}
	}
}

func TestFormatConfusionPutsPredictionsOnRows(t *testing.T) {
	// one row misclassified: true 0 predicted as 1
	cm, err := BuildConfusion([]int{0, 0, 1}, []int{0, 1, 1}, 2)
	if err != nil {
		t.Fatalf("BuildConfusion: %v", err)
	}
	out := FormatConfusion(cm)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "pred \\ true") {
		t.Errorf("header must state the orientation, got %q", lines[0])
	}
	// row "0" = predicted 0: one true 0, zero true 1
	if f := strings.Fields(lines[1]); f[0] != "0" || f[1] != "1" || f[2] != "0" {
		t.Errorf("predicted-0 row mismatch: %q", lines[1])
	}
	// row "1" = predicted 1: one true 0 (the miss), one true 1
	if f := strings.Fields(lines[2]); f[0] != "1" || f[1] != "1" || f[2] != "1" {
		t.Errorf("predicted-1 row mismatch: %q", lines[2])
	}
}

func TestBuildConfusionLengthMismatch(t *testing.T) {
	if _, err := BuildConfusion([]int{0, 1}, []int{0}, 2); err == nil {
		t.Error("length mismatch must fail")
	}
}
