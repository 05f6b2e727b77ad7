package plots_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/plots"
)

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%s) error: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("%s is empty", path)
	}
}

func TestROC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "roc.png")

	err := plots.ROC(path,
		plots.Curve{Label: "random_forest", FPR: []float64{0, 0.2, 0.5, 1}, TPR: []float64{0, 0.6, 0.9, 1}},
		plots.Curve{Label: "gradient_boosting", FPR: []float64{0, 0.1, 1}, TPR: []float64{0, 0.7, 1}},
	)
	if err != nil {
		t.Fatalf("ROC() error: %v", err)
	}
	assertFile(t, path)
}

func TestROCMismatchedCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roc.png")

	err := plots.ROC(path, plots.Curve{Label: "bad", FPR: []float64{0, 1}, TPR: []float64{0}})
	if err == nil {
		t.Error("ROC() with mismatched curve should fail")
	}
}

func TestBars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_positive.png")

	bars := []plots.Bar{
		{Label: "great", Value: 12},
		{Label: "film", Value: 9},
		{Label: "love", Value: 4},
	}
	if err := plots.Bars(path, "Top positive terms", "count", bars); err != nil {
		t.Fatalf("Bars() error: %v", err)
	}
	assertFile(t, path)

	if err := plots.Bars(path, "empty", "count", nil); err == nil {
		t.Error("Bars() with no bars should fail")
	}
}
