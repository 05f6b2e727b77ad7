package model_test

import (
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/model"
)

// separable returns n rows where column 0 decides the label and the other
// columns are noise.
func separable(n int) (*mat.Dense, []float64) {
	x := mat.NewDense(n, 4, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%2 == 1 {
			y[i] = 1
			x.Set(i, 0, float64(1+i%3))
		}
		x.Set(i, 1, float64(i%5))
		x.Set(i, 2, float64((i*7)%3))
		x.Set(i, 3, float64(i%2+i%4))
	}
	return x, y
}

func classifiers() []model.Classifier {
	return []model.Classifier{
		model.NewRandomForest(25, 3),
		model.NewGradientBoosting(30, 3),
	}
}

func TestClassifiersLearnSeparableData(t *testing.T) {
	x, y := separable(40)
	test := mat.NewDense(2, 4, []float64{
		0, 3, 1, 2,
		2, 3, 1, 2,
	})

	for _, c := range classifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			if err := c.Fit(x, y); err != nil {
				t.Fatalf("Fit() error: %v", err)
			}

			train, err := c.PredictProba(x)
			if err != nil {
				t.Fatalf("PredictProba() error: %v", err)
			}
			for i, p := range train {
				if p < 0 || p > 1 {
					t.Errorf("probability %v out of range", p)
				}
				if (p > 0.5) != (y[i] == 1) {
					t.Errorf("row %d: probability %v, label %v", i, p, y[i])
				}
			}

			probs, err := c.PredictProba(test)
			if err != nil {
				t.Fatalf("PredictProba() error: %v", err)
			}
			if probs[0] >= 0.5 || probs[1] <= 0.5 {
				t.Errorf("PredictProba(test) = %v, want [<0.5 >0.5]", probs)
			}
		})
	}
}

func TestRandomForestIndependentOfWorkers(t *testing.T) {
	x, y := separable(30)

	serial := model.NewRandomForest(15, 11)
	serial.Workers = 1
	parallel := model.NewRandomForest(15, 11)
	parallel.Workers = 6

	if err := serial.Fit(x, y); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if err := parallel.Fit(x, y); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	a, _ := serial.PredictProba(x)
	b, _ := parallel.PredictProba(x)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("predictions depend on worker count:\n%v\n%v", a, b)
	}
}

func TestGradientBoostingIsDeterministic(t *testing.T) {
	x, y := separable(30)

	first := model.NewGradientBoosting(20, 5)
	first.Subsample = 0.7
	second := model.NewGradientBoosting(20, 5)
	second.Subsample = 0.7

	if err := first.Fit(x, y); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if err := second.Fit(x, y); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	a, _ := first.PredictProba(x)
	b, _ := second.PredictProba(x)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different predictions")
	}
}

func TestClassifierErrors(t *testing.T) {
	x, y := separable(10)

	for _, c := range classifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			if _, err := c.PredictProba(x); !errors.Is(err, model.ErrNotFitted) {
				t.Errorf("PredictProba() before Fit error = %v, want ErrNotFitted", err)
			}

			if err := c.Fit(x, y[:5]); !errors.Is(err, model.ErrShape) {
				t.Errorf("Fit() with short targets error = %v, want ErrShape", err)
			}

			bad := append([]float64(nil), y...)
			bad[0] = 2
			if err := c.Fit(x, bad); err == nil {
				t.Error("Fit() with non-binary target should fail")
			}

			if err := c.Fit(x, y); err != nil {
				t.Fatalf("Fit() error: %v", err)
			}
			if _, err := c.PredictProba(mat.NewDense(1, 3, nil)); !errors.Is(err, model.ErrShape) {
				t.Errorf("PredictProba() with wrong width error = %v, want ErrShape", err)
			}
		})
	}
}

func TestSingleClassTarget(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 0, 0, 1, 1, 1, 0, 0})
	y := []float64{1, 1, 1, 1}

	for _, c := range classifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			if err := c.Fit(x, y); err != nil {
				t.Fatalf("Fit() error: %v", err)
			}
			probs, err := c.PredictProba(x)
			if err != nil {
				t.Fatalf("PredictProba() error: %v", err)
			}
			for _, p := range probs {
				if p <= 0.5 {
					t.Errorf("probability %v for an all-positive target", p)
				}
			}
		})
	}
}

func BenchmarkRandomForestFit(b *testing.B) {
	x, y := separable(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := model.NewRandomForest(50, int64(i))
		if err := f.Fit(x, y); err != nil {
			b.Fatal(err)
		}
	}
}
