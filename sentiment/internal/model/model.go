// Package model holds the two tree-ensemble classifiers compared by the
// training harness. Both fit on a dense feature matrix with 0/1 targets and
// predict the probability of the positive class.
package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted = errors.New("model: classifier is not fitted")
	ErrShape     = errors.New("model: dimension mismatch")
)

// Classifier is a binary classifier with probability output.
type Classifier interface {
	Name() string
	Fit(x mat.Matrix, y []float64) error
	PredictProba(x mat.Matrix) ([]float64, error)
}

// columns copies x into column-major slices.
func columns(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		col := make([]float64, r)
		mat.Col(col, j, x)
		cols[j] = col
	}
	return cols
}

func checkFit(x mat.Matrix, y []float64) (int, int, error) {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return 0, 0, fmt.Errorf("%w: empty training matrix", ErrShape)
	}
	if r != len(y) {
		return 0, 0, fmt.Errorf("%w: %d rows, %d targets", ErrShape, r, len(y))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return 0, 0, fmt.Errorf("target %d is %v, want 0 or 1", i, v)
		}
	}
	return r, c, nil
}

func checkPredict(x mat.Matrix, features int) ([]float64, int, error) {
	if features == 0 {
		return nil, 0, ErrNotFitted
	}
	r, c := x.Dims()
	if c != features {
		return nil, 0, fmt.Errorf("%w: fitted on %d features, got %d", ErrShape, features, c)
	}
	return make([]float64, r), r, nil
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
