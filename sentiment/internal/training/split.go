// Package training partitions a feature matrix into train and test rows and
// fits the classifiers on it.
package training

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/features"
)

// Split is a disjoint partition of a matrix's rows. TrainRows and TestRows
// index the source matrix and are each in ascending order.
type Split struct {
	Train     *features.Matrix
	Test      *features.Matrix
	TrainRows []int
	TestRows  []int
}

// ColumnAlignmentError reports train and test matrices whose feature
// columns differ.
type ColumnAlignmentError struct {
	Train []string
	Test  []string
}

func (e *ColumnAlignmentError) Error() string {
	if len(e.Train) != len(e.Test) {
		return fmt.Sprintf("column mismatch: train has %d columns, test has %d", len(e.Train), len(e.Test))
	}
	for i := range e.Train {
		if e.Train[i] != e.Test[i] {
			return fmt.Sprintf("column mismatch at %d: train %q, test %q", i, e.Train[i], e.Test[i])
		}
	}
	return "column mismatch"
}

// StratifiedSplit puts round(fraction*n) rows of each label in the train
// partition and the rest in the test partition.
func StratifiedSplit(m *features.Matrix, fraction float64, seed int64) (Split, error) {
	if fraction <= 0 || fraction >= 1 {
		return Split{}, fmt.Errorf("train fraction must be in (0, 1), got %v", fraction)
	}
	if err := m.Validate(); err != nil {
		return Split{}, err
	}

	byLabel := make(map[corpus.Sentiment][]int, len(corpus.Sentiments))
	for i, l := range m.Labels {
		byLabel[l] = append(byLabel[l], i)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	var train, test []int
	for _, s := range corpus.Sentiments {
		rows := append([]int(nil), byLabel[s]...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		k := int(math.Round(fraction * float64(len(rows))))
		train = append(train, rows[:k]...)
		test = append(test, rows[k:]...)
	}
	if len(train) == 0 || len(test) == 0 {
		return Split{}, fmt.Errorf("split of %d rows at %v leaves an empty partition", m.Rows(), fraction)
	}

	sort.Ints(train)
	sort.Ints(test)

	split := Split{
		Train:     m.Subset(train),
		Test:      m.Subset(test),
		TrainRows: train,
		TestRows:  test,
	}
	if err := CheckAlignment(split.Train, split.Test); err != nil {
		return Split{}, err
	}
	return split, nil
}

// CheckAlignment fails unless both matrices expose the same columns in the
// same order.
func CheckAlignment(train, test *features.Matrix) error {
	trainHeader, testHeader := train.Header(), test.Header()
	aligned := len(trainHeader) == len(testHeader) &&
		train.Vocabulary.Equal(test.Vocabulary) &&
		train.Cols() == train.Vocabulary.Len() &&
		test.Cols() == test.Vocabulary.Len()
	if !aligned {
		return &ColumnAlignmentError{Train: trainHeader, Test: testHeader}
	}
	return nil
}
