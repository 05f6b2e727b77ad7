// Package features turns a label-balanced sample of reviews into a dense
// document-term count matrix.
//
// The matrix is built in two passes. The first pass normalizes every sampled
// review and fixes the vocabulary; the second materializes one row per review
// against that vocabulary. Every row therefore has the same width and column
// order, and subsets of the matrix share one column set.
package features

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	log "github.com/sirupsen/logrus"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
)

// LabelColumn is the name of the label column in Header and CSV output.
const LabelColumn = "sentiment"

// ErrEmptyVocabulary is returned when no sampled review keeps a single token.
var ErrEmptyVocabulary = errors.New("features: sample has no surviving tokens")

// EmptyDocumentWarning marks a sampled review that kept no tokens. Its row
// stays in the matrix as all zeros.
type EmptyDocumentWarning struct {
	ReviewID int
}

func (w EmptyDocumentWarning) Error() string {
	return fmt.Sprintf("review %d has no tokens after filtering", w.ReviewID)
}

// RowCountError reports a matrix whose labels or review IDs do not cover its
// count rows one to one.
type RowCountError struct {
	Want int
	Have int
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("feature matrix has %d count rows, %d labelled rows", e.Want, e.Have)
}

type Options struct {
	PerLabel   int
	Seed       int64
	Normalizer *textprocessor.TextProcessor
}

// Matrix is a document-term count matrix joined with review labels. Row i of
// Counts, Labels[i] and ReviewIDs[i] describe the same review.
type Matrix struct {
	Vocabulary textprocessor.Vocabulary
	Counts     *mat.Dense
	Labels     []corpus.Sentiment
	ReviewIDs  []int
	Warnings   []EmptyDocumentWarning
}

// Build samples opts.PerLabel reviews per label and assembles their matrix.
func Build(reviews []corpus.Review, opts Options) (*Matrix, error) {
	sample, err := StratifiedSample(reviews, opts.PerLabel, opts.Seed)
	if err != nil {
		return nil, err
	}
	return FromReviews(sample, opts.Normalizer)
}

// FromReviews assembles the matrix of reviews in the given order. Row i is
// reviews[i], empty reviews included, so the matrix always has one row per
// review.
func FromReviews(reviews []corpus.Review, normalizer *textprocessor.TextProcessor) (*Matrix, error) {
	if normalizer == nil {
		normalizer = textprocessor.NewTextProcessor(textprocessor.DefaultOptions())
	}

	// Pass 1: tokens per review and the sample vocabulary.
	docs := make([][]string, len(reviews))
	var terms []string
	var warnings []EmptyDocumentWarning
	for i, r := range reviews {
		docs[i] = normalizer.Process(r.Text)
		if len(docs[i]) == 0 {
			w := EmptyDocumentWarning{ReviewID: r.ID}
			warnings = append(warnings, w)
			log.WithField("review_id", r.ID).Warn(w.Error())
			continue
		}
		terms = append(terms, docs[i]...)
	}

	vocabulary := textprocessor.NewVocabulary(terms)
	if vocabulary.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Pass 2: fixed-width rows.
	counts := mat.NewDense(len(reviews), vocabulary.Len(), nil)
	labels := make([]corpus.Sentiment, len(reviews))
	ids := make([]int, len(reviews))
	for i, r := range reviews {
		for _, term := range docs[i] {
			j := vocabulary.Index(term)
			counts.Set(i, j, counts.At(i, j)+1)
		}
		labels[i] = r.Sentiment
		ids[i] = r.ID
	}

	m := &Matrix{
		Vocabulary: vocabulary,
		Counts:     counts,
		Labels:     labels,
		ReviewIDs:  ids,
		Warnings:   warnings,
	}

	log.WithFields(log.Fields{
		"rows":    m.Rows(),
		"columns": m.Cols() + 1,
		"empty":   len(warnings),
	}).Info("feature matrix built")

	return m, nil
}

// Validate checks that every count row has exactly one label and one review
// ID and that the count columns match the vocabulary.
func (m *Matrix) Validate() error {
	if m.Counts == nil {
		return &RowCountError{Want: 0, Have: len(m.Labels)}
	}
	rows := m.Rows()
	if len(m.Labels) != rows {
		return &RowCountError{Want: rows, Have: len(m.Labels)}
	}
	if len(m.ReviewIDs) != rows {
		return &RowCountError{Want: rows, Have: len(m.ReviewIDs)}
	}
	if m.Cols() != m.Vocabulary.Len() {
		return fmt.Errorf("feature matrix has %d count columns, vocabulary has %d terms", m.Cols(), m.Vocabulary.Len())
	}
	return nil
}

func (m *Matrix) Rows() int {
	r, _ := m.Counts.Dims()
	return r
}

// Cols returns the number of feature columns, not counting the label.
func (m *Matrix) Cols() int {
	_, c := m.Counts.Dims()
	return c
}

// Header returns the label column followed by one column per term. A term
// equal to the label column name is suffixed to keep names unique.
func (m *Matrix) Header() []string {
	header := make([]string, 0, m.Vocabulary.Len()+1)
	header = append(header, LabelColumn)
	for _, term := range m.Vocabulary.Terms() {
		if term == LabelColumn {
			term += "_term"
		}
		header = append(header, term)
	}
	return header
}

// Target returns the labels as 1 for positive and 0 for negative.
func (m *Matrix) Target() []float64 {
	y := make([]float64, len(m.Labels))
	for i, l := range m.Labels {
		if l == corpus.Positive {
			y[i] = 1
		}
	}
	return y
}

// Subset copies the given rows, in the given order, into a new matrix with
// the same vocabulary.
func (m *Matrix) Subset(rows []int) *Matrix {
	sub := &Matrix{
		Vocabulary: m.Vocabulary,
		Labels:     make([]corpus.Sentiment, len(rows)),
		ReviewIDs:  make([]int, len(rows)),
	}
	if len(rows) > 0 {
		sub.Counts = mat.NewDense(len(rows), m.Cols(), nil)
	} else {
		sub.Counts = &mat.Dense{}
	}

	empty := make(map[int]bool, len(m.Warnings))
	for _, w := range m.Warnings {
		empty[w.ReviewID] = true
	}
	for i, r := range rows {
		sub.Counts.SetRow(i, m.Counts.RawRowView(r))
		sub.Labels[i] = m.Labels[r]
		sub.ReviewIDs[i] = m.ReviewIDs[r]
		if empty[m.ReviewIDs[r]] {
			sub.Warnings = append(sub.Warnings, EmptyDocumentWarning{ReviewID: m.ReviewIDs[r]})
		}
	}
	return sub
}

// WriteCSV writes the label column and the term counts, one row per review.
func (m *Matrix) WriteCSV(w io.Writer) error {
	header := m.Header()
	columns := make([]series.Series, 0, len(header))

	labels := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		labels[i] = l.String()
	}
	columns = append(columns, series.New(labels, series.String, header[0]))

	for j := 0; j < m.Cols(); j++ {
		col := make([]int, m.Rows())
		for i := range col {
			col[i] = int(m.Counts.At(i, j))
		}
		columns = append(columns, series.New(col, series.Int, header[j+1]))
	}

	return dataframe.New(columns...).WriteCSV(w)
}
