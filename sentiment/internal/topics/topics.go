// Package topics fits a Latent Dirichlet Allocation model over normalized
// review documents. The model is descriptive only; nothing downstream
// consumes it besides reporting.
package topics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	log "github.com/sirupsen/logrus"
)

// ErrNoDocuments is returned when every document is empty.
var ErrNoDocuments = errors.New("topics: no non-empty documents")

type Options struct {
	K                    int
	Seed                 int64
	Iterations           int
	TransformationPasses int
}

func DefaultOptions() Options {
	return Options{
		K:                    8,
		Seed:                 42,
		Iterations:           50,
		TransformationPasses: 25,
	}
}

// WeightedTerm is one term of a topic with its weight in the topic.
type WeightedTerm struct {
	Term   string
	Weight float64
}

// Model is a fitted topic model. Topic-term weights are K x |vocabulary|,
// document-topic weights are K x documents.
type Model struct {
	k               int
	vocabulary      []string
	topicsOverWords mat.Matrix
	docsOverTopics  mat.Matrix
}

// Fit builds the document-term count matrix for docs and infers K topics.
// Empty documents are skipped. A single inference process and a seeded
// source make repeated fits over the same documents identical.
func Fit(docs [][]string, opts Options) (*Model, error) {
	if opts.K < 1 {
		return nil, fmt.Errorf("topics: k must be positive, got %d", opts.K)
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		texts = append(texts, strings.Join(doc, " "))
	}
	if len(texts) == 0 {
		return nil, ErrNoDocuments
	}

	vectoriser := nlp.NewCountVectoriser()

	lda := nlp.NewLatentDirichletAllocation(opts.K)
	lda.Processes = 1
	lda.Rnd = rand.New(rand.NewSource(uint64(opts.Seed)))
	if opts.Iterations > 0 {
		lda.Iterations = opts.Iterations
	}
	if opts.TransformationPasses > 0 {
		lda.TransformationPasses = opts.TransformationPasses
	}

	log.WithFields(log.Fields{
		"documents": len(texts),
		"skipped":   len(docs) - len(texts),
		"k":         opts.K,
		"seed":      opts.Seed,
	}).Info("fitting topic model")

	pipeline := nlp.NewPipeline(vectoriser, lda)
	docsOverTopics, err := pipeline.FitTransform(texts...)
	if err != nil {
		return nil, fmt.Errorf("fit lda: %w", err)
	}

	vocabulary := make([]string, len(vectoriser.Vocabulary))
	for term, i := range vectoriser.Vocabulary {
		vocabulary[i] = term
	}

	return &Model{
		k:               opts.K,
		vocabulary:      vocabulary,
		topicsOverWords: lda.Components(),
		docsOverTopics:  docsOverTopics,
	}, nil
}

func (m *Model) K() int {
	return m.k
}

// Documents returns the number of non-empty documents the model was fitted on.
func (m *Model) Documents() int {
	_, c := m.docsOverTopics.Dims()
	return c
}

func (m *Model) Vocabulary() []string {
	return append([]string(nil), m.vocabulary...)
}

// TopTerms returns the n heaviest terms of topic, ties ordered by term.
func (m *Model) TopTerms(topic, n int) ([]WeightedTerm, error) {
	if topic < 0 || topic >= m.k {
		return nil, fmt.Errorf("topics: topic %d out of range [0,%d)", topic, m.k)
	}

	terms := make([]WeightedTerm, len(m.vocabulary))
	for w, term := range m.vocabulary {
		terms[w] = WeightedTerm{Term: term, Weight: m.topicsOverWords.At(topic, w)}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})

	if n > 0 && n < len(terms) {
		terms = terms[:n]
	}
	return terms, nil
}

// DominantTopicCounts returns, per topic, how many documents weigh that
// topic highest.
func (m *Model) DominantTopicCounts() []int {
	counts := make([]int, m.k)
	rows, cols := m.docsOverTopics.Dims()
	for doc := 0; doc < cols; doc++ {
		best, winner := -1.0, 0
		for topic := 0; topic < rows; topic++ {
			if v := m.docsOverTopics.At(topic, doc); v > best {
				best, winner = v, topic
			}
		}
		counts[winner]++
	}
	return counts
}
