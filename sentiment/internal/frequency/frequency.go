// Package frequency aggregates normalized tokens into per-label term
// frequency and TF-IDF tables. Each label is one aggregate document for
// IDF purposes, so a term used by both labels scores zero.
package frequency

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
)

// Metric selects the column TopN ranks by.
type Metric int

const (
	ByCount Metric = iota
	ByTFIDF
)

func (m Metric) column() string {
	if m == ByTFIDF {
		return "TFIDF"
	}
	return "Count"
}

func (m Metric) String() string {
	if m == ByTFIDF {
		return "tfidf"
	}
	return "count"
}

// TermStat is one (label, term) row of the table.
type TermStat struct {
	Term  string
	Count int
	TF    float64
	IDF   float64
	TFIDF float64
}

// Table holds the statistics of every term for both labels. Terms a label
// never uses are absent from that label's listing.
type Table struct {
	vocabulary textprocessor.Vocabulary
	stats      map[corpus.Sentiment][]TermStat
	totals     map[corpus.Sentiment]int
}

// Analyze counts tokens per label and weights the counts with an inverse
// document frequency fitted over the two label documents.
func Analyze(tokens []textprocessor.TokenRecord) (*Table, error) {
	counts := make(map[corpus.Sentiment]map[string]int, len(corpus.Sentiments))
	totals := make(map[corpus.Sentiment]int, len(corpus.Sentiments))
	terms := make([]string, 0)
	for _, s := range corpus.Sentiments {
		counts[s] = make(map[string]int)
	}
	for _, tok := range tokens {
		counts[tok.Sentiment][tok.Word]++
		totals[tok.Sentiment]++
		terms = append(terms, tok.Word)
	}

	table := &Table{
		vocabulary: textprocessor.NewVocabulary(terms),
		stats:      make(map[corpus.Sentiment][]TermStat, len(corpus.Sentiments)),
		totals:     totals,
	}
	if table.vocabulary.Len() == 0 {
		return table, nil
	}

	// term x label matrix of relative frequencies
	tf := mat.NewDense(table.vocabulary.Len(), len(corpus.Sentiments), nil)
	for j, s := range corpus.Sentiments {
		if totals[s] == 0 {
			continue
		}
		for term, c := range counts[s] {
			tf.Set(table.vocabulary.Index(term), j, float64(c)/float64(totals[s]))
		}
	}

	weighted, err := nlp.NewTfidfTransformer().FitTransform(tf)
	if err != nil {
		return nil, fmt.Errorf("tf-idf transform: %w", err)
	}

	for i := 0; i < table.vocabulary.Len(); i++ {
		term := table.vocabulary.Term(i)
		idf := 0.0
		for j := range corpus.Sentiments {
			if f := tf.At(i, j); f > 0 {
				idf = weighted.At(i, j) / f
				break
			}
		}
		for j, s := range corpus.Sentiments {
			c := counts[s][term]
			if c == 0 {
				continue
			}
			table.stats[s] = append(table.stats[s], TermStat{
				Term:  term,
				Count: c,
				TF:    tf.At(i, j),
				IDF:   idf,
				TFIDF: weighted.At(i, j),
			})
		}
	}

	return table, nil
}

// Vocabulary returns every term seen under either label.
func (t *Table) Vocabulary() textprocessor.Vocabulary {
	return t.vocabulary
}

// Total returns the number of tokens carrying sentiment s.
func (t *Table) Total(s corpus.Sentiment) int {
	return t.totals[s]
}

// Terms lists the statistics for s in lexicographic term order.
func (t *Table) Terms(s corpus.Sentiment) []TermStat {
	return append([]TermStat(nil), t.stats[s]...)
}

// TopN returns the n highest ranked terms for s. Equal scores are ordered
// lexicographically by term. n <= 0 returns the whole ranking.
func (t *Table) TopN(s corpus.Sentiment, n int, by Metric) ([]TermStat, error) {
	stats := t.stats[s]
	if len(stats) == 0 {
		return nil, nil
	}

	df := dataframe.LoadStructs(stats)
	if df.Err != nil {
		return nil, fmt.Errorf("load %s terms: %w", s, df.Err)
	}
	ranked := df.Arrange(dataframe.RevSort(by.column()), dataframe.Sort("Term"))
	if ranked.Err != nil {
		return nil, fmt.Errorf("rank %s terms by %s: %w", s, by, ranked.Err)
	}

	byTerm := make(map[string]TermStat, len(stats))
	for _, st := range stats {
		byTerm[st.Term] = st
	}

	order := ranked.Col("Term").Records()
	if n <= 0 || n > len(order) {
		n = len(order)
	}
	top := make([]TermStat, n)
	for i := 0; i < n; i++ {
		top[i] = byTerm[order[i]]
	}
	return top, nil
}

// Distinctive returns the terms used by exactly one label, sorted.
func (t *Table) Distinctive(s corpus.Sentiment) []string {
	var out []string
	for _, st := range t.stats[s] {
		if st.TFIDF > 0 {
			out = append(out, st.Term)
		}
	}
	sort.Strings(out)
	return out
}
