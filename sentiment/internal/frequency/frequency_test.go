package frequency_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/frequency"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
)

func records(s corpus.Sentiment, id int, words ...string) []textprocessor.TokenRecord {
	out := make([]textprocessor.TokenRecord, len(words))
	for i, w := range words {
		out[i] = textprocessor.TokenRecord{ReviewID: id, Sentiment: s, Word: w}
	}
	return out
}

func sampleTokens() []textprocessor.TokenRecord {
	var tokens []textprocessor.TokenRecord
	tokens = append(tokens, records(corpus.Positive, 0, "great", "film")...)
	tokens = append(tokens, records(corpus.Positive, 1, "great", "act")...)
	tokens = append(tokens, records(corpus.Negative, 2, "bad", "plot")...)
	tokens = append(tokens, records(corpus.Negative, 3, "bad", "film")...)
	return tokens
}

func terms(stats []frequency.TermStat) []string {
	out := make([]string, len(stats))
	for i, st := range stats {
		out[i] = st.Term
	}
	return out
}

func TestAnalyzeCounts(t *testing.T) {
	table, err := frequency.Analyze(sampleTokens())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if table.Total(corpus.Positive) != 4 || table.Total(corpus.Negative) != 4 {
		t.Errorf("totals = %d/%d, want 4/4", table.Total(corpus.Positive), table.Total(corpus.Negative))
	}

	want := []string{"act", "bad", "film", "great", "plot"}
	if !reflect.DeepEqual(table.Vocabulary().Terms(), want) {
		t.Errorf("Vocabulary() = %v, want %v", table.Vocabulary().Terms(), want)
	}

	positive := table.Terms(corpus.Positive)
	if !reflect.DeepEqual(terms(positive), []string{"act", "film", "great"}) {
		t.Fatalf("Terms(positive) = %v", terms(positive))
	}
	great := positive[2]
	if great.Count != 2 || great.TF != 0.5 {
		t.Errorf("great = %+v, want count 2 and tf 0.5", great)
	}
}

func TestAnalyzeIDFIsBinary(t *testing.T) {
	table, err := frequency.Analyze(sampleTokens())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	full := math.Log(3.0 / 2.0)
	for _, st := range table.Terms(corpus.Positive) {
		switch st.Term {
		case "film":
			if st.IDF != 0 || st.TFIDF != 0 {
				t.Errorf("shared term film = %+v, want zero idf", st)
			}
		default:
			if math.Abs(st.IDF-full) > 1e-12 {
				t.Errorf("IDF(%q) = %v, want %v", st.Term, st.IDF, full)
			}
			if math.Abs(st.TFIDF-st.TF*full) > 1e-12 {
				t.Errorf("TFIDF(%q) = %v, want %v", st.Term, st.TFIDF, st.TF*full)
			}
		}
	}

	if got := table.Distinctive(corpus.Negative); !reflect.DeepEqual(got, []string{"bad", "plot"}) {
		t.Errorf("Distinctive(negative) = %v", got)
	}
}

func TestTopN(t *testing.T) {
	table, err := frequency.Analyze(sampleTokens())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	tests := []struct {
		name      string
		sentiment corpus.Sentiment
		n         int
		by        frequency.Metric
		expected  []string
	}{
		{"count with tie", corpus.Positive, 2, frequency.ByCount, []string{"great", "act"}},
		{"count all", corpus.Positive, 0, frequency.ByCount, []string{"great", "act", "film"}},
		{"tfidf", corpus.Positive, 3, frequency.ByTFIDF, []string{"great", "act", "film"}},
		{"n larger than table", corpus.Negative, 10, frequency.ByCount, []string{"bad", "film", "plot"}},
		{"tfidf negative", corpus.Negative, 2, frequency.ByTFIDF, []string{"bad", "plot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, err := table.TopN(tt.sentiment, tt.n, tt.by)
			if err != nil {
				t.Fatalf("TopN() error: %v", err)
			}
			if !reflect.DeepEqual(terms(top), tt.expected) {
				t.Errorf("TopN(%s, %d, %s) = %v, want %v", tt.sentiment, tt.n, tt.by, terms(top), tt.expected)
			}
		})
	}
}

func TestTopNTieBreakIsLexicographic(t *testing.T) {
	tokens := records(corpus.Positive, 0, "zeta", "alpha", "mid", "beta")
	table, err := frequency.Analyze(tokens)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	top, err := table.TopN(corpus.Positive, 3, frequency.ByCount)
	if err != nil {
		t.Fatalf("TopN() error: %v", err)
	}
	if !reflect.DeepEqual(terms(top), []string{"alpha", "beta", "mid"}) {
		t.Errorf("TopN() = %v, want [alpha beta mid]", terms(top))
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	table, err := frequency.Analyze(nil)
	if err != nil {
		t.Fatalf("Analyze(nil) error: %v", err)
	}
	if table.Vocabulary().Len() != 0 {
		t.Errorf("Vocabulary().Len() = %d, want 0", table.Vocabulary().Len())
	}
	top, err := table.TopN(corpus.Positive, 5, frequency.ByTFIDF)
	if err != nil || len(top) != 0 {
		t.Errorf("TopN() on empty table = %v, %v", top, err)
	}
}
