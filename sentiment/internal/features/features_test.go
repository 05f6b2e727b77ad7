package features_test

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/features"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/tokenizer"
)

func toyCorpus() []corpus.Review {
	return []corpus.Review{
		{ID: 0, Text: "great film", Sentiment: corpus.Positive},
		{ID: 1, Text: "wonderful acting", Sentiment: corpus.Positive},
		{ID: 2, Text: "terrible waste", Sentiment: corpus.Negative},
		{ID: 3, Text: "bad plot", Sentiment: corpus.Negative},
	}
}

func stemmingNormalizer() *textprocessor.TextProcessor {
	return textprocessor.NewTextProcessor(textprocessor.Options{
		StopWords: tokenizer.NewStopWordSet("the", "a", "is"),
		Artifact:  tokenizer.MarkupArtifact,
		Stem:      true,
	})
}

func largeCorpus(perLabel int) []corpus.Review {
	var reviews []corpus.Review
	for i := 0; i < perLabel*2; i++ {
		s := corpus.Sentiments[i%2]
		reviews = append(reviews, corpus.Review{
			ID:        i,
			Text:      fmt.Sprintf("%s review number %s", s, strings.Repeat("x", i%7+1)),
			Sentiment: s,
		})
	}
	return reviews
}

func TestBuildToyCorpus(t *testing.T) {
	m, err := features.Build(toyCorpus(), features.Options{
		PerLabel:   2,
		Seed:       1,
		Normalizer: stemmingNormalizer(),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	wantVocab := []string{"act", "bad", "film", "great", "plot", "terribl", "wast", "wonder"}
	if !reflect.DeepEqual(m.Vocabulary.Terms(), wantVocab) {
		t.Errorf("Vocabulary = %v, want %v", m.Vocabulary.Terms(), wantVocab)
	}
	if m.Rows() != 4 {
		t.Errorf("Rows() = %d, want 4", m.Rows())
	}
	if len(m.Header()) != len(wantVocab)+1 {
		t.Errorf("len(Header()) = %d, want %d", len(m.Header()), len(wantVocab)+1)
	}

	own := map[int][]string{
		0: {"great", "film"},
		1: {"wonder", "act"},
		2: {"terribl", "wast"},
		3: {"bad", "plot"},
	}
	for i, id := range m.ReviewIDs {
		words := make(map[string]bool)
		for _, w := range own[id] {
			words[w] = true
		}
		for j, term := range m.Vocabulary.Terms() {
			want := 0.0
			if words[term] {
				want = 1
			}
			if got := m.Counts.At(i, j); got != want {
				t.Errorf("review %d, term %q: count %v, want %v", id, term, got, want)
			}
		}
	}

	// negative draws first, then positive
	for i, l := range m.Labels {
		want := corpus.Negative
		if i >= 2 {
			want = corpus.Positive
		}
		if l != want {
			t.Errorf("Labels[%d] = %s, want %s", i, l, want)
		}
	}
}

func TestStratifiedSample(t *testing.T) {
	reviews := largeCorpus(50)

	sample, err := features.StratifiedSample(reviews, 20, 42)
	if err != nil {
		t.Fatalf("StratifiedSample() error: %v", err)
	}
	if len(sample) != 40 {
		t.Fatalf("len(sample) = %d, want 40", len(sample))
	}

	seen := make(map[int]bool)
	perLabel := make(map[corpus.Sentiment]int)
	for _, r := range sample {
		if seen[r.ID] {
			t.Errorf("review %d drawn twice", r.ID)
		}
		seen[r.ID] = true
		perLabel[r.Sentiment]++
		if reviews[r.ID] != r {
			t.Errorf("sampled review %d differs from the corpus", r.ID)
		}
	}
	if perLabel[corpus.Positive] != 20 || perLabel[corpus.Negative] != 20 {
		t.Errorf("per-label counts = %v, want 20 each", perLabel)
	}

	again, _ := features.StratifiedSample(reviews, 20, 42)
	if !reflect.DeepEqual(sample, again) {
		t.Error("same seed produced different samples")
	}
}

func TestStratifiedSampleErrors(t *testing.T) {
	_, err := features.StratifiedSample(toyCorpus(), 3, 1)

	var samplingErr *features.SamplingError
	if !errors.As(err, &samplingErr) {
		t.Fatalf("StratifiedSample() error = %v, want SamplingError", err)
	}
	if samplingErr.Want != 3 || samplingErr.Have != 2 {
		t.Errorf("SamplingError = %+v, want Want 3 Have 2", samplingErr)
	}

	if _, err := features.StratifiedSample(toyCorpus(), 0, 1); err == nil {
		t.Error("StratifiedSample() with n=0 should fail")
	}
}

func TestBuildKeepsEmptyDocuments(t *testing.T) {
	reviews := []corpus.Review{
		{ID: 10, Text: "the 42 <br />", Sentiment: corpus.Negative},
		{ID: 11, Text: "bad plot", Sentiment: corpus.Negative},
		{ID: 12, Text: "great film", Sentiment: corpus.Positive},
	}

	m, err := features.FromReviews(reviews, stemmingNormalizer())
	if err != nil {
		t.Fatalf("FromReviews() error: %v", err)
	}

	if m.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", m.Rows())
	}
	if !reflect.DeepEqual(m.Warnings, []features.EmptyDocumentWarning{{ReviewID: 10}}) {
		t.Errorf("Warnings = %v", m.Warnings)
	}
	for j := 0; j < m.Cols(); j++ {
		if m.Counts.At(0, j) != 0 {
			t.Errorf("empty review has count %v in column %d", m.Counts.At(0, j), j)
		}
	}
}

func TestFromReviewsAllEmpty(t *testing.T) {
	reviews := []corpus.Review{{ID: 0, Text: "the", Sentiment: corpus.Negative}}

	if _, err := features.FromReviews(reviews, stemmingNormalizer()); !errors.Is(err, features.ErrEmptyVocabulary) {
		t.Errorf("FromReviews() error = %v, want ErrEmptyVocabulary", err)
	}
}

func TestValidate(t *testing.T) {
	build := func() *features.Matrix {
		m, err := features.FromReviews(toyCorpus(), stemmingNormalizer())
		if err != nil {
			t.Fatalf("FromReviews() error: %v", err)
		}
		return m
	}

	if err := build().Validate(); err != nil {
		t.Fatalf("Validate() on a built matrix = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*features.Matrix)
		want   features.RowCountError
	}{
		{"missing label", func(m *features.Matrix) { m.Labels = m.Labels[:3] }, features.RowCountError{Want: 4, Have: 3}},
		{"extra review id", func(m *features.Matrix) { m.ReviewIDs = append(m.ReviewIDs, 99) }, features.RowCountError{Want: 4, Have: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build()
			tt.mutate(m)
			var rowErr *features.RowCountError
			if err := m.Validate(); !errors.As(err, &rowErr) || *rowErr != tt.want {
				t.Errorf("Validate() = %v, want %+v", err, tt.want)
			}
		})
	}

	m := build()
	m.Vocabulary = textprocessor.NewVocabulary([]string{"great"})
	if err := m.Validate(); err == nil {
		t.Error("Validate() with a short vocabulary should fail")
	}
}

func TestSubsetSharesVocabulary(t *testing.T) {
	m, err := features.FromReviews(toyCorpus(), stemmingNormalizer())
	if err != nil {
		t.Fatalf("FromReviews() error: %v", err)
	}

	sub := m.Subset([]int{3, 1})
	if !sub.Vocabulary.Equal(m.Vocabulary) {
		t.Error("subset vocabulary differs")
	}
	if !reflect.DeepEqual(sub.ReviewIDs, []int{3, 1}) {
		t.Errorf("ReviewIDs = %v, want [3 1]", sub.ReviewIDs)
	}
	for j := 0; j < m.Cols(); j++ {
		if sub.Counts.At(0, j) != m.Counts.At(3, j) {
			t.Fatalf("subset row 0 differs from source row 3 at column %d", j)
		}
	}
	if !reflect.DeepEqual(sub.Target(), []float64{0, 1}) {
		t.Errorf("Target() = %v, want [0 1]", sub.Target())
	}
}

func TestHeaderRenamesClashingTerm(t *testing.T) {
	reviews := []corpus.Review{{ID: 0, Text: "sentiment matters", Sentiment: corpus.Positive}}
	normalizer := textprocessor.NewTextProcessor(textprocessor.Options{
		StopWords: tokenizer.NewStopWordSet("the"),
		Artifact:  tokenizer.MarkupArtifact,
	})

	m, err := features.FromReviews(reviews, normalizer)
	if err != nil {
		t.Fatalf("FromReviews() error: %v", err)
	}

	want := []string{"sentiment", "matters", "sentiment_term"}
	if !reflect.DeepEqual(m.Header(), want) {
		t.Errorf("Header() = %v, want %v", m.Header(), want)
	}
}

func TestWriteCSV(t *testing.T) {
	reviews := []corpus.Review{
		{ID: 0, Text: "bad bad plot", Sentiment: corpus.Negative},
		{ID: 1, Text: "great film", Sentiment: corpus.Positive},
	}
	m, err := features.FromReviews(reviews, stemmingNormalizer())
	if err != nil {
		t.Fatalf("FromReviews() error: %v", err)
	}

	var buf bytes.Buffer
	if err := m.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	want := "sentiment,bad,film,great,plot\nnegative,2,0,0,1\npositive,0,1,1,0\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func BenchmarkBuild(b *testing.B) {
	reviews := largeCorpus(200)
	opts := features.Options{PerLabel: 200, Seed: 42, Normalizer: stemmingNormalizer()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := features.Build(reviews, opts); err != nil {
			b.Fatal(err)
		}
	}
}
