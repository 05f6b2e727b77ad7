package topics_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/topics"
)

func docs() [][]string {
	return [][]string{
		{"great", "film", "act", "great"},
		{"wonder", "act", "perform", "film"},
		{},
		{"terribl", "wast", "plot", "bore"},
		{"bad", "plot", "wast", "script"},
		{"great", "perform", "wonder"},
		{"bore", "bad", "terribl"},
	}
}

func smallOptions() topics.Options {
	return topics.Options{K: 2, Seed: 7, Iterations: 20, TransformationPasses: 10}
}

func TestFitIsDeterministic(t *testing.T) {
	first, err := topics.Fit(docs(), smallOptions())
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	second, err := topics.Fit(docs(), smallOptions())
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	for topic := 0; topic < first.K(); topic++ {
		a, _ := first.TopTerms(topic, 5)
		b, _ := second.TopTerms(topic, 5)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("topic %d differs between fits: %v vs %v", topic, a, b)
		}
	}
	if !reflect.DeepEqual(first.DominantTopicCounts(), second.DominantTopicCounts()) {
		t.Errorf("dominant topics differ: %v vs %v", first.DominantTopicCounts(), second.DominantTopicCounts())
	}
}

func TestFitSkipsEmptyDocuments(t *testing.T) {
	model, err := topics.Fit(docs(), smallOptions())
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	if model.Documents() != 6 {
		t.Errorf("Documents() = %d, want 6", model.Documents())
	}

	total := 0
	for _, c := range model.DominantTopicCounts() {
		total += c
	}
	if total != model.Documents() {
		t.Errorf("dominant topic counts sum to %d, want %d", total, model.Documents())
	}

	if len(model.Vocabulary()) != 11 {
		t.Errorf("len(Vocabulary()) = %d, want 11", len(model.Vocabulary()))
	}
}

func TestTopTerms(t *testing.T) {
	model, err := topics.Fit(docs(), smallOptions())
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	terms, err := model.TopTerms(0, 3)
	if err != nil {
		t.Fatalf("TopTerms() error: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("len(TopTerms(0, 3)) = %d, want 3", len(terms))
	}
	for i := 1; i < len(terms); i++ {
		if terms[i].Weight > terms[i-1].Weight {
			t.Errorf("TopTerms not sorted by weight: %v", terms)
		}
	}

	all, _ := model.TopTerms(1, 0)
	if len(all) != 11 {
		t.Errorf("len(TopTerms(1, 0)) = %d, want whole vocabulary", len(all))
	}

	if _, err := model.TopTerms(2, 3); err == nil {
		t.Error("TopTerms() with topic out of range should fail")
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := topics.Fit([][]string{{}, {}}, smallOptions()); !errors.Is(err, topics.ErrNoDocuments) {
		t.Errorf("Fit(empty docs) error = %v, want ErrNoDocuments", err)
	}

	opts := smallOptions()
	opts.K = 0
	if _, err := topics.Fit(docs(), opts); err == nil {
		t.Error("Fit() with k=0 should fail")
	}
}
