package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/frequency"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/storage"
)

// printStored reads the model leaderboard, the tf-idf rankings and the topic
// terms back from the results store a run wrote.
func printStored(w io.Writer, path string, topN, topicCount int) error {
	db, err := storage.NewResultsDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	complete, err := db.GetMetadata("run_complete")
	if err != nil {
		return fmt.Errorf("read run state: %w", err)
	}
	if complete != "true" {
		return fmt.Errorf("results store %s holds an incomplete run", path)
	}
	seed, err := db.GetMetadata("seed")
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	models, err := db.Models()
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	fmt.Fprintf(w, "\nstored results %s (seed %s)\nmodels by auc:\n", path, seed)
	for i, name := range models {
		m, err := db.Metrics(name)
		if err != nil {
			return fmt.Errorf("read metrics of %s: %w", name, err)
		}
		fmt.Fprintf(w, "  %d. %-18s auc=%.4f accuracy=%.4f kappa=%.4f roc_points=%d\n",
			i+1, name, m.AUC, m.Accuracy, m.Kappa, len(m.ROC.FPR))
	}

	for _, s := range corpus.Sentiments {
		stats, err := db.TopTerms(s, topN, frequency.ByTFIDF)
		if err != nil {
			return fmt.Errorf("read %s terms: %w", s, err)
		}
		terms := make([]string, len(stats))
		for i, st := range stats {
			terms[i] = st.Term
		}
		fmt.Fprintf(w, "%s by tf-idf: %s\n", s, strings.Join(terms, " "))
	}

	for k := 0; k < topicCount; k++ {
		weighted, err := db.TopicTerms(k)
		if err != nil {
			return fmt.Errorf("read topic %d: %w", k, err)
		}
		terms := make([]string, len(weighted))
		for i, wt := range weighted {
			terms[i] = wt.Term
		}
		fmt.Fprintf(w, "topic %d: %s\n", k, strings.Join(terms, " "))
	}
	return nil
}
