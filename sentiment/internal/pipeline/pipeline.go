// Package pipeline runs the whole analysis: load, normalize, describe, model
// topics, build features, train, evaluate and persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/evaluation"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/features"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/frequency"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/plots"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/storage"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/tokentable"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/topics"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/training"
)

// FeaturesFile is the name of the exported feature matrix inside OutputDir.
const FeaturesFile = "features.csv"

type Config struct {
	InputPath     string
	OutputDir     string
	CleanFile     string
	DBFile        string
	PerLabel      int
	TrainFraction float64
	Seed          int64
	Topics        int
	TopicDocs     int
	TopN          int
	Trees         int
	Rounds        int
	StemFeatures  bool
	StripMarkup   bool
	Workers       int
	Plots         bool
}

func DefaultConfig() Config {
	return Config{
		InputPath:     "IMDB Dataset.csv",
		OutputDir:     "output",
		CleanFile:     "imdb_clean.csv",
		DBFile:        "results.db",
		PerLabel:      200,
		TrainFraction: 0.8,
		Seed:          42,
		Topics:        8,
		TopN:          10,
		Trees:         200,
		Rounds:        100,
		Workers:       4,
		Plots:         true,
	}
}

func (c Config) Validate() error {
	switch {
	case c.InputPath == "":
		return errors.New("missing -in")
	case c.OutputDir == "":
		return errors.New("missing -out")
	case c.CleanFile == "":
		return errors.New("missing -clean")
	case c.PerLabel < 1:
		return fmt.Errorf("-sample must be positive, got %d", c.PerLabel)
	case c.TrainFraction <= 0 || c.TrainFraction >= 1:
		return fmt.Errorf("-train-fraction must be in (0, 1), got %v", c.TrainFraction)
	case c.Topics < 1:
		return fmt.Errorf("-topics must be positive, got %d", c.Topics)
	case c.TopicDocs < 0:
		return fmt.Errorf("-topic-docs must not be negative, got %d", c.TopicDocs)
	case c.TopN < 1:
		return fmt.Errorf("-top must be positive, got %d", c.TopN)
	case c.Trees < 1:
		return fmt.Errorf("-trees must be positive, got %d", c.Trees)
	case c.Rounds < 1:
		return fmt.Errorf("-rounds must be positive, got %d", c.Rounds)
	case c.Workers < 1:
		return fmt.Errorf("-workers must be positive, got %d", c.Workers)
	}
	return nil
}

// ModelReport is the held-out evaluation of one classifier.
type ModelReport struct {
	Name    string
	Metrics evaluation.Metrics
	FitTime time.Duration
}

// Report summarizes a run.
type Report struct {
	Reviews     int
	BySentiment map[corpus.Sentiment]int
	Tokens      int
	Vocabulary  int

	TopTerms    map[corpus.Sentiment][]frequency.TermStat
	TopTFIDF    map[corpus.Sentiment][]frequency.TermStat
	Distinctive map[corpus.Sentiment][]string
	Topics      [][]topics.WeightedTerm

	MatrixRows     int
	MatrixCols     int
	EmptyDocuments []features.EmptyDocumentWarning
	TrainRows      int
	TestRows       int

	Models []ModelReport

	CleanPath    string
	FeaturesPath string
	DBPath       string
	Charts       []string
}

// Run executes every stage in order. The context is checked between stages.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	report := &Report{
		TopTerms:    make(map[corpus.Sentiment][]frequency.TermStat),
		TopTFIDF:    make(map[corpus.Sentiment][]frequency.TermStat),
		Distinctive: make(map[corpus.Sentiment][]string),
	}

	// Load
	reviews, err := corpus.Load(cfg.InputPath, corpus.Options{StripMarkup: cfg.StripMarkup})
	if err != nil {
		return nil, err
	}
	report.Reviews = len(reviews)
	report.BySentiment = corpus.CountBySentiment(reviews)
	log.WithFields(log.Fields{
		"path":     cfg.InputPath,
		"reviews":  len(reviews),
		"positive": report.BySentiment[corpus.Positive],
		"negative": report.BySentiment[corpus.Negative],
	}).Info("corpus loaded")

	// Normalize the full corpus for the descriptive analysis
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalizer := textprocessor.NewTextProcessor(textprocessor.DefaultOptions())
	normalized, err := normalizer.NormalizeParallel(ctx, reviews, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	report.Tokens = len(normalized.Tokens)
	report.Vocabulary = normalized.Vocabulary.Len()
	log.WithFields(log.Fields{
		"tokens":     report.Tokens,
		"vocabulary": report.Vocabulary,
		"workers":    cfg.Workers,
	}).Info("corpus normalized")

	report.CleanPath = filepath.Join(cfg.OutputDir, cfg.CleanFile)
	if err := tokentable.WriteFile(report.CleanPath, normalized.Tokens); err != nil {
		return nil, fmt.Errorf("write token table: %w", err)
	}
	log.WithField("path", report.CleanPath).Info("token table written")

	// Frequencies
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := frequency.Analyze(normalized.Tokens)
	if err != nil {
		return nil, fmt.Errorf("frequency analysis: %w", err)
	}
	for _, s := range corpus.Sentiments {
		if report.TopTerms[s], err = table.TopN(s, cfg.TopN, frequency.ByCount); err != nil {
			return nil, err
		}
		if report.TopTFIDF[s], err = table.TopN(s, cfg.TopN, frequency.ByTFIDF); err != nil {
			return nil, err
		}
		report.Distinctive[s] = table.Distinctive(s)
		log.WithFields(log.Fields{
			"sentiment":   s,
			"tokens":      table.Total(s),
			"distinctive": len(report.Distinctive[s]),
		}).Info("term frequencies computed")
	}

	// Topics
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topicOpts := topics.DefaultOptions()
	topicOpts.K = cfg.Topics
	topicOpts.Seed = cfg.Seed
	topicModel, err := topics.Fit(topicDocuments(normalized.Tokens, cfg.TopicDocs), topicOpts)
	if err != nil {
		return nil, fmt.Errorf("topic model: %w", err)
	}
	for k := 0; k < topicModel.K(); k++ {
		terms, err := topicModel.TopTerms(k, cfg.TopN)
		if err != nil {
			return nil, err
		}
		report.Topics = append(report.Topics, terms)
	}

	// Feature matrix
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	featureOpts := textprocessor.DefaultOptions()
	featureOpts.Stem = cfg.StemFeatures
	m, err := features.Build(reviews, features.Options{
		PerLabel:   cfg.PerLabel,
		Seed:       cfg.Seed,
		Normalizer: textprocessor.NewTextProcessor(featureOpts),
	})
	if err != nil {
		return nil, fmt.Errorf("feature matrix: %w", err)
	}
	report.MatrixRows, report.MatrixCols = m.Rows(), m.Cols()
	report.EmptyDocuments = m.Warnings
	log.WithFields(log.Fields{
		"rows":    m.Rows(),
		"columns": m.Cols(),
		"empty":   len(m.Warnings),
		"stemmed": cfg.StemFeatures,
	}).Info("feature matrix built")

	report.FeaturesPath = filepath.Join(cfg.OutputDir, FeaturesFile)
	if err := writeFeatures(report.FeaturesPath, m); err != nil {
		return nil, err
	}

	// Split and train
	split, err := training.StratifiedSplit(m, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}
	report.TrainRows, report.TestRows = split.Train.Rows(), split.Test.Rows()
	log.WithFields(log.Fields{
		"train": report.TrainRows,
		"test":  report.TestRows,
	}).Info("matrix split")

	results, err := training.NewHarness(cfg.Trees, cfg.Rounds, cfg.Seed, cfg.Workers).Run(ctx, split)
	if err != nil {
		return nil, err
	}

	// Evaluate
	for _, r := range results {
		metrics, err := evaluation.Evaluate(r.Truth, r.Probabilities)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", r.Model, err)
		}
		report.Models = append(report.Models, ModelReport{Name: r.Model, Metrics: metrics, FitTime: r.FitTime})
		log.WithFields(log.Fields{
			"model":       r.Model,
			"accuracy":    metrics.Accuracy,
			"kappa":       metrics.Kappa,
			"sensitivity": metrics.Sensitivity,
			"specificity": metrics.Specificity,
			"auc":         metrics.AUC,
		}).Info("classifier evaluated")
	}

	if cfg.Plots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		charts, err := writeCharts(cfg.OutputDir, report)
		if err != nil {
			return nil, err
		}
		report.Charts = charts
	}

	if cfg.DBFile != "" {
		report.DBPath = filepath.Join(cfg.OutputDir, cfg.DBFile)
		if err := persist(report.DBPath, cfg, table, topicModel, report); err != nil {
			return nil, err
		}
		log.WithField("path", report.DBPath).Info("results stored")
	}

	return report, nil
}

// topicDocuments returns the token lists of the first limit reviews by ID.
// limit 0 keeps every review.
func topicDocuments(tokens []textprocessor.TokenRecord, limit int) [][]string {
	grouped := textprocessor.GroupByReview(tokens)
	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	docs := make([][]string, len(ids))
	for i, id := range ids {
		docs[i] = grouped[id]
	}
	return docs
}

func writeFeatures(path string, m *features.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := m.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeCharts(dir string, report *Report) ([]string, error) {
	var charts []string

	curves := make([]plots.Curve, len(report.Models))
	for i, mr := range report.Models {
		curves[i] = plots.Curve{
			Label: fmt.Sprintf("%s (AUC %.3f)", mr.Name, mr.Metrics.AUC),
			FPR:   mr.Metrics.ROC.FPR,
			TPR:   mr.Metrics.ROC.TPR,
		}
	}
	rocPath := filepath.Join(dir, "roc.png")
	if err := plots.ROC(rocPath, curves...); err != nil {
		return nil, fmt.Errorf("roc chart: %w", err)
	}
	charts = append(charts, rocPath)

	for _, s := range corpus.Sentiments {
		terms := report.TopTerms[s]
		if len(terms) == 0 {
			continue
		}
		bars := make([]plots.Bar, len(terms))
		for i, st := range terms {
			bars[i] = plots.Bar{Label: st.Term, Value: float64(st.Count)}
		}
		path := filepath.Join(dir, "top_"+s.String()+".png")
		if err := plots.Bars(path, "Top "+s.String()+" terms", "count", bars); err != nil {
			return nil, fmt.Errorf("%s terms chart: %w", s, err)
		}
		charts = append(charts, path)
	}

	log.WithField("charts", len(charts)).Info("charts written")
	return charts, nil
}

func persist(path string, cfg Config, table *frequency.Table, topicModel *topics.Model, report *Report) error {
	db, err := storage.NewResultsDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetMetadata("run_complete", "false"); err != nil {
		return err
	}
	if err := db.SaveTermTable(table); err != nil {
		return err
	}
	if err := db.SaveTopics(topicModel, cfg.TopN); err != nil {
		return err
	}
	for _, mr := range report.Models {
		if err := db.SaveMetrics(mr.Name, mr.Metrics, mr.FitTime); err != nil {
			return err
		}
	}

	metadata := map[string]string{
		"input":          cfg.InputPath,
		"reviews":        strconv.Itoa(report.Reviews),
		"seed":           strconv.FormatInt(cfg.Seed, 10),
		"sample":         strconv.Itoa(cfg.PerLabel),
		"train_fraction": strconv.FormatFloat(cfg.TrainFraction, 'g', -1, 64),
		"topics":         strconv.Itoa(cfg.Topics),
		"stem_features":  strconv.FormatBool(cfg.StemFeatures),
		"empty_reviews":  strconv.Itoa(len(report.EmptyDocuments)),
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := db.SetMetadata(k, metadata[k]); err != nil {
			return fmt.Errorf("set metadata %s: %w", k, err)
		}
	}
	return db.SetMetadata("run_complete", "true")
}
