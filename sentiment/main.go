package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/pipeline"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"in":     cfg.InputPath,
		"out":    cfg.OutputDir,
		"sample": cfg.PerLabel,
		"seed":   cfg.Seed,
	}).Info("Starting sentiment analysis...")

	start := time.Now()
	report, err := pipeline.Run(ctx, cfg.Config)
	if err != nil {
		log.Errorf("Analysis failed: %v", err)
		logFile.Close()
		os.Exit(1)
	}

	printReport(os.Stdout, report)
	if report.DBPath != "" {
		if err := printStored(os.Stdout, report.DBPath, cfg.TopN, len(report.Topics)); err != nil {
			log.Errorf("Reading stored results failed: %v", err)
			logFile.Close()
			os.Exit(1)
		}
	}
	log.Infof("Analysis completed in %s", time.Since(start).Round(time.Millisecond))
}

func printReport(w io.Writer, r *pipeline.Report) {
	fmt.Fprintf(w, "reviews=%d positive=%d negative=%d tokens=%d vocabulary=%d\n",
		r.Reviews, r.BySentiment[corpus.Positive], r.BySentiment[corpus.Negative], r.Tokens, r.Vocabulary)

	for _, s := range corpus.Sentiments {
		fmt.Fprintf(w, "\ntop %s terms:\n", s)
		for i, st := range r.TopTerms[s] {
			fmt.Fprintf(w, "  %2d. %-16s %8d  tf=%.5f\n", i+1, st.Term, st.Count, st.TF)
		}
		fmt.Fprintf(w, "top %s terms by tf-idf:\n", s)
		for i, st := range r.TopTFIDF[s] {
			fmt.Fprintf(w, "  %2d. %-16s %.6f\n", i+1, st.Term, st.TFIDF)
		}
	}

	fmt.Fprintln(w, "\ntopics:")
	for k, terms := range r.Topics {
		fmt.Fprintf(w, "  %d:", k)
		for _, wt := range terms {
			fmt.Fprintf(w, " %s", wt.Term)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nfeature matrix %dx%d (empty reviews %d), train=%d test=%d\n",
		r.MatrixRows, r.MatrixCols, len(r.EmptyDocuments), r.TrainRows, r.TestRows)
	fmt.Fprintf(w, "%-18s %8s %8s %8s %8s %8s %6s %6s %6s %6s\n",
		"model", "accuracy", "kappa", "sensitiv", "specific", "auc", "tp", "tn", "fp", "fn")
	for _, mr := range r.Models {
		m := mr.Metrics
		fmt.Fprintf(w, "%-18s %8.4f %8.4f %8.4f %8.4f %8.4f %6d %6d %6d %6d\n",
			mr.Name, m.Accuracy, m.Kappa, m.Sensitivity, m.Specificity, m.AUC, m.TP, m.TN, m.FP, m.FN)
	}

	fmt.Fprintf(w, "\nclean=%s features=%s", r.CleanPath, r.FeaturesPath)
	if r.DBPath != "" {
		fmt.Fprintf(w, " db=%s", r.DBPath)
	}
	fmt.Fprintln(w)
}
