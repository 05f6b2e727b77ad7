package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/pipeline"
)

type Config struct {
	pipeline.Config
	LogPath string
}

func (c Config) Validate() error {
	if c.LogPath == "" {
		return errors.New("missing -log")
	}
	return c.Config.Validate()
}

func defaultConfig() Config {
	cfg := Config{
		Config:  pipeline.DefaultConfig(),
		LogPath: "sentiment.log",
	}
	cfg.Workers = runtime.NumCPU()
	return cfg
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Path to the review corpus CSV (review,sentiment)")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write every artifact into")
	fs.StringVar(&cfg.CleanFile, "clean", cfg.CleanFile, "File name of the normalized token table inside -out")
	fs.StringVar(&cfg.DBFile, "db", cfg.DBFile, "File name of the sqlite results store inside -out (empty disables)")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "Log file, appended to and mirrored on stdout")
	fs.IntVar(&cfg.PerLabel, "sample", cfg.PerLabel, "Reviews sampled per sentiment for the feature matrix")
	fs.Float64Var(&cfg.TrainFraction, "train-fraction", cfg.TrainFraction, "Share of each sentiment put in the train partition")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for sampling, splitting, topic inference and both classifiers")
	fs.IntVar(&cfg.Topics, "topics", cfg.Topics, "Number of LDA topics")
	fs.IntVar(&cfg.TopicDocs, "topic-docs", cfg.TopicDocs, "Cap on reviews fed to the topic model (0 = all)")
	fs.IntVar(&cfg.TopN, "top", cfg.TopN, "Terms listed per sentiment and per topic")
	fs.IntVar(&cfg.Trees, "trees", cfg.Trees, "Random forest size")
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Gradient boosting rounds")
	fs.BoolVar(&cfg.StemFeatures, "stem-features", cfg.StemFeatures, "Stem words in the feature matrix")
	fs.BoolVar(&cfg.StripMarkup, "strip-markup", cfg.StripMarkup, "Strip HTML markup from reviews before tokenizing")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers for normalization and the random forest")
	fs.BoolVar(&cfg.Plots, "plots", cfg.Plots, "Write PNG charts")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
