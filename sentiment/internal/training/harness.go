package training

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/model"
)

// Result holds one classifier's held-out predictions.
type Result struct {
	Model         string
	Truth         []corpus.Sentiment
	Probabilities []float64
	ReviewIDs     []int
	FitTime       time.Duration
}

type Harness struct {
	Classifiers []model.Classifier
}

// NewHarness returns the random forest and gradient boosting pair, seeded
// with the same seed.
func NewHarness(trees, rounds int, seed int64, workers int) *Harness {
	forest := model.NewRandomForest(trees, seed)
	forest.Workers = workers
	return &Harness{
		Classifiers: []model.Classifier{
			forest,
			model.NewGradientBoosting(rounds, seed),
		},
	}
}

// Run fits every classifier on the train partition and predicts the test
// partition. The partitions must be column aligned.
func (h *Harness) Run(ctx context.Context, split Split) ([]Result, error) {
	if err := CheckAlignment(split.Train, split.Test); err != nil {
		return nil, err
	}

	x, y := split.Train.Counts, split.Train.Target()
	results := make([]Result, 0, len(h.Classifiers))
	for _, c := range h.Classifiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		if err := c.Fit(x, y); err != nil {
			return nil, fmt.Errorf("fit %s: %w", c.Name(), err)
		}
		elapsed := time.Since(start)

		probs, err := c.PredictProba(split.Test.Counts)
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", c.Name(), err)
		}

		log.WithFields(log.Fields{
			"model":    c.Name(),
			"train":    split.Train.Rows(),
			"test":     split.Test.Rows(),
			"duration": elapsed.Round(time.Millisecond),
		}).Info("classifier fitted")

		results = append(results, Result{
			Model:         c.Name(),
			Truth:         append([]corpus.Sentiment(nil), split.Test.Labels...),
			Probabilities: probs,
			ReviewIDs:     append([]int(nil), split.Test.ReviewIDs...),
			FitTime:       elapsed,
		})
	}
	return results, nil
}
