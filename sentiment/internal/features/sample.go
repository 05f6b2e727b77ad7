package features

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
)

// SamplingError reports a label with fewer reviews than the sample needs.
type SamplingError struct {
	Sentiment corpus.Sentiment
	Want      int
	Have      int
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("cannot sample %d %s reviews: only %d available", e.Want, e.Sentiment, e.Have)
}

// StratifiedSample draws exactly n reviews per label without replacement.
// The result holds the negative draws followed by the positive draws, each
// in the order they were drawn. The same seed yields the same sample.
func StratifiedSample(reviews []corpus.Review, n int, seed int64) ([]corpus.Review, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}

	byLabel := make(map[corpus.Sentiment][]int, len(corpus.Sentiments))
	for i, r := range reviews {
		byLabel[r.Sentiment] = append(byLabel[r.Sentiment], i)
	}

	for _, s := range corpus.Sentiments {
		if have := len(byLabel[s]); have < n {
			return nil, &SamplingError{Sentiment: s, Want: n, Have: have}
		}
	}

	src := rand.NewPCG(uint64(seed), uint64(seed))
	sample := make([]corpus.Review, 0, n*len(corpus.Sentiments))
	for _, s := range corpus.Sentiments {
		pool := byLabel[s]
		drawn := make([]int, n)
		sampleuv.WithoutReplacement(drawn, len(pool), src)
		for _, d := range drawn {
			sample = append(sample, reviews[pool[d]])
		}
	}

	return sample, nil
}
