package textprocessor

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
)

// NormalizeParallel is Normalize spread over workers goroutines. Each review
// is processed independently; the result keeps review order.
func (tp *TextProcessor) NormalizeParallel(ctx context.Context, reviews []corpus.Review, workers int) (Result, error) {
	if workers <= 1 || len(reviews) < 2 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return tp.Normalize(reviews), nil
	}
	if workers > len(reviews) {
		workers = len(reviews)
	}

	perReview := make([][]TokenRecord, len(reviews))
	jobs := make(chan int, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			tp.worker(ctx, workerID, reviews, perReview, jobs)
		}(i)
	}

feed:
	for i := range reviews {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return collect(perReview), nil
}

func (tp *TextProcessor) worker(ctx context.Context, workerID int, reviews []corpus.Review, out [][]TokenRecord, jobs <-chan int) {
	processed := 0
	for i := range jobs {
		if ctx.Err() != nil {
			continue
		}
		out[i] = tp.ProcessReview(reviews[i])
		processed++
	}
	log.WithFields(log.Fields{"worker": workerID, "reviews": processed}).Debug("normalize worker finished")
}
