package model

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	log "github.com/sirupsen/logrus"
)

// RandomForest averages fully grown trees, each fitted on a bootstrap sample
// and choosing each split among MaxFeatures random features. Tree i draws
// from its own stream of Seed, so the fitted forest does not depend on
// Workers.
type RandomForest struct {
	Trees       int
	MaxFeatures int // 0 means sqrt of the feature count
	MinLeaf     int
	MaxDepth    int
	Seed        int64
	Workers     int

	trees    []*node
	features int
}

func NewRandomForest(trees int, seed int64) *RandomForest {
	return &RandomForest{Trees: trees, MinLeaf: 1, Seed: seed}
}

func (f *RandomForest) Name() string {
	return "random_forest"
}

func (f *RandomForest) Fit(x mat.Matrix, y []float64) error {
	n, p, err := checkFit(x, y)
	if err != nil {
		return err
	}
	if f.Trees < 1 {
		f.Trees = 1
	}
	mtry := f.MaxFeatures
	if mtry <= 0 {
		mtry = int(math.Max(1, math.Floor(math.Sqrt(float64(p)))))
	}
	minLeaf := f.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	workers := f.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	cols := columns(x)
	trees := make([]*node, f.Trees)
	jobs := make(chan int, f.Trees)
	for i := range trees {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.NewPCG(uint64(f.Seed), uint64(i))
				bootstrap := make([]int, n)
				r := rand.New(rng)
				for k := range bootstrap {
					bootstrap[k] = r.IntN(n)
				}
				b := &treeBuilder{
					cols:        cols,
					target:      y,
					leafValue:   func(rows []int) float64 { return mean(y, rows) },
					maxDepth:    f.MaxDepth,
					minLeaf:     minLeaf,
					maxFeatures: mtry,
					rng:         rng,
				}
				trees[i] = b.build(bootstrap, 0)
			}
		}()
	}
	wg.Wait()

	f.trees = trees
	f.features = p

	log.WithFields(log.Fields{
		"trees":        f.Trees,
		"max_features": mtry,
		"rows":         n,
		"features":     p,
	}).Debug("random forest fitted")
	return nil
}

// PredictProba returns the mean over trees of the positive fraction in the
// leaf each row lands in.
func (f *RandomForest) PredictProba(x mat.Matrix) ([]float64, error) {
	out, r, err := checkPredict(x, f.features)
	if err != nil {
		return nil, err
	}

	row := make([]float64, f.features)
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}
