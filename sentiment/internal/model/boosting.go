package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"

	log "github.com/sirupsen/logrus"
)

// GradientBoosting fits shallow regression trees to the gradient of the
// logistic loss. Leaf values take one Newton step.
type GradientBoosting struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int
	Subsample    float64 // fraction of rows per round, 1 uses all rows
	MaxFeatures  int     // 0 considers every feature
	Seed         int64

	base     float64
	rate     float64
	trees    []*node
	features int
}

func NewGradientBoosting(rounds int, seed int64) *GradientBoosting {
	return &GradientBoosting{
		Rounds:       rounds,
		LearningRate: 0.1,
		MaxDepth:     3,
		MinLeaf:      1,
		Subsample:    1,
		Seed:         seed,
	}
}

func (g *GradientBoosting) Name() string {
	return "gradient_boosting"
}

func (g *GradientBoosting) Fit(x mat.Matrix, y []float64) error {
	n, p, err := checkFit(x, y)
	if err != nil {
		return err
	}
	if g.Rounds < 1 {
		g.Rounds = 1
	}
	rate := g.LearningRate
	if rate <= 0 {
		rate = 0.1
	}
	minLeaf := g.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	cols := columns(x)
	rng := rand.NewPCG(uint64(g.Seed), uint64(g.Seed))

	var positives float64
	for _, v := range y {
		positives += v
	}
	prior := clamp(positives/float64(n), 1e-6, 1-1e-6)
	base := math.Log(prior / (1 - prior))

	score := make([]float64, n)
	for i := range score {
		score[i] = base
	}
	grad := make([]float64, n)
	hess := make([]float64, n)

	newton := func(rows []int) float64 {
		var sg, sh float64
		for _, r := range rows {
			sg += grad[r]
			sh += hess[r]
		}
		if sh < 1e-12 {
			return 0
		}
		return sg / sh
	}

	sampled := n
	if g.Subsample > 0 && g.Subsample < 1 {
		sampled = int(math.Max(1, math.Round(g.Subsample*float64(n))))
	}

	row := make([]float64, p)
	trees := make([]*node, 0, g.Rounds)
	for round := 0; round < g.Rounds; round++ {
		for i := range score {
			prob := sigmoid(score[i])
			grad[i] = y[i] - prob
			hess[i] = prob * (1 - prob)
		}

		rows := allRows(n)
		if sampled < n {
			rows = make([]int, sampled)
			sampleuv.WithoutReplacement(rows, n, rng)
		}

		b := &treeBuilder{
			cols:        cols,
			target:      grad,
			leafValue:   newton,
			maxDepth:    g.MaxDepth,
			minLeaf:     minLeaf,
			maxFeatures: g.MaxFeatures,
			rng:         rng,
		}
		tree := b.build(rows, 0)
		trees = append(trees, tree)

		for i := range score {
			mat.Row(row, i, x)
			score[i] += rate * tree.predict(row)
		}
	}

	g.base = base
	g.rate = rate
	g.trees = trees
	g.features = p

	log.WithFields(log.Fields{
		"rounds":   g.Rounds,
		"rate":     rate,
		"depth":    g.MaxDepth,
		"rows":     n,
		"features": p,
	}).Debug("gradient boosting fitted")
	return nil
}

func (g *GradientBoosting) PredictProba(x mat.Matrix) ([]float64, error) {
	out, r, err := checkPredict(x, g.features)
	if err != nil {
		return nil, err
	}

	row := make([]float64, g.features)
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		score := g.base
		for _, t := range g.trees {
			score += g.rate * t.predict(row)
		}
		out[i] = sigmoid(score)
	}
	return out, nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
