package model

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// node is a binary regression tree node. Leaves carry value; inner nodes
// send rows with x[feature] <= threshold left.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

func (n *node) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeBuilder grows one tree over column-major data. Splits minimize the
// squared error of target; for 0/1 targets this ranks splits the same way
// as gini impurity. leafValue decides what a leaf predicts for its rows.
type treeBuilder struct {
	cols        [][]float64
	target      []float64
	leafValue   func(rows []int) float64
	maxDepth    int
	minLeaf     int
	maxFeatures int
	rng         rand.Source
}

func (b *treeBuilder) build(rows []int, depth int) *node {
	if len(rows) < 2*b.minLeaf || (b.maxDepth > 0 && depth >= b.maxDepth) || b.pure(rows) {
		return &node{leaf: true, value: b.leafValue(rows)}
	}

	feature, threshold, ok := b.bestSplit(rows)
	if !ok {
		return &node{leaf: true, value: b.leafValue(rows)}
	}

	var left, right []int
	for _, r := range rows {
		if b.cols[feature][r] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) pure(rows []int) bool {
	first := b.target[rows[0]]
	for _, r := range rows[1:] {
		if b.target[r] != first {
			return false
		}
	}
	return true
}

func (b *treeBuilder) candidates() []int {
	p := len(b.cols)
	if b.maxFeatures <= 0 || b.maxFeatures >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	idxs := make([]int, b.maxFeatures)
	sampleuv.WithoutReplacement(idxs, p, b.rng)
	return idxs
}

// bestSplit scans the candidate features and returns the split with the
// largest reduction in squared error.
func (b *treeBuilder) bestSplit(rows []int) (int, float64, bool) {
	var total float64
	for _, r := range rows {
		total += b.target[r]
	}
	n := float64(len(rows))
	parent := total * total / n

	bestGain := 1e-12
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(rows))
	for _, f := range b.candidates() {
		col := b.cols[f]
		if constant(col, rows) {
			continue
		}

		copy(sorted, rows)
		sort.Slice(sorted, func(i, j int) bool { return col[sorted[i]] < col[sorted[j]] })

		var leftSum float64
		for i := 0; i < len(sorted)-1; i++ {
			leftSum += b.target[sorted[i]]
			nl := i + 1
			nr := len(sorted) - nl
			if col[sorted[i]] == col[sorted[i+1]] || nl < b.minLeaf || nr < b.minLeaf {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (col[sorted[i]] + col[sorted[i+1]]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func constant(col []float64, rows []int) bool {
	first := col[rows[0]]
	for _, r := range rows[1:] {
		if col[r] != first {
			return false
		}
	}
	return true
}

func mean(target []float64, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += target[r]
	}
	return sum / float64(len(rows))
}
