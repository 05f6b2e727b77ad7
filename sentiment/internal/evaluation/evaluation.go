// Package evaluation scores held-out predictions: confusion-matrix metrics at
// a fixed probability threshold and the ROC curve over all thresholds.
package evaluation

import (
	"errors"
	"fmt"

	golearn "github.com/sjwhitworth/golearn/evaluation"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
)

// Threshold is the probability above which a prediction is positive.
const Threshold = 0.5

// ErrSingleClass is returned when the truth holds only one label, which
// leaves one axis of the ROC curve undefined.
var ErrSingleClass = errors.New("evaluation: truth contains a single class")

// Metrics are the standard confusion-matrix derivations with the positive
// label as the positive class. A ratio with a zero denominator is 0.
type Metrics struct {
	TP, TN, FP, FN int

	Accuracy    float64
	Kappa       float64
	Sensitivity float64
	Specificity float64

	ROC Curve
	AUC float64
}

// Curve is an ROC curve ordered by increasing false positive rate. Point i
// classifies probabilities >= Thresholds[i] as positive.
type Curve struct {
	FPR        []float64
	TPR        []float64
	Thresholds []float64
}

// Evaluate thresholds prob at Threshold and scores it against truth.
func Evaluate(truth []corpus.Sentiment, prob []float64) (Metrics, error) {
	if len(truth) != len(prob) {
		return Metrics{}, fmt.Errorf("evaluation: %d labels, %d predictions", len(truth), len(prob))
	}
	if len(truth) == 0 {
		return Metrics{}, errors.New("evaluation: no predictions")
	}

	cm := ConfusionMatrix(truth, prob)
	m := fromConfusion(cm)

	curve, err := ROC(truth, prob)
	if err != nil {
		return Metrics{}, err
	}
	m.ROC = curve
	m.AUC = AUC(curve)
	return m, nil
}

// ConfusionMatrix counts reference label against predicted label.
func ConfusionMatrix(truth []corpus.Sentiment, prob []float64) golearn.ConfusionMatrix {
	cm := make(golearn.ConfusionMatrix, len(corpus.Sentiments))
	for _, s := range corpus.Sentiments {
		cm[s.String()] = make(map[string]int, len(corpus.Sentiments))
		for _, p := range corpus.Sentiments {
			cm[s.String()][p.String()] = 0
		}
	}
	for i, t := range truth {
		cm[t.String()][predict(prob[i]).String()]++
	}
	return cm
}

// FromCounts derives the threshold metrics from raw confusion counts.
func FromCounts(tp, tn, fp, fn int) Metrics {
	pos, neg := corpus.Positive.String(), corpus.Negative.String()
	cm := golearn.ConfusionMatrix{
		pos: {pos: tp, neg: fn},
		neg: {pos: fp, neg: tn},
	}
	return fromConfusion(cm)
}

func fromConfusion(cm golearn.ConfusionMatrix) Metrics {
	class := corpus.Positive.String()
	tp := golearn.GetTruePositives(class, cm)
	tn := golearn.GetTrueNegatives(class, cm)
	fp := golearn.GetFalsePositives(class, cm)
	fn := golearn.GetFalseNegatives(class, cm)
	total := tp + tn + fp + fn

	m := Metrics{
		TP:          int(tp),
		TN:          int(tn),
		FP:          int(fp),
		FN:          int(fn),
		Sensitivity: ratio(tp, tp+fn),
		Specificity: ratio(tn, tn+fp),
	}
	if total == 0 {
		return m
	}
	m.Accuracy = golearn.GetAccuracy(cm)

	// chance agreement from the marginal label proportions
	expected := ((tp+fn)*(tp+fp) + (tn+fp)*(tn+fn)) / (total * total)
	m.Kappa = ratio(m.Accuracy-expected, 1-expected)
	return m
}

// ROC sweeps the threshold over every distinct probability.
func ROC(truth []corpus.Sentiment, prob []float64) (Curve, error) {
	if len(truth) != len(prob) {
		return Curve{}, fmt.Errorf("evaluation: %d labels, %d predictions", len(truth), len(prob))
	}

	y := append([]float64(nil), prob...)
	classes := make([]bool, len(truth))
	var positives int
	for i, t := range truth {
		classes[i] = t == corpus.Positive
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(truth) {
		return Curve{}, ErrSingleClass
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, thresh := stat.ROC(nil, y, classes, nil)
	return Curve{FPR: fpr, TPR: tpr, Thresholds: thresh}, nil
}

// AUC is the trapezoidal area under c.
func AUC(c Curve) float64 {
	if len(c.FPR) < 2 {
		return 0
	}
	return integrate.Trapezoidal(c.FPR, c.TPR)
}

func predict(p float64) corpus.Sentiment {
	if p > Threshold {
		return corpus.Positive
	}
	return corpus.Negative
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
