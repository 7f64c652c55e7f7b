// Package eval implements evaluation measures for regression predictions.
package eval

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluator is an interface for scoring predictions against observed values.
type Evaluator interface {
	Score(predicted, actual []float64) float64
	Name() string
}

// RSquared is the coefficient of determination.
type RSquared struct{}

// Score computes 1 - SSres/SStot. A constant actual vector scores 1 when
// predicted perfectly and 0 otherwise.
func (RSquared) Score(predicted, actual []float64) float64 {
	mean := stat.Mean(actual, nil)
	var ssRes, ssTot float64
	for i := range actual {
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Name implements Evaluator.
func (RSquared) Name() string { return "r2" }

// MeanAbsoluteError is the mean absolute deviation between predictions and
// observed values.
type MeanAbsoluteError struct{}

// Score computes the mean absolute error.
func (MeanAbsoluteError) Score(predicted, actual []float64) float64 {
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// Name implements Evaluator.
func (MeanAbsoluteError) Name() string { return "mae" }

// Evaluate scores predictions with every supplied evaluator.
func Evaluate(evaluators []Evaluator, predicted, actual []float64) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, e := range evaluators {
		scores[e.Name()] = e.Score(predicted, actual)
	}
	return scores
}
