package eval_test

import (
	"testing"

	"github.com/hscells/farecast/eval"
	"github.com/stretchr/testify/assert"
)

func TestRSquaredPerfect(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, eval.RSquared{}.Score(y, y), 1e-12)
}

func TestRSquaredMeanPredictor(t *testing.T) {
	actual := []float64{1, 2, 3, 4}
	predicted := []float64{2.5, 2.5, 2.5, 2.5}
	assert.InDelta(t, 0.0, eval.RSquared{}.Score(predicted, actual), 1e-12)
}

func TestRSquaredKnownValue(t *testing.T) {
	actual := []float64{3, -0.5, 2, 7}
	predicted := []float64{2.5, 0.0, 2, 8}
	assert.InDelta(t, 0.9486, eval.RSquared{}.Score(predicted, actual), 1e-4)
}

func TestMeanAbsoluteError(t *testing.T) {
	actual := []float64{3, -0.5, 2, 7}
	predicted := []float64{2.5, 0.0, 2, 8}
	assert.InDelta(t, 0.5, eval.MeanAbsoluteError{}.Score(predicted, actual), 1e-12)
}

func TestEvaluate(t *testing.T) {
	actual := []float64{1, 2, 3}
	predicted := []float64{1, 2, 3}
	scores := eval.Evaluate([]eval.Evaluator{eval.RSquared{}, eval.MeanAbsoluteError{}}, predicted, actual)
	assert.Len(t, scores, 2)
	assert.InDelta(t, 1.0, scores["r2"], 1e-12)
	assert.InDelta(t, 0.0, scores["mae"], 1e-12)
}
