package forest_test

import (
	"testing"

	"github.com/hscells/farecast/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fixture is a simple additive signal over two informative features and one
// noise feature.
func fixture(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i % 10)
		b := float64((i * 7) % 5)
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		X.Set(i, 2, float64((i*13)%3))
		y[i] = 10*a + 3*b
	}
	return X, y
}

func TestFitDeterministic(t *testing.T) {
	X, y := fixture(80)
	cfg := forest.Config{Trees: 20, Seed: 42}

	a, b := forest.New(cfg), forest.New(cfg)
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	predA, err := a.Predict(X)
	require.NoError(t, err)
	predB, err := b.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, predA, predB)
	assert.Equal(t, a.Importances, b.Importances)
}

func TestFitSeedChangesForest(t *testing.T) {
	X, y := fixture(80)
	a := forest.New(forest.Config{Trees: 20, Seed: 42, MaxFeatures: 0.5})
	b := forest.New(forest.Config{Trees: 20, Seed: 43, MaxFeatures: 0.5})
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	predA, err := a.Predict(X)
	require.NoError(t, err)
	predB, err := b.Predict(X)
	require.NoError(t, err)
	assert.NotEqual(t, predA, predB)
}

func TestImportancesAlignWithFeatures(t *testing.T) {
	X, y := fixture(80)
	f := forest.New(forest.Config{Trees: 20, Seed: 42})
	require.NoError(t, f.Fit(X, y))

	require.Len(t, f.Importances, 3)
	var sum float64
	for _, w := range f.Importances {
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	// The dominant additive term should carry the most importance.
	assert.Greater(t, f.Importances[0], f.Importances[2])
}

func TestPredictConstantTarget(t *testing.T) {
	X, _ := fixture(40)
	y := make([]float64, 40)
	for i := range y {
		y[i] = 7.5
	}
	f := forest.New(forest.Config{Trees: 5, Seed: 1})
	require.NoError(t, f.Fit(X, y))

	pred, err := f.Predict(X)
	require.NoError(t, err)
	for _, p := range pred {
		assert.InDelta(t, 7.5, p, 1e-9)
	}
}

func TestPredictRecoversSignal(t *testing.T) {
	X, y := fixture(200)
	f := forest.New(forest.Config{Trees: 30, Seed: 42})
	require.NoError(t, f.Fit(X, y))

	pred, err := f.Predict(X)
	require.NoError(t, err)
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	var ssRes, ssTot float64
	for i := range y {
		ssRes += (y[i] - pred[i]) * (y[i] - pred[i])
		ssTot += (y[i] - mean) * (y[i] - mean)
	}
	// The signal is noiseless and fully determined by the features, so deep
	// trees over a large sample recover it closely.
	assert.Greater(t, 1-ssRes/ssTot, 0.85)
}

func TestLifecycleErrors(t *testing.T) {
	X, y := fixture(40)
	f := forest.New(forest.Config{Trees: 5, Seed: 1})

	_, err := f.Predict(X)
	assert.ErrorIs(t, err, forest.ErrNotFitted)

	require.NoError(t, f.Fit(X, y))
	assert.Error(t, f.Fit(X, y))

	narrow := mat.NewDense(4, 2, nil)
	_, err = f.Predict(narrow)
	assert.Error(t, err)
}

func TestFitRejectsMismatchedTarget(t *testing.T) {
	X, _ := fixture(40)
	f := forest.New(forest.Config{Trees: 5, Seed: 1})
	assert.Error(t, f.Fit(X, []float64{1, 2, 3}))
}
