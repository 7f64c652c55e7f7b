package model_test

import (
	"strconv"
	"testing"

	"github.com/hscells/farecast/forest"
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/model"
	"github.com/hscells/farecast/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingFrame(t *testing.T, n int) (*frame.Frame, []float64) {
	t.Helper()
	roomTypes := []string{"Entire home/apt", "Private room", "Shared room"}
	boroughs := []string{"Brooklyn", "Manhattan", "Queens"}
	names := []string{"sunny loft", "cozy studio", "charming flat", "quiet room"}
	reviews := []string{"2019-01-01", "2019-03-15", "", "2019-06-01"}

	cells := func(f func(i int) string) []string {
		c := make([]string, n)
		for i := range c {
			c[i] = f(i)
		}
		return c
	}
	cols := []*frame.Column{
		frame.NewColumn("room_type", cells(func(i int) string { return roomTypes[i%3] })),
		frame.NewColumn("neighbourhood_group", cells(func(i int) string { return boroughs[i%3] })),
		frame.NewColumn("last_review", cells(func(i int) string { return reviews[i%4] })),
		frame.NewColumn("name", cells(func(i int) string { return names[i%4] })),
	}
	for _, zc := range transform.ZeroColumns {
		zc := zc
		cols = append(cols, frame.NewColumn(zc, cells(func(i int) string {
			return strconv.Itoa((i * len(zc)) % 30)
		})))
	}
	f, err := frame.New(cols...)
	require.NoError(t, err)

	y := make([]float64, n)
	for i := range y {
		y[i] = float64(60 + (i%3)*40 + (i*17)%25)
	}
	return f, y
}

func TestModelFitPredict(t *testing.T) {
	f, y := listingFrame(t, 30)
	m := model.New(transform.NewListingComposer(5), forest.Config{Trees: 10, Seed: 42})
	require.NoError(t, m.Fit(f, y))

	pred, err := m.Predict(f)
	require.NoError(t, err)
	assert.Len(t, pred, 30)

	score, err := m.Score(f, y)
	require.NoError(t, err)
	assert.LessOrEqual(t, score, 1.0)
}

func TestModelImportancesCollapse(t *testing.T) {
	f, y := listingFrame(t, 30)
	m := model.New(transform.NewListingComposer(5), forest.Config{Trees: 10, Seed: 42})
	require.NoError(t, m.Fit(f, y))

	names, weights, err := m.Importances()
	require.NoError(t, err)
	require.Equal(t, len(names), len(weights))

	// One entry per logical input column, not per expanded dimension.
	logical := 1 + 1 + len(transform.ZeroColumns) + 1 + 1
	assert.Len(t, names, logical)
	assert.Equal(t, transform.TextColumn, names[len(names)-1])

	var sum float64
	for _, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestModelPredictBeforeFit(t *testing.T) {
	f, _ := listingFrame(t, 10)
	m := model.New(transform.NewListingComposer(5), forest.Config{Trees: 5, Seed: 1})
	_, err := m.Predict(f)
	assert.ErrorIs(t, err, transform.ErrNotFitted)
}
