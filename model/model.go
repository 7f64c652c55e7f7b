// Package model composes the feature transforms and the forest estimator
// into a single fit/predict unit, the thing a training run exports.
package model

import (
	"github.com/go-errors/errors"
	"github.com/hscells/farecast/eval"
	"github.com/hscells/farecast/forest"
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/transform"
)

// Model is the composed feature pipeline and estimator. Fit once on the
// training partition; immutable afterwards.
type Model struct {
	Composer *transform.Composer
	Forest   *forest.Forest
}

// New creates an unfitted model from a composer and forest configuration.
func New(composer *transform.Composer, cfg forest.Config) *Model {
	return &Model{Composer: composer, Forest: forest.New(cfg)}
}

// Fit fits the composer on the training partition and then the forest on the
// composed feature matrix.
func (m *Model) Fit(f *frame.Frame, y []float64) error {
	if err := m.Composer.Fit(f); err != nil {
		return err
	}
	X, err := m.Composer.Transform(f)
	if err != nil {
		return err
	}
	return m.Forest.Fit(X, y)
}

// Predict runs a frame through the fitted composer and forest.
func (m *Model) Predict(f *frame.Frame) ([]float64, error) {
	X, err := m.Composer.Transform(f)
	if err != nil {
		return nil, err
	}
	return m.Forest.Predict(X)
}

// Score reports the coefficient of determination on a frame and its targets.
func (m *Model) Score(f *frame.Frame, y []float64) (float64, error) {
	predicted, err := m.Predict(f)
	if err != nil {
		return 0, err
	}
	return eval.RSquared{}.Score(predicted, y), nil
}

// Importances collapses the forest's per-feature importances onto logical
// input columns: a text column's expanded vector dimensions are summed into
// one value, so the reported list aligns 1:1 with input columns.
func (m *Model) Importances() ([]string, []float64, error) {
	imp := m.Forest.Importances
	layout := m.Composer.Layout()
	names := make([]string, len(layout))
	collapsed := make([]float64, len(layout))
	i := 0
	for g, group := range layout {
		names[g] = group.Name
		for w := 0; w < group.Width; w++ {
			if i >= len(imp) {
				return nil, nil, errors.Errorf("composer layout is wider than the forest's %d importances", len(imp))
			}
			collapsed[g] += imp[i]
			i++
		}
	}
	if i != len(imp) {
		return nil, nil, errors.Errorf("composer layout covers %d of %d importances", i, len(imp))
	}
	return names, collapsed, nil
}
