package output

import (
	"image/color"
	"math"

	"github.com/go-errors/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotImportance draws a bar chart of per-feature importance weights to an
// image file. Names are expected in composed output order, with the text
// block already collapsed to a single bar.
func PlotImportance(names []string, weights []float64, path string) error {
	if len(names) != len(weights) {
		return errors.Errorf("%d names for %d weights", len(names), len(weights))
	}

	p := plot.New()
	p.Title.Text = "Feature importance"
	p.Y.Label.Text = "importance"

	bars, err := plotter.NewBarChart(plotter.Values(weights), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	bars.Color = color.RGBA{R: 196, A: 255}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -0.5
	p.X.Tick.Label.YAlign = -0.3

	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
