// Package forest implements a regression forest fit by bootstrap
// aggregation. Every source of randomness derives from a single configured
// seed plus a per-tree offset, so fits are reproducible even when trees are
// built in parallel.
package forest

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/go-errors/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when Predict or Score is called before Fit.
var ErrNotFitted = errors.New("forest has not been fitted")

// Config holds the estimator hyperparameters. The zero value of a field
// selects its default.
type Config struct {
	// Trees is the ensemble size. Default 100.
	Trees int
	// MaxDepth limits tree depth; 0 grows trees until pure.
	MaxDepth int
	// MinSamplesSplit is the minimum node size to attempt a split. Default 2.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum rows in a child. Default 1.
	MinSamplesLeaf int
	// MaxFeatures is the fraction of features considered per split; 0 or 1
	// considers every feature.
	MaxFeatures float64
	// Seed drives the bootstrap sampling and feature subsampling.
	Seed int64
	// Progress draws a progress bar while trees are built.
	Progress bool
}

func (c Config) withDefaults() Config {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = 2
	}
	if c.MinSamplesLeaf < 1 {
		c.MinSamplesLeaf = 1
	}
	return c
}

// Forest is a fitted ensemble of regression trees.
type Forest struct {
	Config      Config
	Trees       []*Node
	Importances []float64
	NumFeatures int
	Done        bool
}

// New creates an unfitted forest.
func New(cfg Config) *Forest {
	return &Forest{Config: cfg.withDefaults()}
}

func rows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = X.At(i, j)
		}
	}
	return out
}

// Fit grows the configured number of trees over bootstrap resamples of X.
// Tree i draws all of its randomness from Seed+i, so the result is
// independent of build order. Importances are the per-tree normalised
// reductions in squared error per feature, averaged over the ensemble; they
// align index-for-index with the columns of X and sum to one.
func (f *Forest) Fit(X mat.Matrix, y []float64) error {
	if f.Done {
		return errors.New("forest is already fitted")
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.New("empty feature matrix")
	}
	if r != len(y) {
		return errors.Errorf("feature matrix has %d rows, target has %d", r, len(y))
	}

	x := rows(X)
	f.NumFeatures = c
	f.Trees = make([]*Node, f.Config.Trees)
	perTree := make([][]float64, f.Config.Trees)

	var bar *pb.ProgressBar
	if f.Config.Progress {
		bar = pb.StartNew(f.Config.Trees)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for i := 0; i < f.Config.Trees; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(tree int) {
			defer wg.Done()
			defer func() { <-sem }()

			b := &treeBuilder{
				cfg:         f.Config,
				x:           x,
				y:           y,
				rnd:         rand.New(rand.NewSource(f.Config.Seed + int64(tree))),
				importances: make([]float64, c),
			}
			sample := make([]int, r)
			for j := range sample {
				sample[j] = b.rnd.Intn(r)
			}
			f.Trees[tree] = b.grow(sample, 0)
			if total := floats.Sum(b.importances); total > 0 {
				floats.Scale(1/total, b.importances)
			}
			perTree[tree] = b.importances
			if bar != nil {
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	f.Importances = make([]float64, c)
	for _, imp := range perTree {
		floats.Add(f.Importances, imp)
	}
	if total := floats.Sum(f.Importances); total > 0 {
		floats.Scale(1/total, f.Importances)
	}
	f.Done = true
	return nil
}

// Predict averages the trees' outputs for every row of X.
func (f *Forest) Predict(X mat.Matrix) ([]float64, error) {
	if !f.Done {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != f.NumFeatures {
		return nil, errors.Errorf("feature matrix has %d columns, forest was fitted on %d", c, f.NumFeatures)
	}
	x := rows(X)
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		var sum float64
		for _, t := range f.Trees {
			sum += t.predict(x[i])
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}
