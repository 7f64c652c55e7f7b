// Package transform implements the column transforms that turn a listing
// frame into a numeric feature matrix. Each transform learns its parameters
// once, from the training partition only, and applies them unchanged to
// every later frame.
package transform

import (
	"encoding/gob"
	"sort"

	"github.com/go-errors/errors"
	"github.com/hscells/farecast/frame"
	"github.com/xtgo/set"
	"gonum.org/v1/gonum/mat"
)

// Transformer fits on a training frame and derives numeric features from a
// fixed set of input columns. Transform must not be called before Fit, and
// Fit must not be called twice.
type Transformer interface {
	// Fit learns the transform's parameters from the training partition.
	Fit(f *frame.Frame) error
	// Transform derives features for a frame using the learned parameters.
	Transform(f *frame.Frame) (*mat.Dense, error)
	// Columns lists the input columns the transform consumes.
	Columns() []string
	// Width is the number of feature columns emitted, valid after Fit.
	Width() int
}

var (
	// ErrNotFitted is returned when Transform is called before Fit.
	ErrNotFitted = errors.New("transform has not been fitted")
	// ErrRefit is returned when Fit is called on an already-fitted transform.
	ErrRefit = errors.New("transform is already fitted")
)

func init() {
	gob.Register(&OrdinalEncoder{})
	gob.Register(&NominalEncoder{})
	gob.Register(&ZeroImputer{})
	gob.Register(&DateDelta{})
	gob.Register(&TextVectorizer{})
}

// categories returns the distinct non-missing values of a column, sorted.
func categories(c *frame.Column) []string {
	var vals []string
	for i := 0; i < c.Len(); i++ {
		if !c.IsNA(i) {
			vals = append(vals, c.Value(i))
		}
	}
	sort.Strings(vals)
	return vals[:set.Uniq(sort.StringSlice(vals))]
}

// mostFrequent returns the most frequent non-missing value of a column,
// breaking ties by the lexicographically smallest value.
func mostFrequent(c *frame.Column) (string, error) {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsNA(i) {
			counts[c.Value(i)]++
		}
	}
	if len(counts) == 0 {
		return "", errors.Errorf("column %s has no values to impute from", c.Name)
	}
	var best string
	bestN := -1
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, nil
}
