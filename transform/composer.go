package transform

import (
	"github.com/go-errors/errors"
	"github.com/hscells/farecast/frame"
	"gonum.org/v1/gonum/mat"
)

// Group describes one logical input column's contribution to the composed
// feature matrix. A text column expands to Width > 1; every other logical
// column contributes exactly one feature.
type Group struct {
	Name  string
	Width int
}

// Composer routes each column group to its transform and concatenates the
// numeric outputs in the order the transforms were declared. Columns not
// claimed by any transform are dropped. Fit must be called exactly once, on
// the training partition, before any Transform.
type Composer struct {
	Steps    []Transformer
	OutWidth int
	Done     bool
}

// NewComposer creates a composer over the given transforms. The declared
// order is the concatenation order and never changes.
func NewComposer(steps ...Transformer) *Composer {
	return &Composer{Steps: steps}
}

// Fit fits every transform on the training partition, in order, and freezes
// the composed output width.
func (c *Composer) Fit(f *frame.Frame) error {
	if c.Done {
		return ErrRefit
	}
	c.OutWidth = 0
	for _, s := range c.Steps {
		if err := s.Fit(f); err != nil {
			return errors.WrapPrefix(err, "fitting composer", 0)
		}
		c.OutWidth += s.Width()
	}
	c.Done = true
	return nil
}

// Transform applies the fitted transforms to a frame and concatenates their
// outputs. The result always has exactly the fit-time width; a frame missing
// a required column is an error, never a narrower matrix.
func (c *Composer) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !c.Done {
		return nil, ErrNotFitted
	}
	out := mat.NewDense(f.Len(), c.OutWidth, nil)
	col := 0
	for _, s := range c.Steps {
		block, err := s.Transform(f)
		if err != nil {
			return nil, errors.WrapPrefix(err, "composing features", 0)
		}
		if block == nil {
			continue
		}
		r, w := block.Dims()
		if r != f.Len() {
			return nil, errors.Errorf("transform over %v emitted %d rows for a %d row frame", s.Columns(), r, f.Len())
		}
		for j := 0; j < w; j++ {
			for i := 0; i < r; i++ {
				out.Set(i, col+j, block.At(i, j))
			}
		}
		col += w
	}
	if col != c.OutWidth {
		return nil, errors.Errorf("composed %d feature columns, fitted width is %d", col, c.OutWidth)
	}
	return out, nil
}

// Width returns the composed output width, valid after Fit.
func (c *Composer) Width() int {
	return c.OutWidth
}

// Layout returns one group per logical input column, in output order. Used
// to collapse expanded feature importances back onto input columns.
func (c *Composer) Layout() []Group {
	var groups []Group
	for _, s := range c.Steps {
		cols := s.Columns()
		if len(cols) == 1 {
			groups = append(groups, Group{Name: cols[0], Width: s.Width()})
			continue
		}
		for _, name := range cols {
			groups = append(groups, Group{Name: name, Width: 1})
		}
	}
	return groups
}

// Listing column groups, in composed output order.
var (
	OrdinalColumns = []string{"room_type"}
	NominalColumns = []string{"neighbourhood_group"}
	ZeroColumns    = []string{
		"minimum_nights",
		"number_of_reviews",
		"reviews_per_month",
		"calculated_host_listings_count",
		"availability_365",
		"longitude",
		"latitude",
	}
	DateColumn = "last_review"
	TextColumn = "name"
)

// NewListingComposer creates the composer for the short-term rental listing
// schema: ordinal room type, nominal neighbourhood group, zero-imputed
// counts and coordinates, days since last review, and a tf-idf block over
// the listing name.
func NewListingComposer(maxTFIDFFeatures int) *Composer {
	return NewComposer(
		OrdinalEncode(OrdinalColumns[0]),
		NominalEncode(NominalColumns[0]),
		ZeroImpute(ZeroColumns...),
		DateDeltaFeature(DateColumn),
		TextVectorize(TextColumn, maxTFIDFFeatures),
	)
}
