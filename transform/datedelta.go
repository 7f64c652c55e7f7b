package transform

import (
	"time"

	"github.com/hscells/farecast/frame"
	"gonum.org/v1/gonum/mat"
)

// SentinelDate fills missing and unparsable dates before the delta is taken.
var SentinelDate = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// DateDelta derives one numeric feature from a date column: the number of
// days between the column's maximum date and each row's date. The maximum is
// computed once during Fit and frozen, so the feature keeps the same
// reference point at prediction time; the row holding the fit-time maximum
// always maps to 0.
type DateDelta struct {
	Column string
	Max    time.Time
	Done   bool
}

// DateDeltaFeature creates a date-delta transform over one date column.
func DateDeltaFeature(column string) *DateDelta {
	return &DateDelta{Column: column}
}

// parseDate parses a cell against the accepted layouts, falling back to the
// sentinel when the value is unparsable.
func parseDate(v string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return SentinelDate
}

func (d *DateDelta) dates(f *frame.Frame) ([]time.Time, error) {
	c, err := f.Col(d.Column)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			out[i] = SentinelDate
			continue
		}
		out[i] = parseDate(c.Value(i))
	}
	return out, nil
}

// Fit computes and freezes the reference date from the training partition.
func (d *DateDelta) Fit(f *frame.Frame) error {
	if d.Done {
		return ErrRefit
	}
	dates, err := d.dates(f)
	if err != nil {
		return err
	}
	d.Max = SentinelDate
	for _, t := range dates {
		if t.After(d.Max) {
			d.Max = t
		}
	}
	d.Done = true
	return nil
}

// Transform emits the day delta against the frozen reference date.
func (d *DateDelta) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !d.Done {
		return nil, ErrNotFitted
	}
	dates, err := d.dates(f)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(dates), 1, nil)
	for i, t := range dates {
		out.Set(i, 0, d.Max.Sub(t).Hours()/24)
	}
	return out, nil
}

// Columns implements Transformer.
func (d *DateDelta) Columns() []string { return []string{d.Column} }

// Width implements Transformer.
func (d *DateDelta) Width() int { return 1 }
