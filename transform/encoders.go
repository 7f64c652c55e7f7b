package transform

import (
	"github.com/go-errors/errors"
	"github.com/hscells/farecast/frame"
	"gonum.org/v1/gonum/mat"
)

// OrdinalEncoder assigns each distinct value of a ranked category column an
// integer code in sorted value order. The column is assumed complete; a
// value never seen during fit (or a missing cell) maps to the reserved
// unknown code, one past the largest learned code.
type OrdinalEncoder struct {
	Column     string
	Categories []string
	Codes      map[string]float64
	Done       bool
}

// OrdinalEncode creates an encoder for a ranked category column.
func OrdinalEncode(column string) *OrdinalEncoder {
	return &OrdinalEncoder{Column: column}
}

// Fit learns the category codes from the training partition.
func (e *OrdinalEncoder) Fit(f *frame.Frame) error {
	if e.Done {
		return ErrRefit
	}
	c, err := f.Col(e.Column)
	if err != nil {
		return err
	}
	e.Categories = categories(c)
	e.Codes = make(map[string]float64, len(e.Categories))
	for i, v := range e.Categories {
		e.Codes[v] = float64(i)
	}
	e.Done = true
	return nil
}

// UnknownCode is the reserved code for values never seen during fit.
func (e *OrdinalEncoder) UnknownCode() float64 {
	return float64(len(e.Categories))
}

// Transform encodes the column of a frame using the learned codes.
func (e *OrdinalEncoder) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !e.Done {
		return nil, ErrNotFitted
	}
	c, err := f.Col(e.Column)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(c.Len(), 1, nil)
	for i := 0; i < c.Len(); i++ {
		code, ok := e.Codes[c.Value(i)]
		if !ok || c.IsNA(i) {
			code = e.UnknownCode()
		}
		out.Set(i, 0, code)
	}
	return out, nil
}

// Columns implements Transformer.
func (e *OrdinalEncoder) Columns() []string { return []string{e.Column} }

// Width implements Transformer.
func (e *OrdinalEncoder) Width() int { return 1 }

// NominalEncoder encodes an unranked category column. Missing values are
// imputed to the most frequent category of the training partition before
// encoding; the integer codes carry no ordering. Unseen values map to the
// reserved unknown code as in OrdinalEncoder.
type NominalEncoder struct {
	Column     string
	Fill       string
	Categories []string
	Codes      map[string]float64
	Done       bool
}

// NominalEncode creates an encoder for an unranked category column.
func NominalEncode(column string) *NominalEncoder {
	return &NominalEncoder{Column: column}
}

// Fit learns the imputation fill value and category codes from the training
// partition.
func (e *NominalEncoder) Fit(f *frame.Frame) error {
	if e.Done {
		return ErrRefit
	}
	c, err := f.Col(e.Column)
	if err != nil {
		return err
	}
	e.Fill, err = mostFrequent(c)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	e.Categories = categories(c)
	e.Codes = make(map[string]float64, len(e.Categories))
	for i, v := range e.Categories {
		e.Codes[v] = float64(i)
	}
	e.Done = true
	return nil
}

// UnknownCode is the reserved code for values never seen during fit.
func (e *NominalEncoder) UnknownCode() float64 {
	return float64(len(e.Categories))
}

// Transform imputes then encodes the column of a frame.
func (e *NominalEncoder) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !e.Done {
		return nil, ErrNotFitted
	}
	c, err := f.Col(e.Column)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(c.Len(), 1, nil)
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		if c.IsNA(i) {
			v = e.Fill
		}
		code, ok := e.Codes[v]
		if !ok {
			code = e.UnknownCode()
		}
		out.Set(i, 0, code)
	}
	return out, nil
}

// Columns implements Transformer.
func (e *NominalEncoder) Columns() []string { return []string{e.Column} }

// Width implements Transformer.
func (e *NominalEncoder) Width() int { return 1 }

// ZeroImputer passes numeric columns through unchanged, filling missing
// cells with zero. It learns nothing from the training partition.
type ZeroImputer struct {
	Cols []string
	Done bool
}

// ZeroImpute creates a pass-through transform over numeric count and rate
// columns whose absence means zero.
func ZeroImpute(columns ...string) *ZeroImputer {
	return &ZeroImputer{Cols: columns}
}

// Fit checks the columns exist in the training partition.
func (z *ZeroImputer) Fit(f *frame.Frame) error {
	if z.Done {
		return ErrRefit
	}
	for _, name := range z.Cols {
		if _, err := f.Col(name); err != nil {
			return err
		}
	}
	z.Done = true
	return nil
}

// Transform emits the columns in declared order with zeros in missing cells.
func (z *ZeroImputer) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !z.Done {
		return nil, ErrNotFitted
	}
	out := mat.NewDense(f.Len(), len(z.Cols), nil)
	for j, name := range z.Cols {
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != frame.Numeric {
			return nil, errors.Errorf("column %s is %s, expected numeric", name, c.Kind)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNA(i) {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, c.Float(i))
		}
	}
	return out, nil
}

// Columns implements Transformer.
func (z *ZeroImputer) Columns() []string { return z.Cols }

// Width implements Transformer.
func (z *ZeroImputer) Width() int { return len(z.Cols) }
