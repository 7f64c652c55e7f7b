// Package frame implements a small typed column table for training data.
// Values arrive as CSV text; each column is inferred to be numeric, boolean,
// or string, and missing cells are tracked per row so transforms can apply
// their own imputation policies.
package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

// Kind is the inferred type of a column.
type Kind int

const (
	String Kind = iota
	Numeric
	Bool
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Bool:
		return "boolean"
	default:
		return "string"
	}
}

var (
	// ErrMissingColumn indicates a column required by a transform or the
	// target pop is not present in the frame.
	ErrMissingColumn = errors.New("column not present in frame")
)

// Column is a single named column. Raw holds the original cell text for
// every row; Floats is populated when the column is numeric, with NaN in
// missing positions. NA marks missing cells regardless of kind.
type Column struct {
	Name   string
	Kind   Kind
	Raw    []string
	Floats []float64
	NA     []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Raw)
}

// IsNA reports whether the cell at row i is missing.
func (c *Column) IsNA(i int) bool {
	return c.NA[i]
}

// Value returns the cell at row i as text, or the empty string when missing.
func (c *Column) Value(i int) string {
	if c.NA[i] {
		return ""
	}
	return c.Raw[i]
}

// Float returns the numeric value at row i. Missing cells are NaN.
func (c *Column) Float(i int) float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	return c.Floats[i]
}

func (c *Column) subset(rows []int) *Column {
	s := &Column{
		Name: c.Name,
		Kind: c.Kind,
		Raw:  make([]string, len(rows)),
		NA:   make([]bool, len(rows)),
	}
	if c.Floats != nil {
		s.Floats = make([]float64, len(rows))
	}
	for i, r := range rows {
		s.Raw[i] = c.Raw[r]
		s.NA[i] = c.NA[r]
		if s.Floats != nil {
			s.Floats[i] = c.Floats[r]
		}
	}
	return s
}

func missingCell(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "nan", "null", "None":
		return true
	}
	return false
}

// NewColumn builds a column from raw cell text, inferring its kind. A column
// is numeric when every non-missing cell parses as a float, boolean when
// every non-missing cell is true/false, and a string column otherwise.
func NewColumn(name string, cells []string) *Column {
	c := &Column{
		Name: name,
		Raw:  make([]string, len(cells)),
		NA:   make([]bool, len(cells)),
	}
	numeric, boolean := true, true
	seen := false
	for i, v := range cells {
		v = strings.TrimSpace(v)
		c.Raw[i] = v
		if missingCell(v) {
			c.NA[i] = true
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if _, err := strconv.ParseBool(v); err != nil {
			boolean = false
		}
	}
	switch {
	case seen && numeric:
		c.Kind = Numeric
		c.Floats = make([]float64, len(cells))
		for i := range cells {
			if c.NA[i] {
				c.Floats[i] = math.NaN()
				continue
			}
			f, _ := strconv.ParseFloat(c.Raw[i], 64)
			c.Floats[i] = f
		}
	case seen && boolean:
		c.Kind = Bool
	default:
		c.Kind = String
	}
	return c
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	cols  []*Column
	index map[string]int
	n     int
}

// New creates a frame from columns, which must all have the same length.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int)}
	for _, c := range cols {
		if len(f.cols) > 0 && c.Len() != f.n {
			return nil, errors.Errorf("column %s has %d rows, frame has %d", c.Name, c.Len(), f.n)
		}
		if _, ok := f.index[c.Name]; ok {
			return nil, errors.Errorf("duplicate column %s", c.Name)
		}
		f.n = c.Len()
		f.index[c.Name] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// ReadCSV loads a frame from comma-separated text with a header row.
func ReadCSV(r io.Reader) (*Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if len(records) < 2 {
		return nil, errors.New("csv must contain a header row and at least one record")
	}
	header := records[0]
	cols := make([]*Column, len(header))
	for j, name := range header {
		cells := make([]string, len(records)-1)
		for i := 1; i < len(records); i++ {
			cells[i-1] = records[i][j]
		}
		cols[j] = NewColumn(strings.TrimSpace(name), cells)
	}
	return New(cols...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.n
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// Col returns the named column, or ErrMissingColumn.
func (f *Frame) Col(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrMissingColumn, name, 0)
	}
	return f.cols[i], nil
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Pop removes the named numeric column and returns its values. Every row
// must hold a value; the target of a regression cannot be missing.
func (f *Frame) Pop(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrMissingColumn, name, 0)
	}
	c := f.cols[i]
	if c.Kind != Numeric {
		return nil, errors.Errorf("column %s is %s, cannot pop as target", name, c.Kind)
	}
	for r := 0; r < c.Len(); r++ {
		if c.NA[r] {
			return nil, errors.Errorf("column %s has a missing value at row %d", name, r)
		}
	}
	f.cols = append(f.cols[:i], f.cols[i+1:]...)
	f.index = make(map[string]int, len(f.cols))
	for j, col := range f.cols {
		f.index[col.Name] = j
	}
	return c.Floats, nil
}

// Subset returns a new frame containing the given rows, in the given order.
func (f *Frame) Subset(rows []int) *Frame {
	s := &Frame{index: make(map[string]int, len(f.cols)), n: len(rows)}
	for i, c := range f.cols {
		s.cols = append(s.cols, c.subset(rows))
		s.index[c.Name] = i
	}
	return s
}

// Head returns the first n rows of the frame.
func (f *Frame) Head(n int) *Frame {
	if n > f.n {
		n = f.n
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.Subset(rows)
}

// ValidateTypes checks that every column kind can be represented by the
// exported artifact signature. Column kinds outside string, numeric and
// boolean are fatal.
func ValidateTypes(f *Frame) error {
	for _, c := range f.Columns() {
		switch c.Kind {
		case String, Numeric, Bool:
		default:
			return errors.Errorf("column %s has unsupported type %d for export", c.Name, c.Kind)
		}
	}
	return nil
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame with %d rows and columns %v", f.n, f.Names())
}
