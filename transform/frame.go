package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hydroml/hydroml/pkg/errors"
)

// Frame is a rank-2 table with named columns. It is the unit every
// transformation method operates on; feature subsetting and shape
// reconciliation address columns by name through it.
type Frame struct {
	cols  []string
	index map[string]int
	data  *mat.Dense
}

// NewFrame pairs column names with a dense matrix. The name count must
// match the matrix width.
func NewFrame(cols []string, data *mat.Dense) (*Frame, error) {
	_, c := data.Dims()
	if len(cols) != c {
		return nil, errors.NewDimensionError("NewFrame", len(cols), c, 1)
	}
	index := make(map[string]int, len(cols))
	for i, name := range cols {
		index[name] = i
	}
	return &Frame{cols: append([]string(nil), cols...), index: index, data: data}, nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// Dims returns the row and column counts.
func (f *Frame) Dims() (int, int) {
	return f.data.Dims()
}

// Rows returns the row count.
func (f *Frame) Rows() int {
	r, _ := f.data.Dims()
	return r
}

// NumCols returns the column count.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// HasAny reports whether any of the named columns exist.
func (f *Frame) HasAny(names []string) bool {
	for _, name := range names {
		if f.Has(name) {
			return true
		}
	}
	return false
}

// Matrix returns the underlying dense matrix.
func (f *Frame) Matrix() *mat.Dense {
	return f.data
}

// Select returns a new frame holding copies of the named columns, in
// the order given.
func (f *Frame) Select(names []string) (*Frame, error) {
	r, _ := f.data.Dims()
	out := mat.NewDense(r, len(names), nil)
	for j, name := range names {
		src, ok := f.index[name]
		if !ok {
			return nil, errors.NewValueError("Frame.Select", "unknown column "+name)
		}
		for i := 0; i < r; i++ {
			out.Set(i, j, f.data.At(i, src))
		}
	}
	return NewFrame(names, out)
}

// SetColumns writes the columns of m back into f under the given names.
// m's column order must match names.
func (f *Frame) SetColumns(names []string, m mat.Matrix) error {
	r, c := m.Dims()
	rows, _ := f.data.Dims()
	if c != len(names) || r != rows {
		return errors.NewDimensionError("Frame.SetColumns", len(names), c, 1)
	}
	for j, name := range names {
		dst, ok := f.index[name]
		if !ok {
			return errors.NewValueError("Frame.SetColumns", "unknown column "+name)
		}
		for i := 0; i < r; i++ {
			f.data.Set(i, dst, m.At(i, j))
		}
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out, _ := NewFrame(f.cols, mat.DenseCopyOf(f.data))
	return out
}

// AppendColumn returns a new frame with one extra trailing column.
func (f *Frame) AppendColumn(name string, vals []float64) (*Frame, error) {
	r, c := f.data.Dims()
	if len(vals) != r {
		return nil, errors.NewDimensionError("Frame.AppendColumn", r, len(vals), 0)
	}
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, f.data.At(i, j))
		}
		out.Set(i, c, vals[i])
	}
	return NewFrame(append(f.Columns(), name), out)
}

// PrependColumns returns a new frame with the given columns placed
// before the existing ones.
func (f *Frame) PrependColumns(names []string, vals *mat.Dense) (*Frame, error) {
	r, c := f.data.Dims()
	vr, vc := vals.Dims()
	if vr != r || vc != len(names) {
		return nil, errors.NewDimensionError("Frame.PrependColumns", r, vr, 0)
	}
	out := mat.NewDense(r, vc+c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < vc; j++ {
			out.Set(i, j, vals.At(i, j))
		}
		for j := 0; j < c; j++ {
			out.Set(i, vc+j, f.data.At(i, j))
		}
	}
	return NewFrame(append(append([]string(nil), names...), f.cols...), out)
}

// DropLeading returns a new frame without the first n columns.
func (f *Frame) DropLeading(n int) (*Frame, error) {
	if n <= 0 {
		return f, nil
	}
	if n > len(f.cols) {
		return nil, errors.NewDimensionError("Frame.DropLeading", len(f.cols), n, 1)
	}
	return f.Select(f.cols[n:])
}
