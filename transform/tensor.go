package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense float64 array of rank 2 (rows, features) or rank 3
// (examples, time, features), stored row-major.
type Tensor struct {
	data  []float64
	shape []int
}

// NewTensor2D returns a rank-2 tensor backed by data. A nil data slice
// allocates a zero tensor. Panics if the slice length does not match
// rows*cols, mirroring mat.NewDense.
func NewTensor2D(rows, cols int, data []float64) *Tensor {
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic("transform: tensor data length mismatch")
	}
	return &Tensor{data: data, shape: []int{rows, cols}}
}

// NewTensor3D returns a rank-3 tensor with layout (examples, time, features).
func NewTensor3D(examples, steps, cols int, data []float64) *Tensor {
	if data == nil {
		data = make([]float64, examples*steps*cols)
	}
	if len(data) != examples*steps*cols {
		panic("transform: tensor data length mismatch")
	}
	return &Tensor{data: data, shape: []int{examples, steps, cols}}
}

// newNaNTensor allocates a tensor of the given shape filled with NaN.
// Used as a scratch buffer when reassembling rank-3 results so a missed
// time slice is visible instead of silently zero.
func newNaNTensor(shape []int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Tensor{data: data, shape: append([]int(nil), shape...)}
}

// Rank returns 2 or 3.
func (t *Tensor) Rank() int { return len(t.shape) }

// Shape returns a copy of the tensor's dimensions.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Rows returns the leading dimension (rows or examples).
func (t *Tensor) Rows() int { return t.shape[0] }

// Features returns the trailing dimension.
func (t *Tensor) Features() int { return t.shape[len(t.shape)-1] }

// TimeSteps returns the time dimension of a rank-3 tensor, or 1 for rank 2.
func (t *Tensor) TimeSteps() int {
	if len(t.shape) == 3 {
		return t.shape[1]
	}
	return 1
}

// Matrix returns a rank-2 tensor as a dense matrix sharing the tensor's
// backing storage. Panics on rank-3 tensors.
func (t *Tensor) Matrix() *mat.Dense {
	if len(t.shape) != 2 {
		panic("transform: Matrix called on a rank-3 tensor")
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

// TimeSlice copies the (examples, features) table at the given time step
// of a rank-3 tensor.
func (t *Tensor) TimeSlice(step int) *mat.Dense {
	if len(t.shape) != 3 {
		panic("transform: TimeSlice called on a rank-2 tensor")
	}
	examples, steps, cols := t.shape[0], t.shape[1], t.shape[2]
	out := mat.NewDense(examples, cols, nil)
	for e := 0; e < examples; e++ {
		base := (e*steps + step) * cols
		for j := 0; j < cols; j++ {
			out.Set(e, j, t.data[base+j])
		}
	}
	return out
}

// SetTimeSlice writes a (examples, features) table into the given time
// step of a rank-3 tensor.
func (t *Tensor) SetTimeSlice(step int, m mat.Matrix) {
	if len(t.shape) != 3 {
		panic("transform: SetTimeSlice called on a rank-2 tensor")
	}
	examples, steps, cols := t.shape[0], t.shape[1], t.shape[2]
	for e := 0; e < examples; e++ {
		base := (e*steps + step) * cols
		for j := 0; j < cols; j++ {
			t.data[base+j] = m.At(e, j)
		}
	}
}

// TensorFromMatrix copies a dense matrix into a rank-2 tensor.
func TensorFromMatrix(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	out := NewTensor2D(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = m.At(i, j)
		}
	}
	return out
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		data:  append([]float64(nil), t.data...),
		shape: append([]int(nil), t.shape...),
	}
}

// EqualApprox reports whether two tensors have identical shape and
// element-wise values within tol.
func (t *Tensor) EqualApprox(other *Tensor, tol float64) bool {
	if len(t.shape) != len(other.shape) {
		return false
	}
	for i, d := range t.shape {
		if other.shape[i] != d {
			return false
		}
	}
	for i, v := range t.data {
		if math.Abs(v-other.data[i]) > tol {
			return false
		}
	}
	return true
}

// At returns the element at the given indices (2 or 3 of them,
// matching the tensor's rank).
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set assigns the element at the given indices.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic("transform: index rank mismatch")
	}
	off := 0
	for i, x := range idx {
		off = off*t.shape[i] + x
	}
	return off
}
