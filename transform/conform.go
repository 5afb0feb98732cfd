package transform

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/hydroml/hydroml/pkg/errors"
)

// conformShape pads a frame so a scaler fitted on a wider table can be
// reapplied to it, typically when only a subset of columns is being
// inverse transformed. It returns the padded frame and how many dummy
// columns were added.
//
// When features is given, each missing named column is appended filled
// with uniform random values in [0, 1). Otherwise the column deficit
// against the recorded shape is made up with random columns prepended
// before the real ones. Either way the pad values are discarded after
// the scaler runs (see stripPad and Frame.Select); they exist only to
// satisfy the scaler's fitted width and never reach the caller.
//
// A rank difference of one against the recorded shape is tolerated: a
// frame is always two dimensional, and a leading/trailing singleton
// axis in the recorded shape carries no columns. A larger difference is
// ambiguous and fails.
func conformShape(f *Frame, shape []int, features []string) (*Frame, int, error) {
	r, c := f.Dims()

	diff := 2 - len(shape)
	if diff < -1 || diff > 1 {
		return nil, 0, errors.NewShapeMismatchError("conformShape", shape, []int{r, c})
	}

	target := shape[len(shape)-1]
	switch diff {
	case 1:
		// Recorded shape is a vector: the frame collapses to it only if
		// it has a single column.
		if c != 1 {
			return nil, 0, errors.NewShapeMismatchError("conformShape", shape, []int{r, c})
		}
		return f, 0, nil
	case -1:
		// Recorded shape carries an extra trailing singleton axis.
		if shape[len(shape)-1] != 1 {
			return nil, 0, errors.NewShapeMismatchError("conformShape", shape, []int{r, c})
		}
		return f, 0, nil
	}

	if len(features) > 0 {
		// We know which columns the scaler expects, so add the missing
		// ones by name.
		added := 0
		out := f
		for _, name := range features {
			if out.Has(name) {
				continue
			}
			vals := make([]float64, r)
			for i := range vals {
				vals[i] = rand.Float64()
			}
			var err error
			out, err = out.AppendColumn(name, vals)
			if err != nil {
				return nil, 0, err
			}
			added++
		}
		return out, added, nil
	}

	dummy := target - c
	if dummy <= 0 {
		return f, 0, nil
	}

	pad := mat.NewDense(r, dummy, nil)
	names := make([]string, dummy)
	for j := 0; j < dummy; j++ {
		names[j] = fmt.Sprintf("_pad%d", j)
		for i := 0; i < r; i++ {
			pad.Set(i, j, rand.Float64())
		}
	}
	out, err := f.PrependColumns(names, pad)
	if err != nil {
		return nil, 0, err
	}
	return out, dummy, nil
}

// stripPad removes the leading dummy columns a count-based conformShape
// added, restoring the caller's original column count.
func stripPad(f *Frame, added int) (*Frame, error) {
	return f.DropLeading(added)
}
