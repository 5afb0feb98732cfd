package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hydroml/hydroml/pkg/errors"
)

// Primitive fits and applies one named transformation to one table and
// can undo it later given the recorded entry. The pipeline treats it as
// a black box; the default implementation dispatches on the built-in
// method scalers. Tests substitute their own to observe call order.
type Primitive interface {
	// FitTransform applies the step described by spec to f and returns
	// the transformed frame together with the fitted state needed to
	// invert it.
	FitTransform(f *Frame, spec Spec) (*Frame, ScalerEntry, error)

	// InverseTransform undoes the step using a previously recorded
	// entry. It must be deterministic given the same entry.
	InverseTransform(f *Frame, spec Spec, entry ScalerEntry) (*Frame, error)
}

// subsetColumns resolves which columns a spec observes: the features in
// declaration order, restricted to those present, or every column when
// no features are named.
func subsetColumns(f *Frame, features []string) []string {
	if features == nil {
		return f.Columns()
	}
	out := make([]string, 0, len(features))
	for _, name := range features {
		if f.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// methodPrimitive is the default Primitive backed by the built-in
// method scalers.
type methodPrimitive struct{}

func (methodPrimitive) FitTransform(f *Frame, spec Spec) (*Frame, ScalerEntry, error) {
	cols := subsetColumns(f, spec.Features)
	if len(cols) == 0 {
		return nil, ScalerEntry{}, errors.NewValueError("Primitive.FitTransform", "no feature column present in table")
	}

	sub, err := f.Select(cols)
	if err != nil {
		return nil, ScalerEntry{}, err
	}

	fs, err := newFittedScaler(spec)
	if err != nil {
		return nil, ScalerEntry{}, err
	}
	transformed, err := fs.FitTransform(sub.Matrix())
	if err != nil {
		return nil, ScalerEntry{}, err
	}

	out := f.Clone()
	if err := out.SetColumns(cols, transformed); err != nil {
		return nil, ScalerEntry{}, err
	}

	r, c := f.Dims()
	entry := ScalerEntry{Scaler: fs, Shape: []int{r, c}, Columns: cols, Method: spec.Method}
	return out, entry, nil
}

func (methodPrimitive) InverseTransform(f *Frame, spec Spec, entry ScalerEntry) (*Frame, error) {
	// The fitted state knows which columns the scaler saw; a spec's
	// feature list may be wider than what was present at fit time.
	features := entry.Columns
	if features == nil {
		features = spec.Features
	}
	cols := subsetColumns(f, features)
	if len(cols) == 0 {
		return f, nil
	}

	sub, err := f.Select(cols)
	if err != nil {
		return nil, err
	}
	restored, err := entry.Scaler.InverseTransform(sub.Matrix())
	if err != nil {
		return nil, err
	}

	out := f.Clone()
	if err := out.SetColumns(cols, restored); err != nil {
		return nil, err
	}
	return out, nil
}

// fittedScaler wraps a method scaler with the optional data cleansing a
// Spec requests. Cells rewritten during fitting are recorded so the
// inverse restores them exactly, which keeps the log and sqrt families
// round-trippable on data containing zeros or negatives.
type fittedScaler struct {
	inner          Scaler
	treatNegatives bool
	replaceZeros   bool

	cols      int
	negatives []int // linear indices of cells whose sign was dropped
	zeros     []int // linear indices of cells rewritten from zero to one
}

func newFittedScaler(spec Spec) (*fittedScaler, error) {
	inner, err := NewMethodScaler(spec.Method)
	if err != nil {
		return nil, err
	}
	return &fittedScaler{
		inner:          inner,
		treatNegatives: spec.TreatNegatives,
		replaceZeros:   spec.ReplaceZeros,
	}, nil
}

func (s *fittedScaler) cleanse(X *mat.Dense, record bool) {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.replaceZeros && v == 0 {
				X.Set(i, j, 1)
				if record {
					s.zeros = append(s.zeros, i*c+j)
				}
				continue
			}
			if s.treatNegatives && v < 0 {
				X.Set(i, j, -v)
				if record {
					s.negatives = append(s.negatives, i*c+j)
				}
			}
		}
	}
}

func (s *fittedScaler) Fit(X mat.Matrix) error {
	Xd := mat.DenseCopyOf(X)
	_, s.cols = Xd.Dims()
	s.negatives = nil
	s.zeros = nil
	s.cleanse(Xd, true)
	return s.inner.Fit(Xd)
}

// Transform cleanses without recording: the recorded cells belong to
// the fit data, not to arbitrary new data.
func (s *fittedScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	Xd := mat.DenseCopyOf(X)
	s.cleanse(Xd, false)
	return s.inner.Transform(Xd)
}

func (s *fittedScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	Xd := mat.DenseCopyOf(X)
	_, s.cols = Xd.Dims()
	s.negatives = nil
	s.zeros = nil
	s.cleanse(Xd, true)
	return s.inner.FitTransform(Xd)
}

func (s *fittedScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	restored, err := s.inner.InverseTransform(X)
	if err != nil {
		return nil, err
	}
	Xd := mat.DenseCopyOf(restored)
	_, c := Xd.Dims()
	if c == s.cols {
		for _, idx := range s.negatives {
			i, j := idx/c, idx%c
			Xd.Set(i, j, -Xd.At(i, j))
		}
		for _, idx := range s.zeros {
			i, j := idx/c, idx%c
			Xd.Set(i, j, 0)
		}
	}
	return Xd, nil
}
