package transform

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/hydroml/hydroml/pkg/errors"
)

func matrixApproxEqual(t *testing.T, got, want mat.Matrix, tol float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("dims mismatch: got (%d,%d), want (%d,%d)", gr, gc, wr, wc)
	}
	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > tol {
				t.Errorf("element (%d,%d): got %v, want %v", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestStandardScalerKnownValues(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		3, 20,
		5, 30,
		7, 40,
	})

	s := NewStandardScaler(true, true)
	transformed, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 平均4、標準偏差sqrt(5)の列を確認
	if math.Abs(s.Mean[0]-4.0) > 1e-10 {
		t.Errorf("Mean[0] = %v, want 4.0", s.Mean[0])
	}
	wantScale := math.Sqrt(5.0)
	if math.Abs(s.Scale[0]-wantScale) > 1e-10 {
		t.Errorf("Scale[0] = %v, want %v", s.Scale[0], wantScale)
	}

	restored, err := s.InverseTransform(transformed)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	matrixApproxEqual(t, restored, X, 1e-10)
}

func TestStandardScalerCenterOnly(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})

	s := NewStandardScaler(true, false)
	transformed, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	want := mat.NewDense(3, 1, []float64{-1, 0, 1})
	matrixApproxEqual(t, transformed, want, 1e-10)
}

func TestMinMaxScalerRange(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 100,
		5, 200,
		10, 300,
	})

	m := NewMinMaxScalerDefault()
	transformed, err := m.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	want := mat.NewDense(3, 2, []float64{
		0, 0,
		0.5, 0.5,
		1, 1,
	})
	matrixApproxEqual(t, transformed, want, 1e-10)

	restored, err := m.InverseTransform(transformed)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	matrixApproxEqual(t, restored, X, 1e-10)
}

func TestMinMaxScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	m := NewMinMaxScalerDefault()
	transformed, err := m.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 定数列はスケール1で処理され、ゼロ除算は発生しない
	for i := 0; i < 3; i++ {
		if v := transformed.At(i, 0); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("element (%d,0) = %v, want finite", i, v)
		}
	}
}

func TestRoundTripAllMethods(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		1.0, 50.0,
		2.5, 10.0,
		4.0, 30.0,
		8.0, 20.0,
		16.0, 40.0,
	})

	for _, method := range DefaultCategories() {
		if method == MethodNone {
			continue
		}
		t.Run(method, func(t *testing.T) {
			s, err := NewMethodScaler(method)
			if err != nil {
				t.Fatalf("NewMethodScaler(%q) failed: %v", method, err)
			}
			transformed, err := s.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform failed: %v", err)
			}
			restored, err := s.InverseTransform(transformed)
			if err != nil {
				t.Fatalf("InverseTransform failed: %v", err)
			}
			matrixApproxEqual(t, restored, X, 1e-8)
		})
	}
}

func TestNewMethodScalerUnknown(t *testing.T) {
	_, err := NewMethodScaler("fourier")
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	var ve *errors.ValueError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValueError, got %T", err)
	}
}

func TestScalerNotFitted(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	scalers := []Scaler{
		NewStandardScaler(true, true),
		NewMinMaxScalerDefault(),
		NewRobustScaler(),
		NewLogScaler(math.E),
		NewSqrtScaler(),
		NewPowerScaler(2),
	}

	for _, s := range scalers {
		if _, err := s.Transform(X); err == nil {
			t.Errorf("%T.Transform before Fit: expected error", s)
		} else {
			var nfe *errors.NotFittedError
			if !errors.As(err, &nfe) {
				t.Errorf("%T.Transform: expected NotFittedError, got %T", s, err)
			}
		}
		if _, err := s.InverseTransform(X); err == nil {
			t.Errorf("%T.InverseTransform before Fit: expected error", s)
		}
	}
}

func TestScalerDimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	Y := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	s := NewStandardScaler(true, true)
	if err := s.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := s.Transform(Y)
	if err == nil {
		t.Fatal("expected error for feature count mismatch")
	}
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
	if de.Expected != 2 || de.Got != 3 {
		t.Errorf("DimensionError = expected %d got %d, want expected 2 got 3", de.Expected, de.Got)
	}
}

// emptyMatrix は行数0の行列。mat.NewDenseは0行を許さないため。
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 1 }
func (emptyMatrix) At(i, j int) float64 { panic("empty") }
func (m emptyMatrix) T() mat.Matrix     { return mat.Transpose{Matrix: m} }

func TestScalerEmptyData(t *testing.T) {
	s := NewMinMaxScalerDefault()
	err := s.Fit(emptyMatrix{})
	if err == nil {
		t.Fatal("expected error for empty data")
	}
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData in chain, got %v", err)
	}
}

func TestRobustScalerOutliers(t *testing.T) {
	// 外れ値を含むデータでも中央値ベースのスケーリングは安定する
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 1000})

	rs := NewRobustScaler()
	transformed, err := rs.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 中央値（3）はゼロに写る
	if v := transformed.At(2, 0); math.Abs(v) > 1e-10 {
		t.Errorf("median element = %v, want 0", v)
	}

	restored, err := rs.InverseTransform(transformed)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	matrixApproxEqual(t, restored, X, 1e-8)
}

func TestLogScalerBases(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 8, 64})

	tests := []struct {
		name string
		base float64
		want []float64
	}{
		{"base2", 2, []float64{0, 3, 6}},
		{"base10", 10, []float64{0, math.Log10(8), math.Log10(64)}},
		{"natural", math.E, []float64{0, math.Log(8), math.Log(64)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogScaler(tt.base)
			transformed, err := l.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform failed: %v", err)
			}
			for i, want := range tt.want {
				if got := transformed.At(i, 0); math.Abs(got-want) > 1e-10 {
					t.Errorf("element %d: got %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestPowerScalerZeroExponent(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	p := NewPowerScaler(0)
	if err := p.Fit(X); err == nil {
		t.Fatal("expected error for zero exponent")
	}
}
