package transform

import (
	"math"
	"testing"
)

func TestMethodPrimitiveFeatureSubset(t *testing.T) {
	f := newTestFrame(t, []string{"a", "b", "c"}, []float64{
		1, 10, 100,
		2, 20, 200,
		3, 30, 300,
	})

	p := methodPrimitive{}
	spec := Spec{Method: MethodMinMax, Features: []string{"a", "c"}}

	out, entry, err := p.FitTransform(f, spec)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 対象外の列は変化しない
	for i := 0; i < 3; i++ {
		if out.Matrix().At(i, 1) != f.Matrix().At(i, 1) {
			t.Errorf("untouched column b changed at row %d", i)
		}
	}
	// 対象の列は[0,1]にスケーリングされる
	if got := out.Matrix().At(0, 0); got != 0 {
		t.Errorf("a[0] = %v, want 0", got)
	}
	if got := out.Matrix().At(2, 2); got != 1 {
		t.Errorf("c[2] = %v, want 1", got)
	}

	// 記録される形状はテーブル全体の形状
	if len(entry.Shape) != 2 || entry.Shape[0] != 3 || entry.Shape[1] != 3 {
		t.Errorf("entry.Shape = %v, want [3 3]", entry.Shape)
	}
	if entry.Method != MethodMinMax {
		t.Errorf("entry.Method = %q, want %q", entry.Method, MethodMinMax)
	}

	restored, err := p.InverseTransform(out, spec, entry)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(restored.Matrix().At(i, j)-f.Matrix().At(i, j)) > 1e-10 {
				t.Errorf("element (%d,%d) not restored", i, j)
			}
		}
	}
}

func TestMethodPrimitiveRecordsFittedColumns(t *testing.T) {
	f := newTestFrame(t, []string{"a"}, []float64{1, 2, 3})

	p := methodPrimitive{}
	spec := Spec{Method: MethodMinMax, Features: []string{"a", "b"}}

	out, entry, err := p.FitTransform(f, spec)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 学習時に実在した列だけが記録される
	if len(entry.Columns) != 1 || entry.Columns[0] != "a" {
		t.Fatalf("entry.Columns = %v, want [a]", entry.Columns)
	}

	// specがより広くても、逆変換は学習済みの列だけを見る
	restored, err := p.InverseTransform(out, spec, entry)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(restored.Matrix().At(i, 0)-f.Matrix().At(i, 0)) > 1e-10 {
			t.Errorf("row %d not restored", i)
		}
	}
}

func TestInversePadsToFittedColumns(t *testing.T) {
	// 2列で学習し、1列だけのテーブルを逆変換する。欠けた学習済み列は
	// パディングで補い、逆変換後に元の列へ戻す。
	full := newTestFrame(t, []string{"p", "q"}, []float64{
		1, 10,
		2, 20,
		3, 30,
	})

	p := methodPrimitive{}
	spec := Spec{Method: MethodMinMax, Features: []string{"p", "q"}}

	out, entry, err := p.FitTransform(full, spec)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	narrow, err := out.Select([]string{"q"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	padded, added, err := conformShape(narrow, entry.Shape, entry.Columns)
	if err != nil {
		t.Fatalf("conformShape failed: %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}

	restored, err := p.InverseTransform(padded, spec, entry)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	selected, err := restored.Select([]string{"q"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for i, want := range []float64{10, 20, 30} {
		if got := selected.Matrix().At(i, 0); math.Abs(got-want) > 1e-8 {
			t.Errorf("row %d = %v, want %v", i, got, want)
		}
	}
}

func TestMethodPrimitiveNoFeaturePresent(t *testing.T) {
	f := newTestFrame(t, []string{"a"}, []float64{1, 2})

	p := methodPrimitive{}
	spec := Spec{Method: MethodMinMax, Features: []string{"z"}}

	if _, _, err := p.FitTransform(f, spec); err == nil {
		t.Fatal("expected error when no feature column is present")
	}

	// 逆変換では空の交差は無変換で返す
	out, err := p.InverseTransform(f, spec, ScalerEntry{})
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if out != f {
		t.Error("expected the frame to pass through unchanged")
	}
}

func TestFittedScalerTreatNegativesAndZeros(t *testing.T) {
	f := newTestFrame(t, []string{"x"}, []float64{
		-4,
		0,
		2,
		-1,
	})

	p := methodPrimitive{}
	spec := Spec{Method: MethodLog, TreatNegatives: true, ReplaceZeros: true}

	out, entry, err := p.FitTransform(f, spec)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// log(|-4|)=log(4)、0は1に置換されlog(1)=0
	if got := out.Matrix().At(0, 0); math.Abs(got-math.Log(4)) > 1e-10 {
		t.Errorf("row 0 = %v, want log(4)", got)
	}
	if got := out.Matrix().At(1, 0); math.Abs(got) > 1e-10 {
		t.Errorf("row 1 = %v, want 0", got)
	}

	// 逆変換で符号とゼロが復元される
	restored, err := p.InverseTransform(out, spec, entry)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	want := []float64{-4, 0, 2, -1}
	for i, w := range want {
		if got := restored.Matrix().At(i, 0); math.Abs(got-w) > 1e-10 {
			t.Errorf("row %d = %v, want %v", i, got, w)
		}
	}
}

func TestFittedScalerSqrtRoundTrip(t *testing.T) {
	f := newTestFrame(t, []string{"x", "y"}, []float64{
		-9, 16,
		0, 25,
		4, -36,
	})

	p := methodPrimitive{}
	spec := Spec{Method: MethodSqrt, TreatNegatives: true, ReplaceZeros: true}

	out, entry, err := p.FitTransform(f, spec)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	restored, err := p.InverseTransform(out, spec, entry)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			want := f.Matrix().At(i, j)
			if got := restored.Matrix().At(i, j); math.Abs(got-want) > 1e-10 {
				t.Errorf("element (%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestSubsetColumnsOrder(t *testing.T) {
	f := newTestFrame(t, []string{"a", "b", "c"}, []float64{1, 2, 3})

	tests := []struct {
		name     string
		features []string
		want     []string
	}{
		{"nil means all", nil, []string{"a", "b", "c"}},
		{"declaration order kept", []string{"c", "a"}, []string{"c", "a"}},
		{"absent names dropped", []string{"b", "z"}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subsetColumns(f, tt.features)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
