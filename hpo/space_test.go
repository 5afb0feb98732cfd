package hpo

import (
	"testing"

	"github.com/hydroml/hydroml/pkg/errors"
)

func dimEqual(t *testing.T, got Dimension, wantName string, wantCats []string) {
	t.Helper()
	if got.Name != wantName {
		t.Errorf("dimension name = %q, want %q", got.Name, wantName)
	}
	if len(got.Categories) != len(wantCats) {
		t.Fatalf("dimension %q categories = %v, want %v", got.Name, got.Categories, wantCats)
	}
	for i := range wantCats {
		if got.Categories[i] != wantCats[i] {
			t.Fatalf("dimension %q categories = %v, want %v", got.Name, got.Categories, wantCats)
		}
	}
}

func TestMakeSpaceDefault(t *testing.T) {
	features := []string{"a", "b", "c"}
	categories := []string{"none", "log", "minmax"}

	space, err := MakeSpace(features, categories, nil, nil, nil)
	if err != nil {
		t.Fatalf("MakeSpace failed: %v", err)
	}
	if len(space) != 3 {
		t.Fatalf("space size = %d, want 3", len(space))
	}
	for i, name := range features {
		dimEqual(t, space[i], name, categories)
	}
}

func TestMakeSpacePrecedence(t *testing.T) {
	features := []string{"a", "b", "c"}
	categories := []string{"none", "log", "minmax"}

	space, err := MakeSpace(
		features,
		categories,
		[]Include{{Name: "a"}, {Name: "b"}},
		[]string{"a"},
		[]Dimension{{Name: "d", Categories: []string{"zscore"}}},
	)
	if err != nil {
		t.Fatalf("MakeSpace failed: %v", err)
	}

	// includeで[a b]に絞り、excludeでaを除き、appendでdを足す
	if len(space) != 2 {
		t.Fatalf("space size = %d, want 2: %v", len(space), space)
	}
	dimEqual(t, space[0], "b", categories)
	dimEqual(t, space[1], "d", []string{"zscore"})
}

func TestMakeSpaceIncludeCategories(t *testing.T) {
	space, err := MakeSpace(
		[]string{"a", "b"},
		[]string{"none", "minmax"},
		[]Include{{Name: "b", Categories: []string{"none", "log"}}},
		nil,
		nil,
	)
	if err != nil {
		t.Fatalf("MakeSpace failed: %v", err)
	}
	if len(space) != 1 {
		t.Fatalf("space size = %d, want 1", len(space))
	}
	dimEqual(t, space[0], "b", []string{"none", "log"})
}

func TestMakeSpaceAppendOverrides(t *testing.T) {
	space, err := MakeSpace(
		[]string{"a", "b"},
		[]string{"none", "minmax"},
		nil,
		nil,
		[]Dimension{{Name: "a", Categories: []string{"sqrt"}}},
	)
	if err != nil {
		t.Fatalf("MakeSpace failed: %v", err)
	}

	// 既存名の上書きは候補のみ置き換え、位置は保たれる
	if len(space) != 2 {
		t.Fatalf("space size = %d, want 2", len(space))
	}
	dimEqual(t, space[0], "a", []string{"sqrt"})
	dimEqual(t, space[1], "b", []string{"none", "minmax"})
}

func TestMakeSpaceErrors(t *testing.T) {
	features := []string{"a", "b"}
	categories := []string{"none", "minmax"}

	tests := []struct {
		name    string
		include []Include
		exclude []string
		append  []Dimension
	}{
		{"include unknown feature", []Include{{Name: "z"}}, nil, nil},
		{"exclude absent dimension", nil, []string{"z"}, nil},
		{"exclude after include dropped it", []Include{{Name: "a"}}, []string{"b"}, nil},
		{"append empty categories", nil, nil, []Dimension{{Name: "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeSpace(features, categories, tt.include, tt.exclude, tt.append)
			if err == nil {
				t.Fatal("expected error")
			}
			var ife *errors.InvalidFeatureError
			if !errors.As(err, &ife) {
				t.Errorf("expected InvalidFeatureError, got %T", err)
			}
		})
	}
}

func TestMakeSpaceDeterministic(t *testing.T) {
	features := []string{"c", "a", "b"}
	categories := []string{"none", "minmax"}

	first, err := MakeSpace(features, categories, nil, nil, nil)
	if err != nil {
		t.Fatalf("MakeSpace failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := MakeSpace(features, categories, nil, nil, nil)
		if err != nil {
			t.Fatalf("MakeSpace failed: %v", err)
		}
		for j := range first {
			if again[j].Name != first[j].Name {
				t.Fatalf("ordering changed between calls: %v vs %v", again, first)
			}
		}
	}
}
