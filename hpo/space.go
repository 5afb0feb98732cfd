// Package hpo searches for the best per-feature preprocessing
// transformation. It builds a categorical search space (one dimension
// per feature to transform) and drives a goptuna study that samples a
// transformation configuration per trial and minimizes a caller-supplied
// validation score.
package hpo

import (
	"github.com/hydroml/hydroml/pkg/errors"
)

// Dimension is one categorical search-space dimension: a feature name
// and its candidate transformation methods. The JSON form is the wire
// description handed to optimizer frontends.
type Dimension struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Categorical constructs a dimension over the given candidate methods.
func Categorical(name string, categories []string) Dimension {
	return Dimension{Name: name, Categories: categories}
}

// Include names one feature to keep in the space. A nil Categories list
// means the feature keeps the full default candidate set.
type Include struct {
	Name       string
	Categories []string
}

// MakeSpace builds the ordered categorical search space over
// per-feature transformation candidates.
//
// By default every input feature gets one dimension with the full
// categories list. A non-empty include replaces the default entirely:
// only the listed features appear, each with its own candidates (nil
// falls back to categories), and every included name must be a declared
// input feature. exclude then removes dimensions by name; naming an
// absent dimension is an error rather than a silent no-op. append is
// applied last and always wins on name conflicts; its names need not be
// input features, which is how the output variable's own transformation
// gets a dimension.
//
// Ordering is deterministic: default order, then include order, with
// names newly introduced by append at the end.
func MakeSpace(
	inputFeatures []string,
	categories []string,
	include []Include,
	exclude []string,
	appendDims []Dimension,
) ([]Dimension, error) {
	const op = "MakeSpace"

	// Build an ordered name->candidates mapping; manipulating the map
	// is easier, the slice keeps insertion order.
	order := make([]string, 0, len(inputFeatures))
	candidates := make(map[string][]string, len(inputFeatures))

	inputSet := make(map[string]bool, len(inputFeatures))
	for _, name := range inputFeatures {
		inputSet[name] = true
		if _, ok := candidates[name]; !ok {
			order = append(order, name)
		}
		candidates[name] = categories
	}

	if len(include) > 0 {
		// include is given, so the default all-features space is dropped.
		order = order[:0]
		candidates = make(map[string][]string, len(include))
		for _, inc := range include {
			if !inputSet[inc.Name] {
				return nil, errors.NewInvalidFeatureError(op, inc.Name, "not in input features but used in include")
			}
			cats := inc.Categories
			if cats == nil {
				cats = categories
			}
			if _, ok := candidates[inc.Name]; !ok {
				order = append(order, inc.Name)
			}
			candidates[inc.Name] = cats
		}
	}

	for _, name := range exclude {
		if _, ok := candidates[name]; !ok {
			return nil, errors.NewInvalidFeatureError(op, name, "not present in the space and cannot be excluded")
		}
		delete(candidates, name)
		for i, n := range order {
			if n == name {
				order = append(order[:i], order[i+1:]...)
				break
			}
		}
	}

	for _, dim := range appendDims {
		if len(dim.Categories) == 0 {
			return nil, errors.NewInvalidFeatureError(op, dim.Name, "appended with an empty candidate list")
		}
		if _, ok := candidates[dim.Name]; !ok {
			order = append(order, dim.Name)
		}
		candidates[dim.Name] = dim.Categories
	}

	space := make([]Dimension, 0, len(order))
	for _, name := range order {
		space = append(space, Dimension{Name: name, Categories: candidates[name]})
	}
	return space, nil
}
