// Package hydroml provides preprocessing-transformation search for
// tabular and sequence models in Go.
//
// The library has two cooperating parts. The transform package applies
// named, invertible transformations (min-max, z-score, log family and
// others) to one or several data sources at once and can undo them
// later, keeping every fitted scaler in a per-pipeline registry. The
// hpo package builds a categorical search space over per-feature
// transformation choices and drives an external optimizer to find the
// combination that minimizes a validation score.
//
// # Quick Start
//
// Transform two parallel sources and invert the result:
//
//	x1 := transform.NewTensor2D(25, 2, nil)
//	x2 := transform.NewTensor2D(25, 2, nil)
//	tr := transform.NewTransformations(
//	    transform.OrderedNames([]string{"a", "b"}, []string{"a", "b"}),
//	    transform.SharedConfig(transform.Method("minmax")),
//	)
//	out, err := tr.FitTransform(transform.OrderedContainer(x1, x2))
//	// ... feed out to a model ...
//	back, err := tr.InverseTransform(out)
//
// Search for the best per-feature transformation:
//
//	search, err := hpo.NewTransformationSearch(
//	    []string{"a", "b"}, "y", transform.DefaultCategories(), objective,
//	    hpo.WithNumTrials(40),
//	)
//	result, err := search.Run()
package hydroml
