// Package transform applies named, invertible transformations to one or
// several tabular data sources at once and undoes them later.
//
// A Transformations pipeline owns a registry of fitted scalers. During
// FitTransform it classifies the input container (a single tensor, an
// ordered list of tensors or a named mapping of tensors), fans out to
// each source, applies the configured transformation sequence to every
// rank-2 table (rank-3 tensors are processed one time step at a time)
// and records one fitted scaler per applied step. InverseTransform
// replays the sequence in reverse order against the same registry,
// reconstructing the original data and container shape.
//
// The container variant returned by FitTransform always matches the
// variant the caller supplied, and the same variant must be passed back
// to InverseTransform. A pipeline instance is not safe for concurrent
// use; callers running parallel optimization trials construct one
// pipeline per trial.
package transform
