package transform

import (
	"fmt"
	"sort"

	"github.com/hydroml/hydroml/pkg/errors"
)

// Key identifies one fitted scaler in a pipeline's registry. It is a
// comparable composite of the source, the time step (rank-3 data only)
// and the step's method and position, so two sources with identical
// feature names and method lists never share an entry.
type Key struct {
	// Source identifies the data source: empty for a single-tensor
	// container, the decimal index for an ordered container, the source
	// name for a named container.
	Source string

	// TimeStep is the time index for rank-3 data, -1 otherwise.
	TimeStep int

	// Method is the transformation method of the step.
	Method string

	// Ordinal is the step's position within a Sequence config, -1 for a
	// single-step config. It keeps repeated use of the same method at
	// different positions from colliding.
	Ordinal int
}

// String renders the key in the underscore-joined form used in error
// messages and logs.
func (k Key) String() string {
	s := k.Source
	if s == "" {
		s = "data"
	}
	if k.TimeStep >= 0 {
		s = fmt.Sprintf("%s_%d", s, k.TimeStep)
	}
	if k.Ordinal >= 0 {
		return fmt.Sprintf("%s_%s_%d", s, k.Method, k.Ordinal)
	}
	if k.Method != "" {
		return fmt.Sprintf("%s_%s", s, k.Method)
	}
	return s
}

// ScalerEntry is the fitted state recorded per applied transformation
// step: the scaler itself, the shape of the table it was fitted on, the
// columns the scaler actually observed (a spec's feature list restricted
// to the columns present at fit time) and the method name. Shape and
// Columns drive shape reconciliation at inverse time: the inverse must
// present the scaler exactly the columns it was fitted on, no more.
type ScalerEntry struct {
	Scaler  Scaler
	Shape   []int
	Columns []string
	Method  string
}

// registry maps composite keys to fitted scalers. It is owned by one
// Transformations instance, written only during forward transforms and
// read only during inverse transforms.
type registry struct {
	entries map[Key]ScalerEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[Key]ScalerEntry)}
}

func (r *registry) put(k Key, e ScalerEntry) {
	r.entries[k] = e
}

// get returns the entry for k, or a MissingScalerKeyError naming the
// missing key and every available key.
func (r *registry) get(k Key) (ScalerEntry, error) {
	e, ok := r.entries[k]
	if !ok {
		return ScalerEntry{}, errors.NewMissingScalerKeyError(k.String(), r.keys())
	}
	return e, nil
}

func (r *registry) keys() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

func (r *registry) len() int {
	return len(r.entries)
}
