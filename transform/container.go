package transform

import "sort"

// Kind discriminates the three container variants. The pipeline resolves
// it once at the start of a forward transform and holds it until the
// matching inverse call.
type Kind int

const (
	// KindInvalid is the zero Kind; containers never built through a
	// constructor report it.
	KindInvalid Kind = iota
	// KindSingle is one tensor.
	KindSingle
	// KindOrdered is a positional list of tensors.
	KindOrdered
	// KindNamed is a mapping from source name to tensor.
	KindNamed
)

// String returns the kind name used in error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindOrdered:
		return "ordered"
	case KindNamed:
		return "named"
	default:
		return "invalid"
	}
}

// Container is the tagged union of the data shapes a pipeline accepts:
// a single tensor, an ordered list of tensors or a named mapping of
// tensors. The zero Container is invalid.
type Container struct {
	kind    Kind
	single  *Tensor
	ordered []*Tensor
	named   map[string]*Tensor
}

// SingleContainer wraps one tensor.
func SingleContainer(t *Tensor) Container {
	return Container{kind: KindSingle, single: t}
}

// OrderedContainer wraps a positional list of tensors.
func OrderedContainer(ts ...*Tensor) Container {
	return Container{kind: KindOrdered, ordered: ts}
}

// NamedContainer wraps a mapping from source name to tensor.
func NamedContainer(m map[string]*Tensor) Container {
	return Container{kind: KindNamed, named: m}
}

// Kind returns the container variant.
func (c Container) Kind() Kind { return c.kind }

// Single returns the tensor of a KindSingle container.
func (c Container) Single() *Tensor { return c.single }

// Ordered returns the tensors of a KindOrdered container.
func (c Container) Ordered() []*Tensor { return c.ordered }

// Named returns the mapping of a KindNamed container.
func (c Container) Named() map[string]*Tensor { return c.named }

// SourceNames returns the sorted source names of a KindNamed container.
// Sorting keeps per-source iteration deterministic.
func (c Container) SourceNames() []string {
	names := make([]string, 0, len(c.named))
	for name := range c.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumSources returns how many sources the container carries.
func (c Container) NumSources() int {
	switch c.kind {
	case KindSingle:
		return 1
	case KindOrdered:
		return len(c.ordered)
	case KindNamed:
		return len(c.named)
	default:
		return 0
	}
}
