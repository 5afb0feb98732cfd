package transform

// Spec describes one transformation step applied to one source.
type Spec struct {
	// Method is the transformation method name, e.g. "minmax".
	// "none" (or empty) is a no-op step and leaves no registry entry.
	Method string `json:"method"`

	// Features restricts which columns the method observes. A nil list
	// means the whole table. At inverse time a source whose columns do
	// not intersect Features is left untouched.
	Features []string `json:"features,omitempty"`

	// TreatNegatives rewrites negative values to their absolute value
	// before fitting, recording the affected cells so the inverse
	// restores the sign.
	TreatNegatives bool `json:"treat_negatives,omitempty"`

	// ReplaceZeros rewrites zeros to one before fitting, recording the
	// affected cells so the inverse restores them.
	ReplaceZeros bool `json:"replace_zeros,omitempty"`
}

// isNoop reports whether the step applies no transformation.
func (s Spec) isNoop() bool {
	return s.Method == "" || s.Method == MethodNone
}

// Config describes the transformations for one source: nothing, a bare
// method name, a single descriptor, or an ordered sequence of steps.
// The zero Config is a no-op. Only the bare method-name form broadcasts
// across the sources of an ordered or named container.
type Config struct {
	method string
	spec   *Spec
	list   []Spec
}

// Method builds a Config from a bare method name applied to the whole
// table.
func Method(name string) Config {
	return Config{method: name}
}

// Descriptor builds a Config from a single Spec.
func Descriptor(s Spec) Config {
	return Config{spec: &s}
}

// Sequence builds a Config from an ordered list of steps. Steps are
// applied in order on the forward pass and undone in reverse order on
// the inverse pass.
func Sequence(specs ...Spec) Config {
	return Config{list: specs}
}

// Methods builds a Sequence of bare method names. Convenience for the
// common "apply these in order to everything" case.
func Methods(names ...string) Config {
	specs := make([]Spec, len(names))
	for i, name := range names {
		specs[i] = Spec{Method: name}
	}
	return Config{list: specs}
}

func (c Config) isZero() bool {
	return c.method == "" && c.spec == nil && len(c.list) == 0
}

func (c Config) broadcastable() bool {
	return c.method != ""
}

// ConfigSet pairs a configuration structure with a container structure:
// one shared Config, a positional list or a named mapping. The zero
// ConfigSet disables transformation entirely.
type ConfigSet struct {
	kind    Kind
	shared  Config
	ordered []Config
	named   map[string]Config
}

// SharedConfig applies one Config to a single-tensor container, or
// broadcasts a bare method name across every source of an ordered or
// named container.
func SharedConfig(c Config) ConfigSet {
	return ConfigSet{kind: KindSingle, shared: c}
}

// OrderedConfigs supplies one Config per source of an ordered container,
// positionally matched.
func OrderedConfigs(cs ...Config) ConfigSet {
	return ConfigSet{kind: KindOrdered, ordered: cs}
}

// NamedConfigs supplies one Config per source of a named container,
// matched by source name.
func NamedConfigs(m map[string]Config) ConfigSet {
	return ConfigSet{kind: KindNamed, named: m}
}

func (cs ConfigSet) isZero() bool {
	return cs.kind == KindInvalid
}

// FeatureNames pairs feature-name lists with a container structure: one
// flat list for a single tensor, a list of lists for an ordered
// container, or a mapping of lists for a named container.
type FeatureNames struct {
	kind    Kind
	single  []string
	ordered [][]string
	named   map[string][]string
}

// SingleNames declares the feature names of a single-tensor container.
func SingleNames(names []string) FeatureNames {
	return FeatureNames{kind: KindSingle, single: names}
}

// OrderedNames declares per-source feature names for an ordered
// container, positionally matched.
func OrderedNames(lists ...[]string) FeatureNames {
	return FeatureNames{kind: KindOrdered, ordered: lists}
}

// NamedNames declares per-source feature names for a named container.
func NamedNames(m map[string][]string) FeatureNames {
	return FeatureNames{kind: KindNamed, named: m}
}

// Kind returns the structure the names were declared for.
func (fn FeatureNames) Kind() Kind { return fn.kind }
