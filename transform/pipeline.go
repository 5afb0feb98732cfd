package transform

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/hydroml/hydroml/pkg/errors"
	"github.com/hydroml/hydroml/pkg/log"
)

// Transformations applies per-source transformation sequences across a
// data container and can undo them later. One instance owns one scaler
// registry: the registry is written only during FitTransform and read
// only during InverseTransform, and the container variant seen by
// FitTransform must be the one passed back to InverseTransform.
//
// An instance may be reused across repeated forward/inverse cycles
// because registry keys derive from fixed source, time-step and method
// identifiers, not from call counts. It is not safe for concurrent use;
// parallel optimization trials each construct their own instance.
type Transformations struct {
	names     FeatureNames
	config    ConfigSet
	scalers   *registry
	primitive Primitive
	kind      Kind
	logger    log.Logger
}

// Option configures a Transformations pipeline.
type Option func(*Transformations)

// WithPrimitive substitutes the transform primitive. Intended for
// callers bringing their own transformation backend and for tests.
func WithPrimitive(p Primitive) Option {
	return func(t *Transformations) { t.primitive = p }
}

// WithLogger substitutes the pipeline's logger.
func WithLogger(l log.Logger) Option {
	return func(t *Transformations) { t.logger = l }
}

// NewTransformations builds a pipeline for the declared feature names
// and transformation configuration. A zero ConfigSet disables
// transformation: FitTransform and InverseTransform pass data through.
func NewTransformations(names FeatureNames, config ConfigSet, opts ...Option) *Transformations {
	t := &Transformations{
		names:     names,
		config:    config,
		scalers:   newRegistry(),
		primitive: methodPrimitive{},
		logger:    log.GetLoggerWithName("transform.pipeline"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FitTransform transforms every source in data according to the
// configuration and records one fitted scaler per applied step. The
// returned container has the same variant and the same tensor shapes
// as the input.
func (t *Transformations) FitTransform(data Container) (Container, error) {
	const op = "Transformations.FitTransform"

	kind := data.Kind()
	if kind == KindInvalid {
		return Container{}, errors.NewInputKindError(op, kind.String())
	}
	t.kind = kind

	if t.config.isZero() {
		return data, nil
	}

	if err := t.checkFeatures(op, data); err != nil {
		return Container{}, err
	}

	t.logger.Debug("fitting transformations",
		log.OperationKey, "fit_transform",
		log.ContainerKindKey, kind.String(),
		log.SourcesKey, data.NumSources(),
	)

	switch kind {
	case KindSingle:
		cfg, err := t.sharedConfigFor(op)
		if err != nil {
			return Container{}, err
		}
		out, err := t.fitTensor(data.Single(), t.names.single, cfg, baseKey(""))
		if err != nil {
			return Container{}, err
		}
		return SingleContainer(out), nil

	case KindOrdered:
		cfgs, err := t.orderedConfigsFor(op, len(data.Ordered()))
		if err != nil {
			return Container{}, err
		}
		outs := make([]*Tensor, len(data.Ordered()))
		for idx, ts := range data.Ordered() {
			out, err := t.fitTensor(ts, t.names.ordered[idx], cfgs[idx], baseKey(strconv.Itoa(idx)))
			if err != nil {
				return Container{}, err
			}
			outs[idx] = out
		}
		return OrderedContainer(outs...), nil

	default: // KindNamed
		cfgs, err := t.namedConfigsFor(op, data.SourceNames())
		if err != nil {
			return Container{}, err
		}
		outs := make(map[string]*Tensor, len(data.Named()))
		for _, name := range data.SourceNames() {
			out, err := t.fitTensor(data.Named()[name], t.names.named[name], cfgs[name], baseKey(name))
			if err != nil {
				return Container{}, err
			}
			outs[name] = out
		}
		return NamedContainer(outs), nil
	}
}

// InverseTransform undoes a prior FitTransform, replaying every
// configured sequence in reverse order against the scaler registry.
// The container must have the variant recorded by the forward call.
func (t *Transformations) InverseTransform(data Container) (Container, error) {
	const op = "Transformations.InverseTransform"

	if t.kind == KindInvalid {
		return Container{}, errors.NewNotFittedError("Transformations", "InverseTransform")
	}
	if data.Kind() != t.kind {
		return Container{}, errors.NewInputKindError(op, data.Kind().String()+" (forward transform saw "+t.kind.String()+")")
	}

	if t.config.isZero() {
		return data, nil
	}

	switch t.kind {
	case KindSingle:
		cfg, err := t.sharedConfigFor(op)
		if err != nil {
			return Container{}, err
		}
		out, err := t.inverseTensor(data.Single(), t.names.single, cfg, baseKey(""))
		if err != nil {
			return Container{}, err
		}
		return SingleContainer(out), nil

	case KindOrdered:
		cfgs, err := t.orderedConfigsFor(op, len(data.Ordered()))
		if err != nil {
			return Container{}, err
		}
		outs := make([]*Tensor, len(data.Ordered()))
		for idx, ts := range data.Ordered() {
			out, err := t.inverseTensor(ts, t.names.ordered[idx], cfgs[idx], baseKey(strconv.Itoa(idx)))
			if err != nil {
				return Container{}, err
			}
			outs[idx] = out
		}
		return OrderedContainer(outs...), nil

	default: // KindNamed
		cfgs, err := t.namedConfigsFor(op, data.SourceNames())
		if err != nil {
			return Container{}, err
		}
		outs := make(map[string]*Tensor, len(data.Named()))
		for _, name := range data.SourceNames() {
			out, err := t.inverseTensor(data.Named()[name], t.names.named[name], cfgs[name], baseKey(name))
			if err != nil {
				return Container{}, err
			}
			outs[name] = out
		}
		return NamedContainer(outs), nil
	}
}

// ScalerKeys returns the rendered keys of every fitted scaler, sorted.
func (t *Transformations) ScalerKeys() []string {
	return t.scalers.keys()
}

func baseKey(source string) Key {
	return Key{Source: source, TimeStep: -1, Ordinal: -1}
}

// checkFeatures validates the feature-name structure against the
// container before any registry mutation.
func (t *Transformations) checkFeatures(op string, data Container) error {
	kind := data.Kind()
	if t.names.kind != kind {
		return errors.NewFeatureSpecError(op, "feature names declared for %s data don't match %s data", t.names.kind, kind)
	}

	switch kind {
	case KindSingle:
		if err := checkWidth(op, t.names.single, data.Single()); err != nil {
			return err
		}
	case KindOrdered:
		if len(t.names.ordered) != len(data.Ordered()) {
			return errors.NewFeatureSpecError(op, "%d feature-name lists for %d sources", len(t.names.ordered), len(data.Ordered()))
		}
		for idx, ts := range data.Ordered() {
			if err := checkWidth(op, t.names.ordered[idx], ts); err != nil {
				return err
			}
		}
	case KindNamed:
		for _, name := range data.SourceNames() {
			names, ok := t.names.named[name]
			if !ok {
				return errors.NewFeatureSpecError(op, "no feature names for source %q", name)
			}
			if err := checkWidth(op, names, data.Named()[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkWidth(op string, names []string, ts *Tensor) error {
	if len(names) != ts.Features() {
		return errors.NewFeatureSpecError(op, "%d feature names for a tensor with %d features", len(names), ts.Features())
	}
	return nil
}

// sharedConfigFor resolves the configuration for a single-tensor
// container.
func (t *Transformations) sharedConfigFor(op string) (Config, error) {
	if t.config.kind != KindSingle {
		return Config{}, errors.NewFeatureSpecError(op, "per-source configuration supplied for single-tensor data")
	}
	return t.config.shared, nil
}

// orderedConfigsFor resolves per-source configurations for an ordered
// container, broadcasting a bare method name when one was shared.
func (t *Transformations) orderedConfigsFor(op string, n int) ([]Config, error) {
	switch t.config.kind {
	case KindSingle:
		if !t.config.shared.broadcastable() {
			return nil, errors.NewFeatureSpecError(op, "shared config is not a bare method name and cannot broadcast over %d sources", n)
		}
		cfgs := make([]Config, n)
		for i := range cfgs {
			cfgs[i] = t.config.shared
		}
		return cfgs, nil
	case KindOrdered:
		if len(t.config.ordered) != n {
			return nil, errors.NewFeatureSpecError(op, "%d configs for %d sources", len(t.config.ordered), n)
		}
		return t.config.ordered, nil
	default:
		return nil, errors.NewFeatureSpecError(op, "named configuration supplied for ordered data")
	}
}

// namedConfigsFor resolves per-source configurations for a named
// container.
func (t *Transformations) namedConfigsFor(op string, sources []string) (map[string]Config, error) {
	switch t.config.kind {
	case KindSingle:
		if !t.config.shared.broadcastable() {
			return nil, errors.NewFeatureSpecError(op, "shared config is not a bare method name and cannot broadcast over named sources")
		}
		cfgs := make(map[string]Config, len(sources))
		for _, name := range sources {
			cfgs[name] = t.config.shared
		}
		return cfgs, nil
	case KindNamed:
		for _, name := range sources {
			if _, ok := t.config.named[name]; !ok {
				return nil, errors.NewFeatureSpecError(op, "no config for source %q", name)
			}
		}
		return t.config.named, nil
	default:
		return nil, errors.NewFeatureSpecError(op, "ordered configuration supplied for named data")
	}
}

// fitTensor transforms one source. Rank-3 tensors are processed one
// time slice at a time, each slice keyed with its time index so slices
// never collide in the registry, and reassembled into a result of
// identical shape.
func (t *Transformations) fitTensor(ts *Tensor, names []string, cfg Config, key Key) (*Tensor, error) {
	if ts.Rank() == 3 {
		out := newNaNTensor(ts.Shape())
		for step := 0; step < ts.TimeSteps(); step++ {
			f, err := NewFrame(names, ts.TimeSlice(step))
			if err != nil {
				return nil, err
			}
			k := key
			k.TimeStep = step
			g, err := t.fitFrame(f, cfg, k)
			if err != nil {
				return nil, err
			}
			out.SetTimeSlice(step, g.Matrix())
		}
		return out, nil
	}

	f, err := NewFrame(names, mat.DenseCopyOf(ts.Matrix()))
	if err != nil {
		return nil, err
	}
	g, err := t.fitFrame(f, cfg, key)
	if err != nil {
		return nil, err
	}
	return TensorFromMatrix(g.Matrix()), nil
}

func (t *Transformations) inverseTensor(ts *Tensor, names []string, cfg Config, key Key) (*Tensor, error) {
	if ts.Rank() == 3 {
		out := newNaNTensor(ts.Shape())
		for step := 0; step < ts.TimeSteps(); step++ {
			f, err := NewFrame(names, ts.TimeSlice(step))
			if err != nil {
				return nil, err
			}
			k := key
			k.TimeStep = step
			g, err := t.inverseFrame(f, cfg, k)
			if err != nil {
				return nil, err
			}
			out.SetTimeSlice(step, g.Matrix())
		}
		return out, nil
	}

	f, err := NewFrame(names, mat.DenseCopyOf(ts.Matrix()))
	if err != nil {
		return nil, err
	}
	g, err := t.inverseFrame(f, cfg, key)
	if err != nil {
		return nil, err
	}
	return TensorFromMatrix(g.Matrix()), nil
}

// fitFrame applies one source's configuration to one rank-2 table.
func (t *Transformations) fitFrame(f *Frame, cfg Config, key Key) (*Frame, error) {
	switch {
	case cfg.isZero():
		return f, nil

	case cfg.method != "":
		spec := Spec{Method: cfg.method}
		if spec.isNoop() {
			return f, nil
		}
		k := key
		k.Method = spec.Method
		return t.applyForward(f, spec, k)

	case cfg.spec != nil:
		spec := *cfg.spec
		if spec.isNoop() {
			return f, nil
		}
		if spec.Features != nil && !f.HasAny(spec.Features) {
			return f, nil
		}
		k := key
		k.Method = spec.Method
		return t.applyForward(f, spec, k)

	default:
		out := f
		for i, spec := range cfg.list {
			if spec.isNoop() {
				continue
			}
			if spec.Features != nil && !out.HasAny(spec.Features) {
				continue
			}
			k := key
			k.Method = spec.Method
			k.Ordinal = i
			var err error
			out, err = t.applyForward(out, spec, k)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

func (t *Transformations) applyForward(f *Frame, spec Spec, k Key) (*Frame, error) {
	out, entry, err := t.primitive.FitTransform(f, spec)
	if err != nil {
		return nil, err
	}
	t.scalers.put(k, entry)
	t.logger.Debug("fitted transformation step",
		log.MethodKey, spec.Method,
		log.ScalerKeyKey, k.String(),
	)
	return out, nil
}

// inverseFrame undoes one source's configuration on one rank-2 table.
// Sequences run in reverse order: each step may have been fitted on the
// output of the previous one, so inverting forward-first would apply
// each inverse to data still shaped for a different stage.
func (t *Transformations) inverseFrame(f *Frame, cfg Config, key Key) (*Frame, error) {
	switch {
	case cfg.isZero():
		return f, nil

	case cfg.method != "":
		spec := Spec{Method: cfg.method}
		if spec.isNoop() {
			return f, nil
		}
		k := key
		k.Method = spec.Method
		entry, err := t.scalers.get(k)
		if err != nil {
			return nil, err
		}
		padded, added, err := conformShape(f, entry.Shape, nil)
		if err != nil {
			return nil, err
		}
		if added > 0 {
			t.logger.Debug("padded table for inverse transform",
				log.ScalerKeyKey, k.String(),
				log.PaddedColumnsKey, added,
			)
		}
		restored, err := t.primitive.InverseTransform(padded, spec, entry)
		if err != nil {
			return nil, err
		}
		return stripPad(restored, added)

	case cfg.spec != nil:
		return t.inverseStep(f, *cfg.spec, key)

	default:
		out := f
		for i := len(cfg.list) - 1; i >= 0; i-- {
			spec := cfg.list[i]
			if spec.isNoop() {
				continue
			}
			k := key
			k.Ordinal = i
			var err error
			out, err = t.inverseStep(out, spec, k)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

// inverseStep undoes one descriptor step. A table whose columns don't
// intersect the step's features is left untouched: a multi-source spec
// may list features absent from some sources.
func (t *Transformations) inverseStep(f *Frame, spec Spec, key Key) (*Frame, error) {
	if spec.isNoop() {
		return f, nil
	}
	if spec.Features != nil && !f.HasAny(spec.Features) {
		return f, nil
	}

	k := key
	k.Method = spec.Method
	entry, err := t.scalers.get(k)
	if err != nil {
		return nil, err
	}

	// Pad against the columns the scaler was fitted on, not the spec's
	// feature list: a multi-source spec may name features this source
	// never had, and the scaler must see exactly its fitted width.
	origCols := f.Columns()
	padded, added, err := conformShape(f, entry.Shape, entry.Columns)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		t.logger.Debug("padded table for inverse transform",
			log.ScalerKeyKey, k.String(),
			log.PaddedColumnsKey, added,
		)
	}
	restored, err := t.primitive.InverseTransform(padded, spec, entry)
	if err != nil {
		return nil, err
	}
	if spec.Features == nil {
		return stripPad(restored, added)
	}
	return restored.Select(origCols)
}
