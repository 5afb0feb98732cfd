package hpo

import (
	"fmt"
	"math"
	"strings"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"

	"github.com/hydroml/hydroml/pkg/errors"
	"github.com/hydroml/hydroml/pkg/log"
	"github.com/hydroml/hydroml/transform"
)

// TrialConfig is the concrete transformation choice assembled from one
// optimizer suggestion: one spec per feature whose suggested method is
// not "none", split between input features and the output variable.
type TrialConfig struct {
	XTransformations []transform.Spec `json:"x_transformations"`
	YTransformations []transform.Spec `json:"y_transformations,omitempty"`
}

// Objective evaluates one trial's transformation choice and returns the
// validation score to minimize. Returning an error marks the trial
// failed; the search records it and continues.
type Objective func(cfg TrialConfig) (float64, error)

// Result is the outcome of a transformation search.
type Result struct {
	// BestScore is the lowest objective value observed.
	BestScore float64

	// BestConfig is the transformation choice that produced it.
	BestConfig TrialConfig

	// BestSuggestions maps each dimension name to its winning method.
	BestSuggestions map[string]string

	// Trials is how many trials ran, failed ones included.
	Trials int
}

// TransformationSearch drives a goptuna study over a per-feature
// transformation search space. Construct one search per run; it is not
// safe for concurrent use.
type TransformationSearch struct {
	space         []Dimension
	inputFeatures []string
	outputFeature string
	objective     Objective
	numTrials     int
	logger        log.Logger

	trials int
}

// SearchOption configures a TransformationSearch.
type SearchOption func(*searchOptions)

type searchOptions struct {
	include   []Include
	exclude   []string
	append    []Dimension
	numTrials int
	logger    log.Logger
}

// WithInclude restricts the space to the listed features, replacing the
// all-features default.
func WithInclude(include ...Include) SearchOption {
	return func(o *searchOptions) { o.include = include }
}

// WithExclude removes the named dimensions from the space.
func WithExclude(exclude ...string) SearchOption {
	return func(o *searchOptions) { o.exclude = exclude }
}

// WithAppend adds or overrides dimensions after include and exclude are
// applied.
func WithAppend(dims ...Dimension) SearchOption {
	return func(o *searchOptions) { o.append = dims }
}

// WithNumTrials sets how many trials the study runs. Default 12.
func WithNumTrials(n int) SearchOption {
	return func(o *searchOptions) { o.numTrials = n }
}

// WithSearchLogger substitutes the search's logger.
func WithSearchLogger(l log.Logger) SearchOption {
	return func(o *searchOptions) { o.logger = l }
}

// NewTransformationSearch builds a search over the transformation
// candidates for the given input features and single output feature.
func NewTransformationSearch(
	inputFeatures []string,
	outputFeature string,
	categories []string,
	objective Objective,
	opts ...SearchOption,
) (*TransformationSearch, error) {
	const op = "NewTransformationSearch"

	if len(inputFeatures) == 0 {
		return nil, errors.NewValueError(op, "no input features")
	}
	if outputFeature == "" {
		return nil, errors.NewValueError(op, "output feature name is empty")
	}
	if objective == nil {
		return nil, errors.NewValueError(op, "objective is nil")
	}

	options := searchOptions{
		numTrials: 12,
		logger:    log.GetLoggerWithName("hpo.search"),
	}
	for _, opt := range opts {
		opt(&options)
	}

	// The output variable always gets its own dimension, unless the
	// caller appended one for it explicitly.
	appendDims := options.append
	covered := false
	for _, dim := range appendDims {
		if dim.Name == outputFeature {
			covered = true
			break
		}
	}
	if !covered {
		appendDims = append(appendDims, Dimension{Name: outputFeature, Categories: categories})
	}

	space, err := MakeSpace(inputFeatures, categories, options.include, options.exclude, appendDims)
	if err != nil {
		return nil, err
	}

	return &TransformationSearch{
		space:         space,
		inputFeatures: inputFeatures,
		outputFeature: outputFeature,
		objective:     objective,
		numTrials:     options.numTrials,
		logger:        options.logger,
	}, nil
}

// Space returns the search space the study samples from.
func (s *TransformationSearch) Space() []Dimension {
	return s.space
}

// Run executes the study and returns the best observed configuration.
func (s *TransformationSearch) Run() (*Result, error) {
	const op = "TransformationSearch.Run"

	s.logger.Info("starting transformation search",
		log.OperationKey, "optimize",
		log.DimensionsKey, len(s.space),
		"num_trials", s.numTrials,
	)

	study, err := goptuna.CreateStudy(
		"transformation-search",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMinimize),
		goptuna.StudyOptionSampler(tpe.NewSampler()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "hpo: create study")
	}

	if err := study.Optimize(s.runTrial, s.numTrials); err != nil {
		return nil, errors.Wrap(err, "hpo: optimize")
	}

	best, err := study.GetBestValue()
	if err != nil {
		return nil, errors.Wrap(err, "hpo: best value")
	}
	params, err := study.GetBestParams()
	if err != nil {
		return nil, errors.Wrap(err, "hpo: best params")
	}

	suggestions := make(map[string]string, len(params))
	for name, v := range params {
		if method, ok := v.(string); ok {
			suggestions[name] = method
		} else {
			suggestions[name] = fmt.Sprint(v)
		}
	}

	result := &Result{
		BestScore:       best,
		BestConfig:      AssembleTrialConfig(s.space, suggestions, s.inputFeatures),
		BestSuggestions: suggestions,
		Trials:          s.trials,
	}
	s.logger.Info("transformation search finished",
		log.ScoreKey, result.BestScore,
		log.TrialKey, result.Trials,
	)
	return result, nil
}

// runTrial samples one method per dimension and evaluates the caller's
// objective. A failing objective is a failed trial, not a failed
// search: the score is recorded as +Inf so the study keeps going.
func (s *TransformationSearch) runTrial(trial goptuna.Trial) (float64, error) {
	suggestions := make(map[string]string, len(s.space))
	for _, dim := range s.space {
		choice, err := trial.SuggestCategorical(dim.Name, dim.Categories)
		if err != nil {
			return 0, err
		}
		suggestions[dim.Name] = choice
	}

	cfg := AssembleTrialConfig(s.space, suggestions, s.inputFeatures)
	s.trials++

	score, err := s.objective(cfg)
	if err != nil {
		s.logger.Warn("trial failed",
			log.ErrAttr(err),
			log.TrialKey, s.trials,
		)
		return math.Inf(1), nil
	}

	s.logger.Info("trial finished",
		log.TrialKey, s.trials,
		log.ScoreKey, score,
	)
	return score, nil
}

// AssembleTrialConfig turns one suggestion per dimension into concrete
// transformation specs, in dimension order. Features suggested "none"
// are omitted. Methods that cannot digest zeros or negative values
// (the log family, sqrt and the power family) get both cleansing
// options switched on, and features that are not input features (the
// output variable appended to the space) are routed to the
// y-transformations.
func AssembleTrialConfig(space []Dimension, suggestions map[string]string, inputFeatures []string) TrialConfig {
	inputSet := make(map[string]bool, len(inputFeatures))
	for _, name := range inputFeatures {
		inputSet[name] = true
	}

	var cfg TrialConfig
	for _, dim := range space {
		method, ok := suggestions[dim.Name]
		if !ok || method == transform.MethodNone {
			continue
		}

		spec := transform.Spec{
			Method:   method,
			Features: []string{dim.Name},
		}
		switch {
		case strings.HasPrefix(method, "log"),
			method == transform.MethodSqrt,
			method == transform.MethodPower,
			method == "box-cox",
			method == "yeo-johnson":
			spec.TreatNegatives = true
			spec.ReplaceZeros = true
		}

		if inputSet[dim.Name] {
			cfg.XTransformations = append(cfg.XTransformations, spec)
		} else {
			cfg.YTransformations = append(cfg.YTransformations, spec)
		}
	}
	return cfg
}
