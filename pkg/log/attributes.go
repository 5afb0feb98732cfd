// Package log defines standard attribute keys for transformation and
// search operations.
//
// Using these keys consistently across the library keeps the emitted
// JSON logs filterable by operation, source and method.
package log

// Component and operation context.
const (
	// ComponentKey identifies which package is performing the operation.
	// Examples: "transform.pipeline", "hpo.search"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit_transform", "inverse_transform", "make_space", "optimize"
	OperationKey = "ml.operation"
)

// Data shape and source context.
const (
	// SamplesKey indicates the number of rows in the table being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// SourcesKey indicates how many data sources a container carries.
	SourcesKey = "data.sources"

	// SourceKey names the data source currently being transformed.
	SourceKey = "data.source"

	// TimeStepsKey indicates the time dimension of a rank-3 tensor.
	TimeStepsKey = "data.time_steps"

	// ContainerKindKey records the container variant: "single", "ordered" or "named".
	ContainerKindKey = "data.container_kind"
)

// Transformation context.
const (
	// MethodKey names the transformation method being applied.
	MethodKey = "transform.method"

	// ScalerKeyKey records the registry key of a fitted scaler.
	ScalerKeyKey = "transform.scaler_key"

	// PaddedColumnsKey records how many dummy columns a shape
	// reconciliation added.
	PaddedColumnsKey = "transform.padded_columns"
)

// Search context.
const (
	// TrialKey records the optimizer trial number.
	TrialKey = "hpo.trial"

	// ScoreKey records the validation score of a trial.
	ScoreKey = "hpo.score"

	// DimensionsKey records the number of search-space dimensions.
	DimensionsKey = "hpo.dimensions"
)
