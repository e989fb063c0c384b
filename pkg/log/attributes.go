// Package log defines standard attribute keys for dataset operations.
//
// Keys follow a hierarchical naming convention (e.g. "data.samples",
// "column.name") so logs can be filtered and aggregated consistently.
package log

// Operation context.
const (
	// OperationKey specifies the dataset operation being performed.
	// Standard values: "materialize", "index_select", "col_select", "shuffle".
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "dataset", "frame", "stats"
	ComponentKey = "ml.component"

	// DatasetIDKey provides a unique identifier for a specific dataset instance.
	DatasetIDKey = "dataset.id"

	// DeviceKey identifies the device tensors are allocated on.
	DeviceKey = "tensor.device"
)

// Data shape and column context.
const (
	// SamplesKey indicates the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// TargetKey names the target column, if any.
	TargetKey = "data.target"

	// ColumnNameKey names the column being processed.
	ColumnNameKey = "column.name"

	// StypeKey is the semantic type of the column being processed.
	StypeKey = "column.stype"

	// CategoriesKey is the number of distinct categories of a categorical column.
	CategoriesKey = "column.categories"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// DataSizeKey indicates a payload size in bytes (persisted frames).
	DataSizeKey = "data.size_bytes"
)

// Error and warning context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationMaterialize = "materialize"
	OperationIndexSelect = "index_select"
	OperationColSelect   = "col_select"
	OperationShuffle     = "shuffle"
	OperationSave        = "save"
	OperationLoad        = "load"

	ErrorMissingColumn   = "MISSING_COLUMN"
	ErrorNotMaterialized = "NOT_MATERIALIZED"
	ErrorUnsupportedType = "UNSUPPORTED_STYPE"
)
