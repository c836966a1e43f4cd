package metric

import (
	"errors"
	"fmt"
)

// ConstructionError reports why a Metric could not be built. All
// failures are deterministic functions of the input; the caller must
// fix the input, nothing is retried.
type ConstructionError struct {
	// Code identifies the failure category.
	Code ConstructionErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any (e.g. matrix.ErrSingular).
	Err error
}

// ConstructionErrorCode categorizes construction failures.
type ConstructionErrorCode string

const (
	// ErrCodeDimensionMismatch indicates the matrix side differs from
	// the coordinate count.
	ErrCodeDimensionMismatch ConstructionErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeDuplicateCoordinate indicates a coordinate symbol appears
	// twice.
	ErrCodeDuplicateCoordinate ConstructionErrorCode = "DUPLICATE_COORDINATE"

	// ErrCodeReservedSymbol indicates a coordinate collides with a
	// generated velocity symbol name.
	ErrCodeReservedSymbol ConstructionErrorCode = "RESERVED_SYMBOL"

	// ErrCodeSingularMetric indicates the covariant matrix could not
	// be inverted.
	ErrCodeSingularMetric ConstructionErrorCode = "SINGULAR_METRIC"
)

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *ConstructionError) Unwrap() error { return e.Err }

// IsSingular returns true if err is a singular-metric construction
// error. Uses errors.As to handle wrapped errors.
func IsSingular(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce) && ce.Code == ErrCodeSingularMetric
}

// IsDimensionMismatch returns true if err is a dimension-mismatch
// construction error.
func IsDimensionMismatch(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce) && ce.Code == ErrCodeDimensionMismatch
}

func newConstructionError(code ConstructionErrorCode, format string, args ...any) *ConstructionError {
	return &ConstructionError{Code: code, Message: fmt.Sprintf(format, args...)}
}
