package detector

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a configuration or input value that was rejected.
	ErrValidation = errors.New("detector: validation failed")

	// ErrNotReady is returned when a detection runs before a series is loaded.
	ErrNotReady = errors.New("detector: no series loaded")

	// ErrInsufficientData is returned when a series is too short for the operation.
	ErrInsufficientData = errors.New("detector: insufficient data")

	// ErrDegenerateSeries is returned by auto-tune when the series has zero spread.
	ErrDegenerateSeries = errors.New("detector: series has zero standard deviation")
)

// ValidationError describes a rejected parameter write.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(param string, value any, reason string) error {
	return &ValidationError{Param: param, Value: value, Reason: reason}
}
