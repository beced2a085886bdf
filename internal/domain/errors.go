// Package domain defines core types and errors for the sales analytics query compiler.
package domain

import (
	"errors"
	"fmt"
)

// Validation error codes reported to callers.
const (
	CodeUnknownMetric         = "UNKNOWN_METRIC"
	CodeUnknownDimension      = "UNKNOWN_DIMENSION"
	CodeDuplicateDimension    = "DUPLICATE_DIMENSION"
	CodeEmptyDimensions       = "EMPTY_DIMENSIONS"
	CodeUnknownFilterField    = "UNKNOWN_FILTER_FIELD"
	CodeInvalidFilterValue    = "INVALID_FILTER_VALUE"
	CodeInvalidOrderField     = "INVALID_ORDER_FIELD"
	CodeInvalidOrderDirection = "INVALID_ORDER_DIRECTION"
	CodeInvalidLimit          = "INVALID_LIMIT"
)

// ValidationError indicates a request that cannot be compiled. Code names the
// violated constraint and Field points at the offending request field.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] field '%s': %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ConfigurationError indicates that the vocabulary and the schema graph disagree.
// It is an internal fault and never the caller's.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(code, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrConfiguration creates a ConfigurationError with a formatted message.
func ErrConfiguration(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationCode returns the code of the first ValidationError in err's chain,
// or "" when there is none.
func ValidationCode(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
