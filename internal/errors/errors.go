// Package errors provides the coded error taxonomy used by the estimation
// pipeline. It wraps github.com/cockroachdb/errors so callers get stack
// traces, user hints and errors.Is matching from one import.
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Re-exported helpers.
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithHint  = crdb.WithHint
	WithHintf = crdb.WithHintf
	Is        = crdb.Is
	As        = crdb.As

	FlattenHints = crdb.FlattenHints
)

// Code classifies an estimation failure.
type Code string

const (
	CodeMissingAttribute     Code = "MISSING_ATTRIBUTE"
	CodeUnparsableNumeric    Code = "UNPARSABLE_NUMERIC"
	CodeInvalidAttribute     Code = "INVALID_ATTRIBUTE"
	CodeUnsupportedQuery     Code = "UNSUPPORTED_QUERY"
	CodeNoMatchingModelEntry Code = "NO_MATCHING_MODEL_ENTRY"
)

// Sentinels for errors.Is. An *EstimationError matches the sentinel of its code.
var (
	ErrMissingAttribute     = &EstimationError{Code: CodeMissingAttribute}
	ErrUnparsableNumeric    = &EstimationError{Code: CodeUnparsableNumeric}
	ErrInvalidAttribute     = &EstimationError{Code: CodeInvalidAttribute}
	ErrUnsupportedQuery     = &EstimationError{Code: CodeUnsupportedQuery}
	ErrNoMatchingModelEntry = &EstimationError{Code: CodeNoMatchingModelEntry}
)

// EstimationError is a structured error carrying the failing field, if any.
type EstimationError struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *EstimationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *EstimationError with the same code.
func (e *EstimationError) Is(target error) bool {
	t, ok := target.(*EstimationError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *EstimationError in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *EstimationError
	if crdb.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// NewMissingAttribute reports a required attribute absent under every accepted name.
func NewMissingAttribute(field string, aliases ...string) error {
	names := append([]string{field}, aliases...)
	err := crdb.WithStack(&EstimationError{
		Code:    CodeMissingAttribute,
		Field:   field,
		Message: fmt.Sprintf("no attribute found: %s", field),
	})
	return crdb.WithHintf(err, "set one of: %s", strings.Join(names, ", "))
}

// NewUnparsableNumeric reports a numeric attribute without an extractable number.
func NewUnparsableNumeric(field string, raw any) error {
	err := crdb.WithStack(&EstimationError{
		Code:    CodeUnparsableNumeric,
		Field:   field,
		Message: fmt.Sprintf("no numeric found for attribute: %s", field),
	})
	return crdb.WithHintf(err, "%s=%v must contain a decimal number", field, raw)
}

// NewInvalidAttribute reports a numeric attribute outside its valid range.
func NewInvalidAttribute(field string, value float64, constraint string) error {
	err := crdb.WithStack(&EstimationError{
		Code:    CodeInvalidAttribute,
		Field:   field,
		Message: fmt.Sprintf("attribute %s=%g must be %s", field, value, constraint),
	})
	return crdb.WithHintf(err, "check the value of %s", field)
}

// NewUnsupportedQuery reports a value request for an unrecognized class/action.
func NewUnsupportedQuery(kind, className, actionName string) error {
	target := className
	if actionName != "" {
		target = className + "." + actionName
	}
	return crdb.WithStack(&EstimationError{
		Code:    CodeUnsupportedQuery,
		Message: fmt.Sprintf("%s estimation for %s is not supported", kind, target),
	})
}

// NewNoMatchingModelEntry reports a request outside the characterization table.
func NewNoMatchingModelEntry(kind, request string) error {
	err := crdb.WithStack(&EstimationError{
		Code:    CodeNoMatchingModelEntry,
		Message: fmt.Sprintf("could not find ADC %s for request %s", kind, request),
	})
	return crdb.WithHint(err, "regenerate the characterization model or adjust resolution/throughput")
}
