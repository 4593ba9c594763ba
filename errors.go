package goexpr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ConstructionErrorType    ErrorType = "ConstructionError"
	UnsupportedKindErrorType ErrorType = "UnsupportedKind"
	ArityErrorType           ErrorType = "ArityError"
	DepthErrorType           ErrorType = "DepthError"
)

// ConstructionError is returned when a node cannot be built from its inputs.
type ConstructionError struct {
	Kind    Kind
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s", ConstructionErrorType, e.Message)
}

// Type returns ConstructionErrorType.
func (e *ConstructionError) Type() ErrorType { return ConstructionErrorType }

// UnsupportedKindError is returned when no differentiation rule applies to a node.
type UnsupportedKindError struct {
	Kind   Kind
	Reason string
}

func (e *UnsupportedKindError) Error() string {
	msg := fmt.Sprintf("%s: cannot differentiate node of kind %s", UnsupportedKindErrorType, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Type returns UnsupportedKindErrorType.
func (e *UnsupportedKindError) Type() ErrorType { return UnsupportedKindErrorType }

// ArityError is returned when a rule needs a fixed number of operands and the
// node has a different number.
type ArityError struct {
	Kind Kind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s rule expects %d operands, got %d", ArityErrorType, e.Kind, e.Want, e.Got)
}

// Type returns ArityErrorType.
func (e *ArityError) Type() ErrorType { return ArityErrorType }

// DepthError is returned when differentiation nests deeper than the configured limit.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: expression nesting exceeds %d levels", DepthErrorType, e.Limit)
}

// Type returns DepthErrorType.
func (e *DepthError) Type() ErrorType { return DepthErrorType }

func newConstructionError(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&ConstructionError{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// IsConstructionError reports whether err was caused by a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// IsUnsupportedKind reports whether err was caused by an UnsupportedKindError.
func IsUnsupportedKind(err error) bool {
	var uk *UnsupportedKindError
	return errors.As(err, &uk)
}

// IsArityError reports whether err was caused by an ArityError.
func IsArityError(err error) bool {
	var ae *ArityError
	return errors.As(err, &ae)
}
