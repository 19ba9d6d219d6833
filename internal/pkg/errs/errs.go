package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
// Each typed error below unwraps to exactly one of these.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrConflict           = errors.New("operation conflicts with current state")
	ErrPreconditionNotMet = errors.New("precondition not met")
	ErrInvalidState       = errors.New("invalid state for requested transition")
)

// sanitize collapses newlines so multi-line values cannot break log lines.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates that a referenced object does not exist.
// ParamName identifies the kind of reference (e.g. "transaction", "packingListId"),
// ID is the identifier that failed to resolve.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a provided value is malformed or otherwise unacceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a numeric value lies outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %v)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value is missing or empty.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ConflictError indicates that an operation would violate an exclusivity or
// uniqueness invariant (duplicate active transaction, delete with claimed
// packages, competing package claim). ParamName identifies the entity kind,
// Details describes the violated invariant.
type ConflictError struct {
	ParamName string
	Details   string
	Cause     error
}

// NewConflictError creates a ConflictError without an underlying cause.
func NewConflictError(paramName, details string) *ConflictError {
	return &ConflictError{ParamName: paramName, Details: details}
}

// NewConflictErrorWithCause creates a ConflictError wrapping an underlying cause.
func NewConflictErrorWithCause(paramName, details string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Details: details, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s: %s (cause: %v)", ErrConflict, e.ParamName, e.Details, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrConflict, e.ParamName, e.Details))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// PreconditionNotMetError indicates that flow-specific readiness requirements
// do not hold (e.g. packages of a packing list are not fully stored before a
// delivery transaction may be created).
type PreconditionNotMetError struct {
	ParamName string
	Details   string
	Cause     error
}

// NewPreconditionNotMetError creates a PreconditionNotMetError without an underlying cause.
func NewPreconditionNotMetError(paramName, details string) *PreconditionNotMetError {
	return &PreconditionNotMetError{ParamName: paramName, Details: details}
}

// NewPreconditionNotMetErrorWithCause creates a PreconditionNotMetError wrapping an underlying cause.
func NewPreconditionNotMetErrorWithCause(paramName, details string, cause error) *PreconditionNotMetError {
	return &PreconditionNotMetError{ParamName: paramName, Details: details, Cause: cause}
}

func (e *PreconditionNotMetError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s: %s (cause: %v)", ErrPreconditionNotMet, e.ParamName, e.Details, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrPreconditionNotMet, e.ParamName, e.Details))
}

func (e *PreconditionNotMetError) Unwrap() error {
	return ErrPreconditionNotMet
}

// InvalidStateError indicates that a requested transition does not match the
// actual current state: a step whose fromStatus differs from a package's
// positionStatus, or completion attempted on a transaction that is not ready.
// EntityIDs enumerates the offending entities so callers can retry just the
// failures of a batch.
type InvalidStateError struct {
	ParamName string
	Details   string
	EntityIDs []string
	Cause     error
}

// NewInvalidStateError creates an InvalidStateError without offending-entity detail.
func NewInvalidStateError(paramName, details string) *InvalidStateError {
	return &InvalidStateError{ParamName: paramName, Details: details}
}

// NewInvalidStateErrorWithEntities creates an InvalidStateError naming the entities
// whose state rejected the transition.
func NewInvalidStateErrorWithEntities(paramName, details string, entityIDs []string) *InvalidStateError {
	return &InvalidStateError{ParamName: paramName, Details: details, EntityIDs: entityIDs}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrInvalidState, e.ParamName, e.Details)
	if len(e.EntityIDs) > 0 {
		msg += fmt.Sprintf(" [ids: %s]", strings.Join(e.EntityIDs, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return sanitize(msg)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
