package transaction

import (
	"fmt"

	"freightops/internal/pkg/errs"
)

// Status represents the lifecycle state of a package transaction.
// The state machine is deliberately small:
//
//	InProgress ──> Done
//
// There is no cancelled or failed state; a transaction that should not have
// existed is deleted while still empty, and a transaction with claimed
// packages stays InProgress until its flow finishes.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// InProgress is the only status a transaction can be created in.
	// Steps may be executed and packages claimed while InProgress.
	InProgress

	// Done indicates all claimed packages reached the flow's terminal
	// status and the transaction was explicitly completed. Final state.
	Done
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		InProgress: "IN_PROGRESS",
		Done:       "DONE",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		InProgress: "IN_PROGRESS",
		Done:       "DONE",
	}
}

// Validate checks if the Status value is valid.
// Valid statuses are InProgress and Done; Unknown (0) is invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Returns "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses a wire representation back into a Status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", value))
}

// Complete transitions the status to Done.
//
// Valid transitions:
//   - InProgress -> Done
//
// Done is a final state; completing an already completed transaction fails.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewInvalidStateError(
			"status",
			fmt.Sprintf("%s is not a valid status to complete", s.String()),
		)
	}

	return Done, nil
}
