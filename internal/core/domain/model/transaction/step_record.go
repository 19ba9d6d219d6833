package transaction

import (
	"errors"
	"time"

	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

// StepRecord captures one successful step execution within a transaction:
// which step ran, when, and the operational payload recorded with it
// (truck number, attachment references). Records are append-only.
type StepRecord struct {
	stepCode       string
	truckNo        *string
	attachmentRefs []string
	recordedAt     time.Time

	guard guard.ConstructorGuard
}

// ErrStepRecordIsNotConstructed is returned when a StepRecord was not created
// via NewStepRecord.
var ErrStepRecordIsNotConstructed = errors.New("StepRecord must be created via NewStepRecord constructor")

// NewStepRecord creates a StepRecord for an executed step.
func NewStepRecord(stepCode string, truckNo *string, attachmentRefs []string, recordedAt time.Time) (StepRecord, error) {
	if stepCode == "" {
		return StepRecord{}, errs.NewValueIsRequiredError("stepCode")
	}
	if recordedAt.IsZero() {
		return StepRecord{}, errs.NewValueIsRequiredError("recordedAt")
	}

	refs := make([]string, len(attachmentRefs))
	copy(refs, attachmentRefs)

	return StepRecord{
		stepCode:       stepCode,
		truckNo:        truckNo,
		attachmentRefs: refs,
		recordedAt:     recordedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the StepRecord was created via NewStepRecord.
func (r StepRecord) Validate() error {
	return r.guard.Validate(ErrStepRecordIsNotConstructed)
}

// StepCode returns the code of the executed step.
func (r StepRecord) StepCode() string {
	return r.stepCode
}

// TruckNo returns the truck number recorded with the step, or nil.
func (r StepRecord) TruckNo() *string {
	return r.truckNo
}

// AttachmentRefs returns a copy of the attachment references.
func (r StepRecord) AttachmentRefs() []string {
	refs := make([]string, len(r.attachmentRefs))
	copy(refs, r.attachmentRefs)
	return refs
}

// RecordedAt returns when the step was executed.
func (r StepRecord) RecordedAt() time.Time {
	return r.recordedAt
}
