package commands

import (
	"errors"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

var ErrExecuteStepCommandIsNotConstructed = errors.New(
	"ExecuteStepCommand must be created via NewExecuteStepCommand constructor",
)

// ExecuteStepCommand represents a request to run one flow step over a batch
// of packages within a transaction.
type ExecuteStepCommand struct { //nolint:recvcheck //using for validation
	transactionID  kernel.UUID
	stepCode       string
	packageIDs     []kernel.UUID
	locationID     *kernel.UUID
	truckNo        *string
	attachmentRefs []string
	bestEffort     bool

	guard guard.ConstructorGuard
}

// NewExecuteStepCommand creates a command to execute a flow step.
// The batch executes all-or-nothing unless bestEffort is set.
func NewExecuteStepCommand(
	transactionID kernel.UUID,
	stepCode string,
	packageIDs []kernel.UUID,
	locationID *kernel.UUID,
	truckNo *string,
	attachmentRefs []string,
	bestEffort bool,
) (ExecuteStepCommand, error) {
	cmd := ExecuteStepCommand{
		locationID:     locationID,
		truckNo:        truckNo,
		attachmentRefs: attachmentRefs,
		bestEffort:     bestEffort,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTransactionID(transactionID),
		cmd.setStepCode(stepCode),
		cmd.setPackageIDs(packageIDs),
	); err != nil {
		return ExecuteStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ExecuteStepCommand) Validate() error {
	return c.guard.Validate(ErrExecuteStepCommandIsNotConstructed)
}

// TransactionID returns the transaction the step runs in.
func (c ExecuteStepCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

// StepCode returns the code of the step to execute.
func (c ExecuteStepCommand) StepCode() string {
	return c.stepCode
}

// PackageIDs returns the identifiers of the packages in the batch.
func (c ExecuteStepCommand) PackageIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.packageIDs))
	copy(ids, c.packageIDs)
	return ids
}

// LocationID returns the target storage location for store steps, or nil.
func (c ExecuteStepCommand) LocationID() *kernel.UUID {
	return c.locationID
}

// TruckNo returns the truck registration to record, or nil.
func (c ExecuteStepCommand) TruckNo() *string {
	return c.truckNo
}

// AttachmentRefs returns the document references to record with the step.
func (c ExecuteStepCommand) AttachmentRefs() []string {
	return c.attachmentRefs
}

// BestEffort reports whether ineligible packages should be skipped instead
// of rejecting the whole batch.
func (c ExecuteStepCommand) BestEffort() bool {
	return c.bestEffort
}

func (c *ExecuteStepCommand) setTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.transactionID = id
	return nil
}

func (c *ExecuteStepCommand) setStepCode(stepCode string) error {
	if stepCode == "" {
		return errs.NewValueIsRequiredError("stepCode")
	}

	c.stepCode = stepCode
	return nil
}

func (c *ExecuteStepCommand) setPackageIDs(packageIDs []kernel.UUID) error {
	if len(packageIDs) == 0 {
		return errs.NewValueIsRequiredError("packageIds")
	}

	seen := make(map[string]struct{}, len(packageIDs))
	ids := make([]kernel.UUID, 0, len(packageIDs))
	for _, id := range packageIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("packageIds", err)
		}
		if _, ok := seen[id.String()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("packageIds",
				errors.New("duplicate package id in batch"))
		}
		seen[id.String()] = struct{}{}
		ids = append(ids, id)
	}

	c.packageIDs = ids
	return nil
}
