package services

import (
	"fmt"
	"time"

	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"
)

// StepPayload carries the operational data a step execution records: where
// packages were stored, which truck arrived, which documents were attached.
type StepPayload struct {
	// LocationID is the target storage location; required for store steps,
	// ignored by all other step kinds.
	LocationID *kernel.UUID

	// TruckNo is the truck registration recorded with handover/stuffing steps.
	TruckNo *string

	// AttachmentRefs are references to uploaded documents (photos, receipts).
	AttachmentRefs []string
}

// PackageFailure describes why one package could not take the step.
type PackageFailure struct {
	PackageID kernel.UUID
	Cause     error
}

// StepResult is the outcome of one step execution: which packages moved and
// which were rejected, each with its own reason.
type StepResult struct {
	StepCode string
	Applied  []kernel.UUID
	Failed   []PackageFailure
}

// StepExecutor is the domain service that runs one flow step over a batch of
// packages within a transaction.
//
// Business rules:
//   - The step must exist in the flow and be executable; steps that the flow
//     declares but no handler implements are rejected outright
//   - Every package's position status must match the step's fromStatus
//   - Default mode is all-or-nothing: one ineligible package rejects the
//     whole batch before anything moves
//   - Best-effort mode moves the eligible packages and reports the rest as
//     failures; it still fails when no package is eligible
//   - Store steps additionally require a storage location and assign it to
//     every moved package
//   - The first step a package takes claims it into the transaction
type StepExecutor struct{}

// NewStepExecutor creates a new StepExecutor instance.
func NewStepExecutor() StepExecutor {
	return StepExecutor{}
}

// Execute runs the named step of the flow over the given packages, mutating
// the packages and the transaction on success.
//
// The packages slice is the authoritative state loaded from the package
// store; Execute never reads statuses from the transaction's claimed copies.
func (e StepExecutor) Execute(
	txn *transaction.PackageTransaction,
	f flow.Flow,
	stepCode string,
	packages []*cargo.Package,
	payload StepPayload,
	bestEffort bool,
	executedAt time.Time,
) (StepResult, error) {
	if err := txn.Validate(); err != nil {
		return StepResult{}, err
	}
	if err := f.Validate(); err != nil {
		return StepResult{}, err
	}
	if txn.FlowName() != f.Name() {
		return StepResult{}, errs.NewValueIsInvalidErrorWithCause("flow",
			fmt.Errorf("transaction %s belongs to flow %q, not %q", txn.Code(), txn.FlowName(), f.Name()))
	}
	if txn.IsDone() {
		return StepResult{}, errs.NewInvalidStateError("transaction",
			fmt.Sprintf("transaction %s is completed and cannot execute steps", txn.Code()))
	}
	if len(packages) == 0 {
		return StepResult{}, errs.NewValueIsRequiredError("packageIds")
	}

	step, err := f.StepByCode(stepCode)
	if err != nil {
		return StepResult{}, err
	}
	if !step.IsExecutable() {
		return StepResult{}, errs.NewPreconditionNotMetError("step",
			fmt.Sprintf("step %q of flow %q has no executable handler", stepCode, f.Name()))
	}
	if step.Kind() == flow.StepKindStore && payload.LocationID == nil {
		return StepResult{}, errs.NewValueIsRequiredError("locationId")
	}

	result := StepResult{StepCode: step.Code()}

	eligible := make([]*cargo.Package, 0, len(packages))
	for _, p := range packages {
		if err = e.checkEligible(p, step); err != nil {
			result.Failed = append(result.Failed, PackageFailure{PackageID: p.ID(), Cause: err})
			continue
		}
		eligible = append(eligible, p)
	}

	if len(result.Failed) > 0 && !bestEffort {
		return result, e.batchRejection(step, result.Failed)
	}
	if len(eligible) == 0 {
		return result, e.batchRejection(step, result.Failed)
	}

	for _, p := range eligible {
		if err = p.ApplyStep(step); err != nil {
			return result, err
		}
		if step.Kind() == flow.StepKindStore {
			if err = p.AssignStorageLocation(*payload.LocationID); err != nil {
				return result, err
			}
		}
		if err = txn.RecordPackageStatus(p.ID(), step.To()); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, p.ID())
	}

	record, err := transaction.NewStepRecord(step.Code(), payload.TruckNo, payload.AttachmentRefs, executedAt)
	if err != nil {
		return result, err
	}
	if err = txn.RecordStep(record); err != nil {
		return result, err
	}

	return result, nil
}

// checkEligible verifies a single package can take the step without mutating it.
func (e StepExecutor) checkEligible(p *cargo.Package, step flow.Step) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.PositionStatus() != step.From() {
		return errs.NewInvalidStateErrorWithEntities(
			"package",
			fmt.Sprintf("step %q requires positionStatus %q but package is at %q",
				step.Code(), step.From(), p.PositionStatus()),
			[]string{p.ID().String()},
		)
	}
	return nil
}

// batchRejection builds the aggregate error naming every rejected package.
func (e StepExecutor) batchRejection(step flow.Step, failures []PackageFailure) error {
	ids := make([]string, 0, len(failures))
	for _, f := range failures {
		ids = append(ids, f.PackageID.String())
	}
	return errs.NewInvalidStateErrorWithEntities(
		"packages",
		fmt.Sprintf("%d of the requested packages cannot take step %q", len(failures), step.Code()),
		ids,
	)
}
