package commands

import (
	"context"
	"fmt"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/services"
	"freightops/internal/core/ports"
	"freightops/internal/pkg/errs"
)

// ExecuteStepCommandHandler orchestrates one step execution: loads the
// transaction and the authoritative package states, enforces cross-flow
// exclusivity, runs the step executor, and persists both sides atomically.
type ExecuteStepCommandHandler struct {
	uowFactory   UoWFactory
	flowRegistry ports.FlowRegistry
	publisher    ports.TransactionEventPublisher
}

// NewExecuteStepCommandHandler creates a handler for step execution operations.
func NewExecuteStepCommandHandler(
	uowFactory UoWFactory,
	flowRegistry ports.FlowRegistry,
	publisher ports.TransactionEventPublisher,
) ExecuteStepCommandHandler {
	return ExecuteStepCommandHandler{
		uowFactory:   uowFactory,
		flowRegistry: flowRegistry,
		publisher:    publisher,
	}
}

// Handle processes the step execution command. The returned StepResult
// enumerates per-package outcomes; in best-effort mode it can carry failures
// alongside a nil error.
func (h ExecuteStepCommandHandler) Handle(
	ctx context.Context,
	cmd ExecuteStepCommand,
) (services.StepResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.StepResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.StepResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	txnRepo := uow.TransactionRepository()
	packageRepo := uow.PackageRepository()

	txn, err := txnRepo.Get(ctx, cmd.TransactionID())
	if err != nil {
		return services.StepResult{}, err
	}

	f, err := h.flowRegistry.Get(txn.FlowName())
	if err != nil {
		return services.StepResult{}, err
	}

	packages, err := packageRepo.GetByIDs(ctx, cmd.PackageIDs())
	if err != nil {
		return services.StepResult{}, err
	}

	for _, p := range packages {
		if !p.PackingListID().IsEqual(txn.PackingListID()) {
			return services.StepResult{}, errs.NewValueIsInvalidErrorWithCause("packageIds",
				fmt.Errorf("package %s does not belong to packing list %s", p.ID(), txn.PackingListID()))
		}
	}

	if err = h.ensureUnclaimed(ctx, txnRepo, txn.ID(), cmd); err != nil {
		return services.StepResult{}, err
	}

	executedAt := time.Now().UTC()
	result, err := services.NewStepExecutor().Execute(
		txn, f, cmd.StepCode(), packages,
		services.StepPayload{
			LocationID:     cmd.LocationID(),
			TruckNo:        cmd.TruckNo(),
			AttachmentRefs: cmd.AttachmentRefs(),
		},
		cmd.BestEffort(), executedAt,
	)
	if err != nil {
		return result, err
	}

	for _, p := range packages {
		if err = packageRepo.Update(ctx, p); err != nil {
			return result, err
		}
	}

	if err = txnRepo.Update(ctx, txn); err != nil {
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	packageIDs := make([]string, 0, len(result.Applied))
	for _, id := range result.Applied {
		packageIDs = append(packageIDs, id.String())
	}
	_ = h.publisher.Publish(ctx, ports.TransactionEvent{
		Kind:          ports.TransactionEventStepExecuted,
		TransactionID: txn.ID().String(),
		Code:          txn.Code(),
		PackingListID: txn.PackingListID().String(),
		FlowName:      txn.FlowName(),
		StepCode:      result.StepCode,
		PackageIDs:    packageIDs,
		OccurredAt:    executedAt,
	})

	return result, nil
}

// ensureUnclaimed enforces that no package in the batch is claimed by a
// different active transaction, regardless of flow. A package already claimed
// by this transaction is fine: that is how it advances through later steps.
func (h ExecuteStepCommandHandler) ensureUnclaimed(
	ctx context.Context,
	txnRepo ports.TransactionRepository,
	selfID kernel.UUID,
	cmd ExecuteStepCommand,
) error {
	claimants, err := txnRepo.GetActiveClaimants(ctx, cmd.PackageIDs())
	if err != nil {
		return err
	}

	for _, claimant := range claimants {
		if claimant.ID().IsEqual(selfID) {
			continue
		}
		return errs.NewConflictError(
			"packageIds",
			fmt.Sprintf("packages are already claimed by active transaction %s of flow %q",
				claimant.Code(), claimant.FlowName()),
		)
	}

	return nil
}
