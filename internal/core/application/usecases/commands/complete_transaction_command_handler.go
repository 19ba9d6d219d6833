package commands

import (
	"context"
	"time"

	"freightops/internal/core/domain/services"
	"freightops/internal/core/ports"
)

// CompleteTransactionCommandHandler handles explicit transaction completion.
// Completion is never inferred from step execution: the completion predicate
// is recomputed here from the authoritative package store, so a package moved
// meanwhile by another flow is always taken into account.
type CompleteTransactionCommandHandler struct {
	uowFactory   UoWFactory
	flowRegistry ports.FlowRegistry
	publisher    ports.TransactionEventPublisher
}

// NewCompleteTransactionCommandHandler creates a handler for transaction completion.
func NewCompleteTransactionCommandHandler(
	uowFactory UoWFactory,
	flowRegistry ports.FlowRegistry,
	publisher ports.TransactionEventPublisher,
) CompleteTransactionCommandHandler {
	return CompleteTransactionCommandHandler{
		uowFactory:   uowFactory,
		flowRegistry: flowRegistry,
		publisher:    publisher,
	}
}

// Handle processes the completion command.
func (h CompleteTransactionCommandHandler) Handle(ctx context.Context, cmd CompleteTransactionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	txnRepo := uow.TransactionRepository()
	packageRepo := uow.PackageRepository()

	txn, err := txnRepo.Get(ctx, cmd.TransactionID())
	if err != nil {
		return err
	}

	f, err := h.flowRegistry.Get(txn.FlowName())
	if err != nil {
		return err
	}

	packages, err := packageRepo.GetByIDs(ctx, txn.ClaimedPackageIDs())
	if err != nil {
		return err
	}

	if err = services.NewAggregator().EnsureCompletable(txn, f, packages); err != nil {
		return err
	}

	endedAt := time.Now().UTC()
	if err = txn.Complete(endedAt); err != nil {
		return err
	}

	if err = txnRepo.Update(ctx, txn); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.TransactionEvent{
		Kind:          ports.TransactionEventCompleted,
		TransactionID: txn.ID().String(),
		Code:          txn.Code(),
		PackingListID: txn.PackingListID().String(),
		FlowName:      txn.FlowName(),
		OccurredAt:    endedAt,
	})

	return nil
}
