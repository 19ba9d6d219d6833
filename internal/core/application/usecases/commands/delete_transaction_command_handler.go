package commands

import (
	"context"
	"time"

	"freightops/internal/core/ports"
)

// DeleteTransactionCommandHandler handles transaction deletion. Deletion is
// allowed only while the transaction is InProgress with zero claimed
// packages; anything later must run its flow to completion instead.
type DeleteTransactionCommandHandler struct {
	uowFactory TransactionUoWFactory
	publisher  ports.TransactionEventPublisher
}

// NewDeleteTransactionCommandHandler creates a handler for transaction deletion.
func NewDeleteTransactionCommandHandler(
	uowFactory TransactionUoWFactory,
	publisher ports.TransactionEventPublisher,
) DeleteTransactionCommandHandler {
	return DeleteTransactionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the deletion command.
func (h DeleteTransactionCommandHandler) Handle(ctx context.Context, cmd DeleteTransactionCommand) error {
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

	txn, err := txnRepo.Get(ctx, cmd.TransactionID())
	if err != nil {
		return err
	}

	if err = txn.EnsureDeletable(); err != nil {
		return err
	}

	if err = txnRepo.Delete(ctx, txn.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.TransactionEvent{
		Kind:          ports.TransactionEventDeleted,
		TransactionID: txn.ID().String(),
		Code:          txn.Code(),
		PackingListID: txn.PackingListID().String(),
		FlowName:      txn.FlowName(),
		OccurredAt:    time.Now().UTC(),
	})

	return nil
}
