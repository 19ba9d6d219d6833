package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/core/ports"
	"freightops/internal/pkg/errs"
)

// CreateTransactionCommandHandler handles the business logic for opening a
// package transaction.
//
// Preconditions enforced here:
//   - The flow must be registered
//   - The packing list must have packages
//   - For outbound flows, every package of the packing list must be fully
//     stored (STORED with an assigned storage location)
//   - No other InProgress transaction may exist for the same packing list
//     and flow; the repository's uniqueness constraint closes the race the
//     pre-check leaves open
type CreateTransactionCommandHandler struct {
	uowFactory    UoWFactory
	flowRegistry  ports.FlowRegistry
	codeGenerator TransactionCodeGenerator
	publisher     ports.TransactionEventPublisher
}

// NewCreateTransactionCommandHandler creates a handler for transaction creation.
func NewCreateTransactionCommandHandler(
	uowFactory UoWFactory,
	flowRegistry ports.FlowRegistry,
	codeGenerator TransactionCodeGenerator,
	publisher ports.TransactionEventPublisher,
) CreateTransactionCommandHandler {
	return CreateTransactionCommandHandler{
		uowFactory:    uowFactory,
		flowRegistry:  flowRegistry,
		codeGenerator: codeGenerator,
		publisher:     publisher,
	}
}

// Handle processes the transaction creation command and returns the created
// aggregate so the caller can render its code and identifiers.
func (h CreateTransactionCommandHandler) Handle(
	ctx context.Context,
	cmd CreateTransactionCommand,
) (*transaction.PackageTransaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	f, err := h.flowRegistry.Get(cmd.FlowName())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	txnRepo := uow.TransactionRepository()
	packageRepo := uow.PackageRepository()

	packages, err := packageRepo.GetByPackingList(ctx, cmd.PackingListID())
	if err != nil {
		return nil, err
	}
	if len(packages) == 0 {
		return nil, errs.NewObjectNotFoundError("packingListId", cmd.PackingListID())
	}

	if err = h.ensureReady(f, packages); err != nil {
		return nil, err
	}

	_, err = txnRepo.GetActive(ctx, cmd.PackingListID(), cmd.FlowName())
	if err == nil {
		return nil, errs.NewConflictError(
			"transaction",
			fmt.Sprintf("an active transaction already exists for packing list %s and flow %q",
				cmd.PackingListID(), cmd.FlowName()),
		)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	code, err := h.codeGenerator.Next()
	if err != nil {
		return nil, err
	}

	txn, err := transaction.NewPackageTransaction(
		cmd.TransactionID(), code, cmd.PackingListID(),
		cmd.FlowName(), cmd.PartyName(), cmd.PartyType(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = txnRepo.Add(ctx, txn); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.publisher.Publish(ctx, ports.TransactionEvent{
		Kind:          ports.TransactionEventCreated,
		TransactionID: txn.ID().String(),
		Code:          txn.Code(),
		PackingListID: txn.PackingListID().String(),
		FlowName:      txn.FlowName(),
		OccurredAt:    txn.CreatedAt(),
	})

	return txn, nil
}

// ensureReady checks the packing list is in a state the flow can start from.
// Outbound flows move cargo out of the warehouse, so every package must be
// fully stored first; inbound flows begin before packages have any position
// status, so existence of the packing list is enough.
func (h CreateTransactionCommandHandler) ensureReady(f flow.Flow, packages []*cargo.Package) error {
	if f.Direction() != flow.Outbound {
		return nil
	}

	var notStored []string
	for _, p := range packages {
		if !p.IsFullyStored() {
			notStored = append(notStored, p.ID().String())
		}
	}

	if len(notStored) > 0 {
		return errs.NewPreconditionNotMetError(
			"packingList",
			fmt.Sprintf("%d of %d packages are not fully stored", len(notStored), len(packages)),
		)
	}

	return nil
}
