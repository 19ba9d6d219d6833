package commands

import (
	"errors"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/guard"
)

var ErrDeleteTransactionCommandIsNotConstructed = errors.New(
	"DeleteTransactionCommand must be created via NewDeleteTransactionCommand constructor",
)

// DeleteTransactionCommand represents a request to delete a transaction that
// was created by mistake and has not touched any packages yet.
type DeleteTransactionCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteTransactionCommand creates a command to delete a transaction.
func NewDeleteTransactionCommand(transactionID kernel.UUID) (DeleteTransactionCommand, error) {
	cmd := DeleteTransactionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTransactionID(transactionID); err != nil {
		return DeleteTransactionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteTransactionCommand) Validate() error {
	return c.guard.Validate(ErrDeleteTransactionCommandIsNotConstructed)
}

// TransactionID returns the transaction to delete.
func (c DeleteTransactionCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c *DeleteTransactionCommand) setTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.transactionID = id
	return nil
}
