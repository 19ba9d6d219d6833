package commands

import (
	"errors"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/guard"
)

var ErrCompleteTransactionCommandIsNotConstructed = errors.New(
	"CompleteTransactionCommand must be created via NewCompleteTransactionCommand constructor",
)

// CompleteTransactionCommand represents a request to mark a transaction as
// DONE once every claimed package reached the flow's terminal status.
type CompleteTransactionCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteTransactionCommand creates a command to complete a transaction.
func NewCompleteTransactionCommand(transactionID kernel.UUID) (CompleteTransactionCommand, error) {
	cmd := CompleteTransactionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTransactionID(transactionID); err != nil {
		return CompleteTransactionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteTransactionCommand) Validate() error {
	return c.guard.Validate(ErrCompleteTransactionCommandIsNotConstructed)
}

// TransactionID returns the transaction to complete.
func (c CompleteTransactionCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c *CompleteTransactionCommand) setTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.transactionID = id
	return nil
}
