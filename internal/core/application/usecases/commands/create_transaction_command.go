package commands

import (
	"errors"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

var ErrCreateTransactionCommandIsNotConstructed = errors.New(
	"CreateTransactionCommand must be created via NewCreateTransactionCommand constructor",
)

// CreateTransactionCommand represents a request to open a new package
// transaction: one party starting a named flow over a packing list.
type CreateTransactionCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID
	packingListID kernel.UUID
	flowName      string
	partyName     string
	partyType     transaction.PartyType

	guard guard.ConstructorGuard
}

// NewCreateTransactionCommand creates a command to open a transaction.
// Validates identifiers, the flow name, and the party fields.
func NewCreateTransactionCommand(
	transactionID, packingListID kernel.UUID,
	flowName, partyName string,
	partyType transaction.PartyType,
) (CreateTransactionCommand, error) {
	cmd := CreateTransactionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTransactionID(transactionID),
		cmd.setPackingListID(packingListID),
		cmd.setFlowName(flowName),
		cmd.setPartyName(partyName),
		cmd.setPartyType(partyType),
	); err != nil {
		return CreateTransactionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateTransactionCommand) Validate() error {
	return c.guard.Validate(ErrCreateTransactionCommandIsNotConstructed)
}

// TransactionID returns the identifier the new transaction will have.
func (c CreateTransactionCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

// PackingListID returns the packing list the transaction will work on.
func (c CreateTransactionCommand) PackingListID() kernel.UUID {
	return c.packingListID
}

// FlowName returns the name of the flow governing the transaction.
func (c CreateTransactionCommand) FlowName() string {
	return c.flowName
}

// PartyName returns the external party's name.
func (c CreateTransactionCommand) PartyName() string {
	return c.partyName
}

// PartyType returns the external party's classification.
func (c CreateTransactionCommand) PartyType() transaction.PartyType {
	return c.partyType
}

func (c *CreateTransactionCommand) setTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.transactionID = id
	return nil
}

func (c *CreateTransactionCommand) setPackingListID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("packingListId", err)
	}

	c.packingListID = id
	return nil
}

func (c *CreateTransactionCommand) setFlowName(flowName string) error {
	if flowName == "" {
		return errs.NewValueIsRequiredError("flowName")
	}

	c.flowName = flowName
	return nil
}

func (c *CreateTransactionCommand) setPartyName(partyName string) error {
	if partyName == "" {
		return errs.NewValueIsRequiredError("partyName")
	}

	c.partyName = partyName
	return nil
}

func (c *CreateTransactionCommand) setPartyType(partyType transaction.PartyType) error {
	if err := partyType.Validate(); err != nil {
		return err
	}

	c.partyType = partyType
	return nil
}
