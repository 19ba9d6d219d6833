package ports

import (
	"context"
	"time"
)

// TransactionEvent describes a lifecycle change of a package transaction,
// published for downstream systems (billing, tracking, reporting).
type TransactionEvent struct {
	// Kind is the change kind: "created", "step_executed", "completed", "deleted".
	Kind string

	// TransactionID is the transaction's unique identifier.
	TransactionID string

	// Code is the human-facing transaction code.
	Code string

	// PackingListID is the packing list the transaction works on.
	PackingListID string

	// FlowName names the flow governing the transaction.
	FlowName string

	// StepCode is set for step_executed events.
	StepCode string

	// PackageIDs are the packages affected by the change, if any.
	PackageIDs []string

	// OccurredAt is when the change happened.
	OccurredAt time.Time
}

// Event kinds published by the application layer.
const (
	TransactionEventCreated      = "created"
	TransactionEventStepExecuted = "step_executed"
	TransactionEventCompleted    = "completed"
	TransactionEventDeleted      = "deleted"
)

// TransactionEventPublisher publishes transaction lifecycle events to the
// message broker. Publishing happens after the database transaction commits;
// a publish failure is logged, never propagated to the caller.
type TransactionEventPublisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}
