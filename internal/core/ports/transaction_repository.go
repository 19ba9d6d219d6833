// Package ports defines repository and outbound interfaces for the freight
// workflow domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
)

// TransactionRepository defines the persistence contract for package
// transaction aggregates, including their claimed packages and step history.
type TransactionRepository interface {
	// Add persists a new transaction aggregate to storage.
	// Returns a conflict error when an InProgress transaction already exists
	// for the same packing list and flow; the storage layer's uniqueness
	// constraint makes this hold even under concurrent creates.
	Add(ctx context.Context, aggregate *transaction.PackageTransaction) error

	// Update persists changes to an existing transaction aggregate,
	// replacing its claimed-package set and step history.
	Update(ctx context.Context, aggregate *transaction.PackageTransaction) error

	// Get retrieves a transaction aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*transaction.PackageTransaction, error)

	// GetActive retrieves the single InProgress transaction for a packing
	// list and flow, or an object-not-found error when none exists.
	GetActive(ctx context.Context, packingListID kernel.UUID, flowName string) (*transaction.PackageTransaction, error)

	// GetActiveClaimants retrieves every InProgress transaction, across all
	// flows, that has claimed any of the given packages. Used to enforce
	// that a package belongs to at most one active transaction.
	GetActiveClaimants(ctx context.Context, packageIDs []kernel.UUID) ([]*transaction.PackageTransaction, error)

	// GetStale retrieves InProgress transactions created before the cutoff,
	// oldest first. Used by the stale-transaction watchdog.
	GetStale(ctx context.Context, olderThan time.Time) ([]*transaction.PackageTransaction, error)

	// Delete removes a transaction aggregate from storage. The caller must
	// have verified the aggregate's delete guard first.
	Delete(ctx context.Context, id kernel.UUID) error
}
