package ports

import (
	"context"

	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
)

// PackageRepository defines the persistence contract for package entities.
// The package store is the authoritative source of position statuses; the
// workflow engine always reads current state here, never from a
// transaction's claimed copies.
type PackageRepository interface {
	// Add persists a new package entity to storage.
	Add(ctx context.Context, entity *cargo.Package) error

	// Update persists changes to an existing package entity.
	Update(ctx context.Context, entity *cargo.Package) error

	// Get retrieves a package entity by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cargo.Package, error)

	// GetByIDs retrieves the packages with the given identifiers.
	// Returns an object-not-found error naming the first missing identifier
	// when any of them does not exist.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*cargo.Package, error)

	// GetByPackingList retrieves every package belonging to a packing list.
	GetByPackingList(ctx context.Context, packingListID kernel.UUID) ([]*cargo.Package, error)

	// GetByPackingListAndStatus retrieves the packages of a packing list
	// currently holding the given position status.
	GetByPackingListAndStatus(
		ctx context.Context,
		packingListID kernel.UUID,
		status flow.Status,
	) ([]*cargo.Package, error)
}
