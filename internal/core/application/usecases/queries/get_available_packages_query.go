package queries

import (
	"errors"

	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

var ErrGetAvailablePackagesQueryIsNotConstructed = errors.New(
	"GetAvailablePackagesQuery must be created via NewGetAvailablePackagesQuery constructor",
)

// GetAvailablePackagesQuery retrieves the packages of a packing list sitting
// at a given position status. Operators use it to pick the batch for the next
// step of a flow.
type GetAvailablePackagesQuery struct {
	packingListID kernel.UUID
	status        flow.Status

	guard guard.ConstructorGuard
}

// NewGetAvailablePackagesQuery creates a query for packages of a packing list
// at a position status. An unset status selects packages that have not
// entered any flow yet.
func NewGetAvailablePackagesQuery(packingListID kernel.UUID, status flow.Status) (GetAvailablePackagesQuery, error) {
	if err := packingListID.Validate(); err != nil {
		return GetAvailablePackagesQuery{}, errs.NewValueIsRequiredErrorWithCause("packingListId", err)
	}

	return GetAvailablePackagesQuery{
		packingListID: packingListID,
		status:        status,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailablePackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailablePackagesQueryIsNotConstructed)
}

// PackingListID returns the packing list to inspect.
func (q GetAvailablePackagesQuery) PackingListID() kernel.UUID {
	return q.packingListID
}

// Status returns the position status to filter by.
func (q GetAvailablePackagesQuery) Status() flow.Status {
	return q.status
}

// PackageResponse is one row of the package listing read model.
type PackageResponse struct {
	ID                kernel.UUID
	PackageNo         *string
	PositionStatus    string
	ConditionStatus   string
	RegulatoryStatus  string
	StorageLocationID *kernel.UUID
}
