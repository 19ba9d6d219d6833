package cargo

import (
	"errors"
	"fmt"

	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

// ErrPackageIsNotConstructed is returned when a Package instance was not created
// through the NewPackage or RestorePackage constructors.
var ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage or RestorePackage constructors")

// Package represents a physical unit of cargo belonging to a packing list.
//
// Package follows these invariants:
//   - Must have a valid unique identifier and packing list reference
//   - positionStatus changes only through workflow step application, and only
//     forward along the flow's declared order
//   - conditionStatus and regulatoryStatus are independent classification axes
//     and never participate in the workflow state machine
//
// Packages are created by upstream intake processes and never deleted by the
// workflow engine.
type Package struct {
	// id is the unique identifier for the package
	id kernel.UUID

	// packingListID references the shipment manifest this package belongs to
	packingListID kernel.UUID

	// packageNo is the human-readable label printed on the package (may be nil)
	packageNo *string

	// positionStatus is the physical/operational state token; empty means
	// the package has not yet entered any flow
	positionStatus flow.Status

	// conditionStatus classifies physical condition (damaged, intact, ...)
	conditionStatus string

	// regulatoryStatus classifies customs/regulatory state
	regulatoryStatus string

	// storageLocationID is the assigned warehouse location, set by a store step
	storageLocationID *kernel.UUID

	// guard ensures the package was created via a constructor
	guard guard.ConstructorGuard
}

// NewPackage creates a Package as intake registers it: no position status yet,
// no storage location.
func NewPackage(id, packingListID kernel.UUID, packageNo *string) (*Package, error) {
	p := &Package{
		packageNo: packageNo,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setPackingListID(packingListID),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePackage reconstructs a Package from persistent storage, preserving its
// position status and storage location assignment.
func RestorePackage(
	id, packingListID kernel.UUID,
	packageNo *string,
	positionStatus flow.Status,
	conditionStatus, regulatoryStatus string,
	storageLocationID *kernel.UUID,
) (*Package, error) {
	p, err := NewPackage(id, packingListID, packageNo)
	if err != nil {
		return nil, err
	}

	if storageLocationID != nil {
		if err = storageLocationID.Validate(); err != nil {
			return nil, err
		}
	}

	p.positionStatus = positionStatus
	p.conditionStatus = conditionStatus
	p.regulatoryStatus = regulatoryStatus
	p.storageLocationID = storageLocationID
	return p, nil
}

// Validate ensures the Package instance was properly constructed.
func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// IsEqual compares two packages by their unique identifiers.
func (p *Package) IsEqual(other *Package) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the package's unique identifier.
func (p *Package) ID() kernel.UUID {
	return p.id
}

// PackingListID returns the packing list this package belongs to.
func (p *Package) PackingListID() kernel.UUID {
	return p.packingListID
}

// PackageNo returns the human-readable label, or nil if none was assigned.
func (p *Package) PackageNo() *string {
	return p.packageNo
}

// PositionStatus returns the current position-status token.
func (p *Package) PositionStatus() flow.Status {
	return p.positionStatus
}

// ConditionStatus returns the physical-condition classification.
func (p *Package) ConditionStatus() string {
	return p.conditionStatus
}

// RegulatoryStatus returns the customs/regulatory classification.
func (p *Package) RegulatoryStatus() string {
	return p.regulatoryStatus
}

// StorageLocationID returns the assigned warehouse location, or nil if the
// package has not been stored.
func (p *Package) StorageLocationID() *kernel.UUID {
	return p.storageLocationID
}

// IsFullyStored reports whether the package is at STORED with an assigned
// storage location. Outbound flows require this of every package of a packing
// list before a transaction may be created.
func (p *Package) IsFullyStored() bool {
	return p.positionStatus == flow.StatusStored && p.storageLocationID != nil
}

// ApplyStep transitions the package along one flow step.
//
// The package's current positionStatus must equal the step's fromStatus;
// otherwise the transition is rejected with an InvalidStateError naming this
// package, even if the step's toStatus matches a status the package already
// holds further ahead. This keeps transitions strictly forward and makes a
// repeated step application fail rather than silently no-op or double-apply.
func (p *Package) ApplyStep(step flow.Step) error {
	if err := step.Validate(); err != nil {
		return err
	}

	if p.positionStatus != step.From() {
		return errs.NewInvalidStateErrorWithEntities(
			"package",
			fmt.Sprintf("step %q requires positionStatus %q but package is at %q",
				step.Code(), step.From(), p.positionStatus),
			[]string{p.id.String()},
		)
	}

	p.positionStatus = step.To()
	return nil
}

// AssignStorageLocation records the warehouse location a store step put the
// package into.
func (p *Package) AssignStorageLocation(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	p.storageLocationID = &locationID
	return nil
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Package) setPackingListID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("packingListId", err)
	}
	p.packingListID = id
	return nil
}
