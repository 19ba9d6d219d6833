package transaction

import (
	"errors"
	"fmt"
	"time"

	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

// ErrPackageTransactionIsNotConstructed is returned when a PackageTransaction
// instance was not created through the NewPackageTransaction or
// RestorePackageTransaction constructors.
var ErrPackageTransactionIsNotConstructed = errors.New(
	"PackageTransaction must be created via NewPackageTransaction or RestorePackageTransaction constructors")

// ClaimedPackage is the transaction's view of one package it works on: the
// package identity plus the position status the transaction last moved it to.
// The authoritative position status lives on the package itself; the claimed
// copy exists so counts over a transaction never need a join at read time.
type ClaimedPackage struct {
	packageID      kernel.UUID
	positionStatus flow.Status
}

// NewClaimedPackage creates the claim entry for a package at a given status.
func NewClaimedPackage(packageID kernel.UUID, positionStatus flow.Status) (ClaimedPackage, error) {
	if err := packageID.Validate(); err != nil {
		return ClaimedPackage{}, errs.NewValueIsRequiredErrorWithCause("packageId", err)
	}

	return ClaimedPackage{packageID: packageID, positionStatus: positionStatus}, nil
}

// PackageID returns the claimed package's identifier.
func (c ClaimedPackage) PackageID() kernel.UUID {
	return c.packageID
}

// PositionStatus returns the status the transaction last recorded for the package.
func (c ClaimedPackage) PositionStatus() flow.Status {
	return c.positionStatus
}

// PackageTransaction is the aggregate root of one party's run through a
// business flow over a packing list. It owns the claimed-package set and the
// step execution history.
//
// PackageTransaction follows these invariants:
//   - Must reference a valid packing list and a named flow
//   - Only one InProgress transaction may exist per (packingList, flow);
//     the constructor cannot see its siblings, so the command layer and a
//     storage-level uniqueness constraint enforce this together
//   - A package is claimed at most once within a transaction
//   - Done is final: no claims, step records, or status changes afterwards
//   - Deletion is allowed only while no packages are claimed and the
//     transaction is not Done
type PackageTransaction struct {
	// id is the unique identifier for the transaction
	id kernel.UUID

	// code is the human-facing transaction code ("PT-...")
	code string

	// packingListID references the packing list this transaction works on
	packingListID kernel.UUID

	// flowName names the flow configuration governing this transaction
	flowName string

	// partyName is the free-form name of the external party
	partyName string

	// partyType classifies the external party
	partyType PartyType

	// status is the lifecycle state (InProgress or Done)
	status Status

	// claimed are the packages this transaction has worked on, in claim order
	claimed []ClaimedPackage

	// stepRecords is the append-only step execution history
	stepRecords []StepRecord

	createdAt time.Time
	endedAt   *time.Time

	// guard ensures the transaction was created via a constructor
	guard guard.ConstructorGuard
}

// NewPackageTransaction creates a transaction in InProgress status with no
// claimed packages and an empty step history.
func NewPackageTransaction(
	id kernel.UUID,
	code string,
	packingListID kernel.UUID,
	flowName string,
	partyName string,
	partyType PartyType,
	createdAt time.Time,
) (*PackageTransaction, error) {
	t := &PackageTransaction{
		status: InProgress,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setCode(code),
		t.setPackingListID(packingListID),
		t.setFlowName(flowName),
		t.setPartyName(partyName),
		t.setPartyType(partyType),
		t.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// RestorePackageTransaction reconstructs a transaction from persistent
// storage, including its claimed packages and step history.
func RestorePackageTransaction(
	id kernel.UUID,
	code string,
	packingListID kernel.UUID,
	flowName string,
	partyName string,
	partyType PartyType,
	status Status,
	claimed []ClaimedPackage,
	stepRecords []StepRecord,
	createdAt time.Time,
	endedAt *time.Time,
) (*PackageTransaction, error) {
	t, err := NewPackageTransaction(id, code, packingListID, flowName, partyName, partyType, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	t.status = status
	t.claimed = make([]ClaimedPackage, len(claimed))
	copy(t.claimed, claimed)
	t.stepRecords = make([]StepRecord, len(stepRecords))
	copy(t.stepRecords, stepRecords)
	t.endedAt = endedAt
	return t, nil
}

// Validate ensures the PackageTransaction instance was properly constructed.
func (t *PackageTransaction) Validate() error {
	if t == nil {
		return ErrPackageTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrPackageTransactionIsNotConstructed)
}

// IsEqual compares two transactions by their unique identifiers.
func (t *PackageTransaction) IsEqual(other *PackageTransaction) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the transaction's unique identifier.
func (t *PackageTransaction) ID() kernel.UUID {
	return t.id
}

// Code returns the human-facing transaction code.
func (t *PackageTransaction) Code() string {
	return t.code
}

// PackingListID returns the packing list this transaction works on.
func (t *PackageTransaction) PackingListID() kernel.UUID {
	return t.packingListID
}

// FlowName returns the name of the flow governing this transaction.
func (t *PackageTransaction) FlowName() string {
	return t.flowName
}

// PartyName returns the external party's name.
func (t *PackageTransaction) PartyName() string {
	return t.partyName
}

// PartyType returns the external party's classification.
func (t *PackageTransaction) PartyType() PartyType {
	return t.partyType
}

// Status returns the transaction's lifecycle status.
func (t *PackageTransaction) Status() Status {
	return t.status
}

// IsDone reports whether the transaction reached its final state.
func (t *PackageTransaction) IsDone() bool {
	return t.status == Done
}

// CreatedAt returns when the transaction was created.
func (t *PackageTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// EndedAt returns when the transaction was completed, or nil while InProgress.
func (t *PackageTransaction) EndedAt() *time.Time {
	return t.endedAt
}

// ClaimedPackages returns a copy of the claimed-package set in claim order.
func (t *PackageTransaction) ClaimedPackages() []ClaimedPackage {
	claimed := make([]ClaimedPackage, len(t.claimed))
	copy(claimed, t.claimed)
	return claimed
}

// ClaimedPackageIDs returns the identifiers of all claimed packages in claim order.
func (t *PackageTransaction) ClaimedPackageIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(t.claimed))
	for _, c := range t.claimed {
		ids = append(ids, c.packageID)
	}
	return ids
}

// StepRecords returns a copy of the step execution history in execution order.
func (t *PackageTransaction) StepRecords() []StepRecord {
	records := make([]StepRecord, len(t.stepRecords))
	copy(records, t.stepRecords)
	return records
}

// IsClaimed reports whether the package is in this transaction's claimed set.
func (t *PackageTransaction) IsClaimed(packageID kernel.UUID) bool {
	for _, c := range t.claimed {
		if c.packageID.IsEqual(packageID) {
			return true
		}
	}
	return false
}

// PickedCount returns the number of packages this transaction has claimed.
func (t *PackageTransaction) PickedCount() int {
	return len(t.claimed)
}

// CountAtStatus returns how many claimed packages the transaction last
// recorded at the given position status.
func (t *PackageTransaction) CountAtStatus(status flow.Status) int {
	count := 0
	for _, c := range t.claimed {
		if c.positionStatus == status {
			count++
		}
	}
	return count
}

// RecordPackageStatus upserts the claim entry for a package: a first record
// claims the package, a later record moves the claimed copy of its position
// status forward. The caller is responsible for having applied the step to
// the package itself first.
func (t *PackageTransaction) RecordPackageStatus(packageID kernel.UUID, status flow.Status) error {
	if t.status != InProgress {
		return errs.NewInvalidStateError(
			"transaction",
			fmt.Sprintf("cannot record package status on a %s transaction", t.status),
		)
	}

	if err := packageID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("packageId", err)
	}

	for i, c := range t.claimed {
		if c.packageID.IsEqual(packageID) {
			t.claimed[i].positionStatus = status
			return nil
		}
	}

	t.claimed = append(t.claimed, ClaimedPackage{packageID: packageID, positionStatus: status})
	return nil
}

// RecordStep appends a step execution to the transaction's history.
func (t *PackageTransaction) RecordStep(record StepRecord) error {
	if t.status != InProgress {
		return errs.NewInvalidStateError(
			"transaction",
			fmt.Sprintf("cannot record a step on a %s transaction", t.status),
		)
	}

	if err := record.Validate(); err != nil {
		return err
	}

	t.stepRecords = append(t.stepRecords, record)
	return nil
}

// Complete marks the transaction as Done.
//
// The aggregate only enforces the state machine (InProgress -> Done) and the
// non-empty claimed set; the full completion predicate over authoritative
// package statuses belongs to the aggregation service, which recomputes it
// on every call instead of trusting the claimed copies.
func (t *PackageTransaction) Complete(endedAt time.Time) error {
	if len(t.claimed) == 0 {
		return errs.NewInvalidStateError(
			"transaction",
			"cannot complete a transaction with no claimed packages",
		)
	}
	if endedAt.IsZero() {
		return errs.NewValueIsRequiredError("endedAt")
	}

	newStatus, err := t.status.Complete()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.endedAt = &endedAt
	return nil
}

// EnsureDeletable checks whether the transaction may be deleted: it must not
// be Done and must have no claimed packages. Deleting an empty transaction is
// the escape hatch for one created by mistake. Both rejections are conflicts:
// the delete collides with work the transaction has already done.
func (t *PackageTransaction) EnsureDeletable() error {
	if t.status == Done {
		return errs.NewConflictError(
			"transaction",
			fmt.Sprintf("transaction %s is completed and cannot be deleted", t.code),
		)
	}
	if len(t.claimed) > 0 {
		return errs.NewConflictError(
			"transaction",
			fmt.Sprintf("transaction %s has %d claimed packages and cannot be deleted", t.code, len(t.claimed)),
		)
	}
	return nil
}

func (t *PackageTransaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *PackageTransaction) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	t.code = code
	return nil
}

func (t *PackageTransaction) setPackingListID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("packingListId", err)
	}
	t.packingListID = id
	return nil
}

func (t *PackageTransaction) setFlowName(flowName string) error {
	if flowName == "" {
		return errs.NewValueIsRequiredError("flowName")
	}
	t.flowName = flowName
	return nil
}

func (t *PackageTransaction) setPartyName(partyName string) error {
	if partyName == "" {
		return errs.NewValueIsRequiredError("partyName")
	}
	t.partyName = partyName
	return nil
}

func (t *PackageTransaction) setPartyType(partyType PartyType) error {
	if err := partyType.Validate(); err != nil {
		return err
	}
	t.partyType = partyType
	return nil
}

func (t *PackageTransaction) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	t.createdAt = createdAt
	return nil
}
