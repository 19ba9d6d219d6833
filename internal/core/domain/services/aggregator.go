package services

import (
	"fmt"

	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"
)

// Aggregator is the domain service that derives progress figures for a
// transaction from the authoritative package states. Nothing it computes is
// ever cached: completion and counts are recomputed from the packages passed
// in on every call, so a package moved by a sibling flow is always seen.
type Aggregator struct{}

// NewAggregator creates a new Aggregator instance.
func NewAggregator() Aggregator {
	return Aggregator{}
}

// Progress is a snapshot of a transaction's advancement through its flow.
type Progress struct {
	// PickedCount is the number of packages the transaction has claimed.
	PickedCount int

	// AtTerminal is how many claimed packages sit at the flow's terminal status.
	AtTerminal int

	// CountsByStatus maps each position status to the number of claimed
	// packages currently holding it.
	CountsByStatus map[flow.Status]int

	// Lagging lists the claimed packages not yet at the terminal status.
	Lagging []string
}

// Complete reports whether the transaction satisfies the completion
// predicate: at least one package claimed and every claimed package at the
// flow's terminal status.
func (p Progress) Complete() bool {
	return p.PickedCount > 0 && p.AtTerminal == p.PickedCount
}

// MeasureProgress computes the transaction's progress from the authoritative
// package states. The packages slice must contain every package the
// transaction has claimed; claimed packages missing from it are reported as
// a not-found error rather than silently skewing the counts.
func (a Aggregator) MeasureProgress(
	txn *transaction.PackageTransaction,
	f flow.Flow,
	packages []*cargo.Package,
) (Progress, error) {
	if err := txn.Validate(); err != nil {
		return Progress{}, err
	}
	if err := f.Validate(); err != nil {
		return Progress{}, err
	}

	byID := make(map[string]*cargo.Package, len(packages))
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return Progress{}, err
		}
		byID[p.ID().String()] = p
	}

	progress := Progress{CountsByStatus: make(map[flow.Status]int)}
	for _, claim := range txn.ClaimedPackages() {
		p, ok := byID[claim.PackageID().String()]
		if !ok {
			return Progress{}, errs.NewObjectNotFoundError("packageId", claim.PackageID())
		}

		progress.PickedCount++
		progress.CountsByStatus[p.PositionStatus()]++
		if p.PositionStatus() == f.TerminalStatus() {
			progress.AtTerminal++
		} else {
			progress.Lagging = append(progress.Lagging, p.ID().String())
		}
	}

	return progress, nil
}

// EnsureCompletable checks the completion predicate and returns a state
// error naming the lagging packages when it does not hold. The package counts
// are the transaction's actual state, so a mismatch is a state problem, not a
// missing precondition.
func (a Aggregator) EnsureCompletable(
	txn *transaction.PackageTransaction,
	f flow.Flow,
	packages []*cargo.Package,
) error {
	progress, err := a.MeasureProgress(txn, f, packages)
	if err != nil {
		return err
	}

	if progress.PickedCount == 0 {
		return errs.NewInvalidStateError(
			"transaction",
			fmt.Sprintf("transaction %s has no claimed packages", txn.Code()),
		)
	}

	if progress.AtTerminal != progress.PickedCount {
		return errs.NewInvalidStateErrorWithEntities(
			"transaction",
			fmt.Sprintf("%d of %d claimed packages have not reached %q",
				progress.PickedCount-progress.AtTerminal, progress.PickedCount, f.TerminalStatus()),
			progress.Lagging,
		)
	}

	return nil
}

// EnsureContainerReadyForSeal checks that every package destined for a
// container is at IN_CONTAINER. Sealing itself is a container-side act
// outside the package flows; this gate is what the stuffing flow feeds.
func (a Aggregator) EnsureContainerReadyForSeal(packages []*cargo.Package) error {
	if len(packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}

	var lagging []string
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.PositionStatus() != flow.StatusInContainer {
			lagging = append(lagging, p.ID().String())
		}
	}

	if len(lagging) > 0 {
		return errs.NewInvalidStateErrorWithEntities(
			"packages",
			fmt.Sprintf("%d packages are not yet in the container", len(lagging)),
			lagging,
		)
	}

	return nil
}
