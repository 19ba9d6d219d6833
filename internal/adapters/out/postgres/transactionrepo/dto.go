// Package transactionrepo provides data transfer objects and mapping functions
// for package transaction persistence. This package implements the repository
// pattern for the transaction aggregate, handling the conversion between domain
// entities and database representations.
package transactionrepo

import (
	"time"

	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TransactionDTO represents the database structure for persisting transaction
// aggregates. The partial unique index over (packing_list_id, flow) restricted
// to InProgress rows is what guarantees single-active-transaction semantics
// even when two creates race past the application-level pre-check.
type TransactionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code          string    `gorm:"uniqueIndex"`
	PackingListID uuid.UUID `gorm:"type:uuid;index:idx_one_active_per_flow,unique,where:status = 1"`
	Flow          string    `gorm:"index:idx_one_active_per_flow,unique,where:status = 1"`
	PartyName     string
	PartyType     string
	Status        int `gorm:"index"`
	CreatedAt     time.Time
	EndedAt       *time.Time

	Packages    []TransactionPackageDTO `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
	StepRecords []StepRecordDTO         `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for transaction aggregates.
func (TransactionDTO) TableName() string {
	return "package_transactions"
}

// TransactionPackageDTO represents one claimed package of a transaction,
// together with the position status the transaction last recorded for it.
// Ordinal preserves claim order across reloads.
type TransactionPackageDTO struct {
	TransactionID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackageID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	PositionStatus string
	Ordinal        int
}

// TableName specifies the database table name for claimed packages.
func (TransactionPackageDTO) TableName() string {
	return "transaction_packages"
}

// StepRecordDTO represents one entry of a transaction's step execution history.
type StepRecordDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	TransactionID  uuid.UUID `gorm:"type:uuid;index"`
	StepCode       string
	TruckNo        *string
	AttachmentRefs pq.StringArray `gorm:"type:text[]"`
	RecordedAt     time.Time
}

// TableName specifies the database table name for step records.
func (StepRecordDTO) TableName() string {
	return "transaction_step_records"
}

// fromDomain converts a transaction domain aggregate to its database representation.
func fromDomain(aggregate *transaction.PackageTransaction) TransactionDTO {
	claimed := aggregate.ClaimedPackages()
	packages := make([]TransactionPackageDTO, 0, len(claimed))
	for i, c := range claimed {
		packages = append(packages, TransactionPackageDTO{
			TransactionID:  aggregate.ID().Bytes(),
			PackageID:      c.PackageID().Bytes(),
			PositionStatus: string(c.PositionStatus()),
			Ordinal:        i,
		})
	}

	records := aggregate.StepRecords()
	stepRecords := make([]StepRecordDTO, 0, len(records))
	for _, r := range records {
		stepRecords = append(stepRecords, StepRecordDTO{
			TransactionID:  aggregate.ID().Bytes(),
			StepCode:       r.StepCode(),
			TruckNo:        r.TruckNo(),
			AttachmentRefs: r.AttachmentRefs(),
			RecordedAt:     r.RecordedAt(),
		})
	}

	return TransactionDTO{
		ID:            aggregate.ID().Bytes(),
		Code:          aggregate.Code(),
		PackingListID: aggregate.PackingListID().Bytes(),
		Flow:          aggregate.FlowName(),
		PartyName:     aggregate.PartyName(),
		PartyType:     aggregate.PartyType().String(),
		Status:        int(aggregate.Status()),
		CreatedAt:     aggregate.CreatedAt(),
		EndedAt:       aggregate.EndedAt(),
		Packages:      packages,
		StepRecords:   stepRecords,
	}
}

// toDomain converts a database DTO to a transaction domain aggregate.
// Reconstructs the complete aggregate including claimed packages and the step
// history using RestorePackageTransaction.
func toDomain(dto TransactionDTO) (*transaction.PackageTransaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	packingListID, err := kernel.UUIDFromBytes(dto.PackingListID[:])
	if err != nil {
		return nil, err
	}

	partyType, err := transaction.PartyTypeFromString(dto.PartyType)
	if err != nil {
		return nil, err
	}

	claimed := make([]transaction.ClaimedPackage, 0, len(dto.Packages))
	for _, p := range dto.Packages {
		packageID, pkgErr := kernel.UUIDFromBytes(p.PackageID[:])
		if pkgErr != nil {
			return nil, pkgErr
		}

		claim, pkgErr := transaction.NewClaimedPackage(packageID, flow.Status(p.PositionStatus))
		if pkgErr != nil {
			return nil, pkgErr
		}
		claimed = append(claimed, claim)
	}

	stepRecords := make([]transaction.StepRecord, 0, len(dto.StepRecords))
	for _, r := range dto.StepRecords {
		record, recErr := transaction.NewStepRecord(r.StepCode, r.TruckNo, r.AttachmentRefs, r.RecordedAt)
		if recErr != nil {
			return nil, recErr
		}
		stepRecords = append(stepRecords, record)
	}

	return transaction.RestorePackageTransaction(
		id,
		dto.Code,
		packingListID,
		dto.Flow,
		dto.PartyName,
		partyType,
		transaction.Status(dto.Status),
		claimed,
		stepRecords,
		dto.CreatedAt,
		dto.EndedAt,
	)
}
