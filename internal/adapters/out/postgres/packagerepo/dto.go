// Package packagerepo provides data transfer objects and mapping functions for
// package persistence. The packages table is the authoritative source of
// position statuses across all flows.
package packagerepo

import (
	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// PackageDTO represents the database structure for persisting package entities.
type PackageDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackingListID     uuid.UUID `gorm:"type:uuid;index"`
	PackageNo         *string
	PositionStatus    string `gorm:"index"`
	ConditionStatus   string
	RegulatoryStatus  string
	StorageLocationID *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for package entities.
func (PackageDTO) TableName() string {
	return "packages"
}

// fromDomain converts a package domain entity to its database representation.
func fromDomain(entity *cargo.Package) PackageDTO {
	var storageLocationID *uuid.UUID
	if id := entity.StorageLocationID(); id != nil {
		raw := id.Bytes()
		storageLocationID = &raw
	}

	return PackageDTO{
		ID:                entity.ID().Bytes(),
		PackingListID:     entity.PackingListID().Bytes(),
		PackageNo:         entity.PackageNo(),
		PositionStatus:    string(entity.PositionStatus()),
		ConditionStatus:   entity.ConditionStatus(),
		RegulatoryStatus:  entity.RegulatoryStatus(),
		StorageLocationID: storageLocationID,
	}
}

// toDomain converts a database DTO to a package domain entity using RestorePackage.
func toDomain(dto PackageDTO) (*cargo.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	packingListID, err := kernel.UUIDFromBytes(dto.PackingListID[:])
	if err != nil {
		return nil, err
	}

	var storageLocationID *kernel.UUID
	if dto.StorageLocationID != nil {
		locationID, locErr := kernel.UUIDFromBytes((*dto.StorageLocationID)[:])
		if locErr != nil {
			return nil, locErr
		}
		storageLocationID = &locationID
	}

	return cargo.RestorePackage(
		id,
		packingListID,
		dto.PackageNo,
		flow.Status(dto.PositionStatus),
		dto.ConditionStatus,
		dto.RegulatoryStatus,
		storageLocationID,
	)
}
