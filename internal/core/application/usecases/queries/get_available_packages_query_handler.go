package queries

import (
	"context"

	"freightops/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailablePackagesQueryHandler retrieves package listings from the database.
type GetAvailablePackagesQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailablePackagesQueryHandler creates a handler for package listing queries.
func NewGetAvailablePackagesQueryHandler(db *gorm.DB) GetAvailablePackagesQueryHandler {
	return GetAvailablePackagesQueryHandler{db: db}
}

// Handle executes the query and returns matching packages ordered by package number.
func (h GetAvailablePackagesQueryHandler) Handle(
	ctx context.Context,
	query GetAvailablePackagesQuery,
) ([]PackageResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			package_no,
			position_status,
			condition_status,
			regulatory_status,
			storage_location_id
		FROM packages
		WHERE packing_list_id = ? AND position_status = ?
		ORDER BY package_no NULLS LAST, id
	`, query.PackingListID().Bytes(), string(query.Status())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]PackageResponse, 0)
	for rows.Next() {
		var item PackageResponse
		var id uuid.UUID
		var storageLocationID *uuid.UUID

		err = rows.Scan(
			&id,
			&item.PackageNo,
			&item.PositionStatus,
			&item.ConditionStatus,
			&item.RegulatoryStatus,
			&storageLocationID,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID

		if storageLocationID != nil {
			locationID, idErr := kernel.UUIDFromBytes(storageLocationID[:])
			if idErr != nil {
				return nil, idErr
			}
			item.StorageLocationID = &locationID
		}

		packages = append(packages, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
