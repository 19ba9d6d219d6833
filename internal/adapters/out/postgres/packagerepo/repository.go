package packagerepo

import (
	"context"
	"errors"

	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPackageRepository implements PackageRepository using GORM.
type GormPackageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPackageRepository creates a new GORM package repository.
func NewGormPackageRepository(db *gorm.DB, tracker aggregateTracker) *GormPackageRepository {
	return &GormPackageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new package to the database.
func (r *GormPackageRepository) Add(ctx context.Context, entity *cargo.Package) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entity)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(entity.ID(), entity)
	return nil
}

// Update saves an existing package to the database.
func (r *GormPackageRepository) Update(ctx context.Context, entity *cargo.Package) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entity)
	result := r.db.WithContext(ctx).Model(&PackageDTO{}).
		Where("id = ?", dto.ID).
		Select("PackingListID", "PackageNo", "PositionStatus", "ConditionStatus",
			"RegulatoryStatus", "StorageLocationID").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(entity.ID(), entity)
	return nil
}

// Get retrieves a package by ID.
func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*cargo.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIDs retrieves the packages with the given identifiers, in the order
// requested. A missing identifier is reported as an object-not-found error.
func (r *GormPackageRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*cargo.Package, error) {
	if len(ids) == 0 {
		return []*cargo.Package{}, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []PackageDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", rawIDs).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]PackageDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	packages := make([]*cargo.Package, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}

		entity, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, entity)
	}

	return packages, nil
}

// GetByPackingList retrieves every package of a packing list.
func (r *GormPackageRepository) GetByPackingList(
	ctx context.Context,
	packingListID kernel.UUID,
) ([]*cargo.Package, error) {
	if err := packingListID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PackageDTO
	err := r.db.WithContext(ctx).
		Order("package_no ASC NULLS LAST, id ASC").
		Find(&dtos, "packing_list_id = ?", packingListID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetByPackingListAndStatus retrieves the packages of a packing list at a
// position status.
func (r *GormPackageRepository) GetByPackingListAndStatus(
	ctx context.Context,
	packingListID kernel.UUID,
	status flow.Status,
) ([]*cargo.Package, error) {
	if err := packingListID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PackageDTO
	err := r.db.WithContext(ctx).
		Order("package_no ASC NULLS LAST, id ASC").
		Find(&dtos, "packing_list_id = ? AND position_status = ?",
			packingListID.Bytes(), string(status)).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormPackageRepository) toDomainAll(dtos []PackageDTO) ([]*cargo.Package, error) {
	packages := make([]*cargo.Package, 0, len(dtos))
	for _, dto := range dtos {
		entity, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, entity)
	}
	return packages, nil
}
