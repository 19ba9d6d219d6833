package transactionrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM.
// Requires the connection to be opened with TranslateError enabled so unique
// index violations surface as gorm.ErrDuplicatedKey.
type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTransactionRepository creates a new GORM transaction repository.
func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new transaction with its claimed packages and step records.
// A violation of the one-active-per-flow unique index is reported as a
// conflict so the command layer can map it to the right response.
func (r *GormTransactionRepository) Add(ctx context.Context, aggregate *transaction.PackageTransaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(
				"transaction",
				fmt.Sprintf("an active transaction already exists for packing list %s and flow %q",
					aggregate.PackingListID(), aggregate.FlowName()),
				err,
			)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing transaction, replacing its claimed-package set and
// step records with the aggregate's current state.
func (r *GormTransactionRepository) Update(ctx context.Context, aggregate *transaction.PackageTransaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("id = ?", dto.ID).
		Select("Code", "PackingListID", "Flow", "PartyName", "PartyType", "Status", "CreatedAt", "EndedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.replaceChildren(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a transaction by ID with its claimed packages and step records.
func (r *GormTransactionRepository) Get(
	ctx context.Context,
	id kernel.UUID,
) (*transaction.PackageTransaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActive retrieves the single InProgress transaction for a packing list and flow.
func (r *GormTransactionRepository) GetActive(
	ctx context.Context,
	packingListID kernel.UUID,
	flowName string,
) (*transaction.PackageTransaction, error) {
	if err := packingListID.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	err := r.preloaded(ctx).
		First(&dto, "packing_list_id = ? AND flow = ? AND status = ?",
			packingListID.Bytes(), flowName, int(transaction.InProgress)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction",
				fmt.Sprintf("active for packing list %s and flow %s", packingListID, flowName))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveClaimants retrieves every InProgress transaction that has claimed
// any of the given packages, across all flows.
func (r *GormTransactionRepository) GetActiveClaimants(
	ctx context.Context,
	packageIDs []kernel.UUID,
) ([]*transaction.PackageTransaction, error) {
	if len(packageIDs) == 0 {
		return []*transaction.PackageTransaction{}, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(packageIDs))
	for _, id := range packageIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []TransactionDTO
	err := r.preloaded(ctx).
		Where("status = ? AND id IN (?)",
			int(transaction.InProgress),
			r.db.Model(&TransactionPackageDTO{}).
				Select("transaction_id").
				Where("package_id IN ?", rawIDs),
		).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetStale retrieves InProgress transactions created before the cutoff, oldest first.
func (r *GormTransactionRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
) ([]*transaction.PackageTransaction, error) {
	var dtos []TransactionDTO
	err := r.preloaded(ctx).
		Where("status = ? AND created_at < ?", int(transaction.InProgress), olderThan).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// Delete removes a transaction and its child rows.
func (r *GormTransactionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	raw := id.Bytes()
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", raw).Delete(&TransactionPackageDTO{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", raw).Delete(&StepRecordDTO{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", raw).Delete(&TransactionDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transaction", id.String())
	}

	return nil
}

// preloaded returns a query with both child collections loaded in stable order.
func (r *GormTransactionRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordinal ASC")
		}).
		Preload("StepRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// replaceChildren rewrites the claimed-package and step-record rows from the
// aggregate's current state.
func (r *GormTransactionRepository) replaceChildren(ctx context.Context, dto TransactionDTO) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("transaction_id = ?", dto.ID).Delete(&TransactionPackageDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Packages) > 0 {
		if err := db.Create(&dto.Packages).Error; err != nil {
			return err
		}
	}

	if err := db.Where("transaction_id = ?", dto.ID).Delete(&StepRecordDTO{}).Error; err != nil {
		return err
	}
	if len(dto.StepRecords) > 0 {
		if err := db.Create(&dto.StepRecords).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *GormTransactionRepository) toDomainAll(dtos []TransactionDTO) ([]*transaction.PackageTransaction, error) {
	aggregates := make([]*transaction.PackageTransaction, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, aggregate)
	}
	return aggregates, nil
}
