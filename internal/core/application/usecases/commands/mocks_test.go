package commands_test

import (
	"context"
	"time"

	"freightops/internal/core/application/usecases/commands"
	"freightops/internal/core/domain/model/cargo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

func testNow() time.Time {
	return time.Now().UTC()
}

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Add(ctx context.Context, aggregate *transaction.PackageTransaction) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, aggregate *transaction.PackageTransaction) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(
	ctx context.Context,
	id kernel.UUID,
) (*transaction.PackageTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.PackageTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetActive(
	ctx context.Context,
	packingListID kernel.UUID,
	flowName string,
) (*transaction.PackageTransaction, error) {
	args := m.Called(ctx, packingListID, flowName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.PackageTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetActiveClaimants(
	ctx context.Context,
	packageIDs []kernel.UUID,
) ([]*transaction.PackageTransaction, error) {
	args := m.Called(ctx, packageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.PackageTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
) ([]*transaction.PackageTransaction, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.PackageTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(ctx context.Context, entity *cargo.Package) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, entity *cargo.Package) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*cargo.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cargo.Package), args.Error(1)
}

func (m *MockPackageRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*cargo.Package, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cargo.Package), args.Error(1)
}

func (m *MockPackageRepository) GetByPackingList(
	ctx context.Context,
	packingListID kernel.UUID,
) ([]*cargo.Package, error) {
	args := m.Called(ctx, packingListID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cargo.Package), args.Error(1)
}

func (m *MockPackageRepository) GetByPackingListAndStatus(
	ctx context.Context,
	packingListID kernel.UUID,
	status flow.Status,
) ([]*cargo.Package, error) {
	args := m.Called(ctx, packingListID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cargo.Package), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

func (m *MockUoW) PackageRepository() ports.PackageRepository {
	args := m.Called()
	return args.Get(0).(ports.PackageRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTransactionUoW struct{ mock.Mock }

func (m *MockTransactionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

type MockTransactionUoWFactory struct{ mock.Mock }

func (m *MockTransactionUoWFactory) Create() commands.TransactionUoW {
	args := m.Called()
	return args.Get(0).(commands.TransactionUoW)
}

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) Next() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.TransactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
