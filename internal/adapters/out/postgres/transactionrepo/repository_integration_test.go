package transactionrepo_test

import (
	"context"
	"testing"
	"time"

	"freightops/internal/adapters/out/postgres/transactionrepo"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// TransactionRepositoryIntegrationTestSuite provides integration tests for
// TransactionRepository using PostgreSQL containers. The suite also verifies
// that the partial unique index backing single-active-transaction semantics
// is actually created by the schema migration.
type TransactionRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *transactionrepo.GormTransactionRepository
	tracker    *MockAggregateTracker
}

func (suite *TransactionRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError is required so unique index violations surface as
	// gorm.ErrDuplicatedKey and map to conflicts in the repository.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&transactionrepo.TransactionDTO{},
		&transactionrepo.TransactionPackageDTO{},
		&transactionrepo.StepRecordDTO{},
	))
}

func (suite *TransactionRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE package_transactions, transaction_packages, transaction_step_records").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = transactionrepo.NewGormTransactionRepository(suite.db, suite.tracker)
}

func (suite *TransactionRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestSchema_PartialUniqueIndexExists() {
	var indexDef string
	err := suite.db.Raw(
		"SELECT indexdef FROM pg_indexes WHERE tablename = 'package_transactions' AND indexname = 'idx_one_active_per_flow'",
	).Scan(&indexDef).Error
	suite.Require().NoError(err)

	suite.Contains(indexDef, "UNIQUE")
	suite.Contains(indexDef, "packing_list_id")
	suite.Contains(indexDef, "flow")
	suite.Contains(indexDef, "WHERE")
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestAdd_ValidTransaction_Success() {
	ctx := context.Background()

	txn := suite.newTransaction("PT-1001", flow.WarehouseDelivery)
	suite.tracker.On("TrackAggregate", txn.ID(), txn).Once()

	err := suite.repository.Add(ctx, txn)
	suite.Require().NoError(err)

	suite.assertTransactionCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestAdd_DuplicateActive_ReturnsConflict() {
	ctx := context.Background()

	packingListID := kernel.NewUUID()
	first := suite.newTransactionFor("PT-2001", packingListID, flow.WarehouseDelivery)
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// Same packing list and flow while the first is still InProgress.
	second := suite.newTransactionFor("PT-2002", packingListID, flow.WarehouseDelivery)

	err := suite.repository.Add(ctx, second)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)

	suite.assertTransactionCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestAdd_DifferentFlowSamePackingList_Allowed() {
	ctx := context.Background()

	packingListID := kernel.NewUUID()
	delivery := suite.newTransactionFor("PT-3001", packingListID, flow.WarehouseDelivery)
	stuffing := suite.newTransactionFor("PT-3002", packingListID, flow.StuffingWarehouse)

	suite.tracker.On("TrackAggregate", delivery.ID(), delivery).Once()
	suite.tracker.On("TrackAggregate", stuffing.ID(), stuffing).Once()

	suite.Require().NoError(suite.repository.Add(ctx, delivery))
	suite.Require().NoError(suite.repository.Add(ctx, stuffing))

	suite.assertTransactionCount(2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestAdd_AfterDone_NewActiveAllowed() {
	ctx := context.Background()

	packingListID := kernel.NewUUID()
	done := suite.restoreDoneTransaction("PT-4001", packingListID, flow.WarehouseDelivery)
	fresh := suite.newTransactionFor("PT-4002", packingListID, flow.WarehouseDelivery)

	suite.tracker.On("TrackAggregate", done.ID(), done).Once()
	suite.tracker.On("TrackAggregate", fresh.ID(), fresh).Once()

	suite.Require().NoError(suite.repository.Add(ctx, done))

	// The unique index only covers InProgress rows, so a completed
	// transaction does not block a new one.
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	suite.assertTransactionCount(2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestGet_RoundTripWithChildren() {
	ctx := context.Background()

	txn := suite.newTransaction("PT-5001", flow.WarehouseDelivery)

	firstPackage := kernel.NewUUID()
	secondPackage := kernel.NewUUID()
	suite.Require().NoError(txn.RecordPackageStatus(firstPackage, flow.StatusCheckout))
	suite.Require().NoError(txn.RecordPackageStatus(secondPackage, flow.StatusCheckout))

	truckNo := "TRK-42"
	record, err := transaction.NewStepRecord(
		"select", &truckNo, []string{"ref-1", "ref-2"}, time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	suite.Require().NoError(txn.RecordStep(record))

	suite.tracker.On("TrackAggregate", txn.ID(), txn).Once()
	suite.Require().NoError(suite.repository.Add(ctx, txn))

	retrieved, err := suite.repository.Get(ctx, txn.ID())
	suite.Require().NoError(err)

	suite.Equal(txn.ID(), retrieved.ID())
	suite.Equal("PT-5001", retrieved.Code())
	suite.Equal(flow.WarehouseDelivery, retrieved.FlowName())
	suite.Equal(transaction.InProgress, retrieved.Status())
	suite.Equal(transaction.PartyTypeForwarder, retrieved.PartyType())

	claimed := retrieved.ClaimedPackages()
	suite.Require().Len(claimed, 2)
	suite.Equal(firstPackage, claimed[0].PackageID())
	suite.Equal(secondPackage, claimed[1].PackageID())
	suite.Equal(flow.StatusCheckout, claimed[0].PositionStatus())

	records := retrieved.StepRecords()
	suite.Require().Len(records, 1)
	suite.Equal("select", records[0].StepCode())
	suite.Require().NotNil(records[0].TruckNo())
	suite.Equal("TRK-42", *records[0].TruckNo())
	suite.Equal([]string{"ref-1", "ref-2"}, records[0].AttachmentRefs())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestGet_NonExistent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestUpdate_ReplacesChildren() {
	ctx := context.Background()

	txn := suite.newTransaction("PT-6001", flow.WarehouseDelivery)
	packageID := kernel.NewUUID()
	suite.Require().NoError(txn.RecordPackageStatus(packageID, flow.StatusCheckout))

	suite.tracker.On("TrackAggregate", txn.ID(), txn).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, txn))

	// Advance the claimed package and record the step.
	suite.Require().NoError(txn.RecordPackageStatus(packageID, flow.StatusChecked))
	record, err := transaction.NewStepRecord("inspect", nil, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(txn.RecordStep(record))

	suite.Require().NoError(suite.repository.Update(ctx, txn))

	retrieved, err := suite.repository.Get(ctx, txn.ID())
	suite.Require().NoError(err)

	claimed := retrieved.ClaimedPackages()
	suite.Require().Len(claimed, 1)
	suite.Equal(flow.StatusChecked, claimed[0].PositionStatus())
	suite.Require().Len(retrieved.StepRecords(), 1)
	suite.Equal("inspect", retrieved.StepRecords()[0].StepCode())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestUpdate_NonExistent_ReturnsError() {
	ctx := context.Background()

	txn := suite.newTransaction("PT-6002", flow.WarehouseDelivery)

	err := suite.repository.Update(ctx, txn)
	suite.Require().Error(err)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestGetActive_FindsOnlyInProgress() {
	ctx := context.Background()

	packingListID := kernel.NewUUID()
	done := suite.restoreDoneTransaction("PT-7001", packingListID, flow.WarehouseDelivery)
	active := suite.newTransactionFor("PT-7002", packingListID, flow.WarehouseDelivery)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, done))
	suite.Require().NoError(suite.repository.Add(ctx, active))

	retrieved, err := suite.repository.GetActive(ctx, packingListID, flow.WarehouseDelivery)
	suite.Require().NoError(err)
	suite.Equal(active.ID(), retrieved.ID())

	// Other flow of the same packing list has no active transaction.
	_, err = suite.repository.GetActive(ctx, packingListID, flow.StuffingWarehouse)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestGetActiveClaimants_AcrossFlows() {
	ctx := context.Background()

	sharedPackage := kernel.NewUUID()
	otherPackage := kernel.NewUUID()

	delivery := suite.newTransaction("PT-8001", flow.WarehouseDelivery)
	suite.Require().NoError(delivery.RecordPackageStatus(sharedPackage, flow.StatusCheckout))

	stuffing := suite.newTransaction("PT-8002", flow.StuffingWarehouse)
	suite.Require().NoError(stuffing.RecordPackageStatus(otherPackage, flow.StatusInContainer))

	doneClaimant := suite.restoreDoneTransaction("PT-8003", kernel.NewUUID(), flow.WarehouseDelivery)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, delivery))
	suite.Require().NoError(suite.repository.Add(ctx, stuffing))
	suite.Require().NoError(suite.repository.Add(ctx, doneClaimant))

	claimants, err := suite.repository.GetActiveClaimants(ctx, []kernel.UUID{sharedPackage})
	suite.Require().NoError(err)
	suite.Require().Len(claimants, 1)
	suite.Equal(delivery.ID(), claimants[0].ID())

	claimants, err = suite.repository.GetActiveClaimants(ctx, []kernel.UUID{sharedPackage, otherPackage})
	suite.Require().NoError(err)
	suite.Len(claimants, 2)

	claimants, err = suite.repository.GetActiveClaimants(ctx, []kernel.UUID{kernel.NewUUID()})
	suite.Require().NoError(err)
	suite.Empty(claimants)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestGetStale_OldestFirst() {
	ctx := context.Background()

	now := time.Now().UTC()
	oldest := suite.restoreAgedTransaction("PT-9001", now.Add(-96*time.Hour))
	older := suite.restoreAgedTransaction("PT-9002", now.Add(-80*time.Hour))
	fresh := suite.restoreAgedTransaction("PT-9003", now.Add(-1*time.Hour))

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, oldest))
	suite.Require().NoError(suite.repository.Add(ctx, older))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	stale, err := suite.repository.GetStale(ctx, now.Add(-72*time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(stale, 2)
	suite.Equal(oldest.ID(), stale[0].ID())
	suite.Equal(older.ID(), stale[1].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestDelete_RemovesChildren() {
	ctx := context.Background()

	txn := suite.newTransaction("PT-9101", flow.WarehouseDelivery)
	suite.Require().NoError(txn.RecordPackageStatus(kernel.NewUUID(), flow.StatusCheckout))
	record, err := transaction.NewStepRecord("select", nil, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(txn.RecordStep(record))

	suite.tracker.On("TrackAggregate", txn.ID(), txn).Once()
	suite.Require().NoError(suite.repository.Add(ctx, txn))

	suite.Require().NoError(suite.repository.Delete(ctx, txn.ID()))

	suite.assertTransactionCount(0)
	suite.assertChildCount(&transactionrepo.TransactionPackageDTO{}, 0)
	suite.assertChildCount(&transactionrepo.StepRecordDTO{}, 0)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TransactionRepositoryIntegrationTestSuite) TestDelete_NonExistent_ReturnsNotFoundError() {
	err := suite.repository.Delete(context.Background(), kernel.NewUUID())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

// newTransaction creates a fresh InProgress transaction for a new packing list.
func (suite *TransactionRepositoryIntegrationTestSuite) newTransaction(
	code, flowName string,
) *transaction.PackageTransaction {
	return suite.newTransactionFor(code, kernel.NewUUID(), flowName)
}

func (suite *TransactionRepositoryIntegrationTestSuite) newTransactionFor(
	code string, packingListID kernel.UUID, flowName string,
) *transaction.PackageTransaction {
	txn, err := transaction.NewPackageTransaction(
		kernel.NewUUID(),
		code,
		packingListID,
		flowName,
		"Acme Logistics",
		transaction.PartyTypeForwarder,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return txn
}

// restoreDoneTransaction rehydrates a completed transaction with one claim.
func (suite *TransactionRepositoryIntegrationTestSuite) restoreDoneTransaction(
	code string, packingListID kernel.UUID, flowName string,
) *transaction.PackageTransaction {
	claim, err := transaction.NewClaimedPackage(kernel.NewUUID(), flow.StatusDelivered)
	suite.Require().NoError(err)

	createdAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	endedAt := time.Now().UTC().Truncate(time.Microsecond)

	txn, err := transaction.RestorePackageTransaction(
		kernel.NewUUID(),
		code,
		packingListID,
		flowName,
		"Acme Logistics",
		transaction.PartyTypeForwarder,
		transaction.Done,
		[]transaction.ClaimedPackage{claim},
		nil,
		createdAt,
		&endedAt,
	)
	suite.Require().NoError(err)
	return txn
}

// restoreAgedTransaction rehydrates an InProgress transaction with a backdated creation time.
func (suite *TransactionRepositoryIntegrationTestSuite) restoreAgedTransaction(
	code string, createdAt time.Time,
) *transaction.PackageTransaction {
	txn, err := transaction.RestorePackageTransaction(
		kernel.NewUUID(),
		code,
		kernel.NewUUID(),
		flow.WarehouseDelivery,
		"Acme Logistics",
		transaction.PartyTypeForwarder,
		transaction.InProgress,
		nil,
		nil,
		createdAt.Truncate(time.Microsecond),
		nil,
	)
	suite.Require().NoError(err)
	return txn
}

func (suite *TransactionRepositoryIntegrationTestSuite) assertTransactionCount(expected int) {
	var count int64
	err := suite.db.Model(&transactionrepo.TransactionDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func (suite *TransactionRepositoryIntegrationTestSuite) assertChildCount(model any, expected int) {
	var count int64
	err := suite.db.Model(model).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestTransactionRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryIntegrationTestSuite))
}
