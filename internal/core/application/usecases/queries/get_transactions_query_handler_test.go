package queries_test

import (
	"context"
	"testing"
	"time"

	"freightops/internal/adapters/out/postgres/packagerepo"
	"freightops/internal/adapters/out/postgres/transactionrepo"
	"freightops/internal/core/application/usecases/queries"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockAggregateTracker satisfies the repository tracker without recording anything.
type mockAggregateTracker struct{}

func (t *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type GetTransactionsQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetTransactionsQueryHandler
	txnRepo   *transactionrepo.GormTransactionRepository
}

func (suite *GetTransactionsQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&transactionrepo.TransactionDTO{},
		&transactionrepo.TransactionPackageDTO{},
		&transactionrepo.StepRecordDTO{},
		&packagerepo.PackageDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetTransactionsQueryHandler(db)
	suite.txnRepo = transactionrepo.NewGormTransactionRepository(db, &mockAggregateTracker{})
}

func (suite *GetTransactionsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetTransactionsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE package_transactions, transaction_packages, transaction_step_records").Error)
}

func (suite *GetTransactionsQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptyPage() {
	query := suite.newQuery(nil, nil, nil, 1, 10, queries.OrderDesc)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(result.Items)
	suite.Zero(result.Total)
}

func (suite *GetTransactionsQueryHandlerTestSuite) TestHandle_ReturnsPickedCountFromClaims() {
	txn := suite.seedTransaction("PT-1", kernel.NewUUID(), flow.WarehouseDelivery)
	suite.Require().NoError(txn.RecordPackageStatus(kernel.NewUUID(), flow.StatusCheckout))
	suite.Require().NoError(txn.RecordPackageStatus(kernel.NewUUID(), flow.StatusCheckout))
	suite.Require().NoError(suite.txnRepo.Update(context.Background(), txn))

	result, err := suite.handler.Handle(context.Background(),
		suite.newQuery(nil, nil, nil, 1, 10, queries.OrderDesc))

	suite.Require().NoError(err)
	suite.Require().Len(result.Items, 1)
	suite.Equal(2, result.Items[0].PickedCount)
	suite.Equal("PT-1", result.Items[0].Code)
	suite.Equal("IN_PROGRESS", result.Items[0].Status)
	suite.Equal("FORWARDER", result.Items[0].PartyType)
}

func (suite *GetTransactionsQueryHandlerTestSuite) TestHandle_FiltersByPackingListFlowAndStatus() {
	packingListID := kernel.NewUUID()
	suite.seedTransaction("PT-10", packingListID, flow.WarehouseDelivery)
	suite.seedTransaction("PT-11", packingListID, flow.StuffingWarehouse)
	suite.seedTransaction("PT-12", kernel.NewUUID(), flow.WarehouseDelivery)

	flowName := flow.StuffingWarehouse
	result, err := suite.handler.Handle(context.Background(),
		suite.newQuery(&packingListID, &flowName, nil, 1, 10, queries.OrderDesc))

	suite.Require().NoError(err)
	suite.Require().Len(result.Items, 1)
	suite.Equal("PT-11", result.Items[0].Code)
	suite.Equal(int64(1), result.Total)

	status := transaction.InProgress
	result, err = suite.handler.Handle(context.Background(),
		suite.newQuery(&packingListID, nil, &status, 1, 10, queries.OrderDesc))

	suite.Require().NoError(err)
	suite.Len(result.Items, 2)
}

func (suite *GetTransactionsQueryHandlerTestSuite) TestHandle_PaginationAndOrdering() {
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	for i := range 5 {
		suite.seedTransactionAt("PT-2"+string(rune('0'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	result, err := suite.handler.Handle(context.Background(),
		suite.newQuery(nil, nil, nil, 1, 2, queries.OrderAsc))

	suite.Require().NoError(err)
	suite.Equal(int64(5), result.Total)
	suite.Require().Len(result.Items, 2)
	suite.Equal("PT-20", result.Items[0].Code)
	suite.Equal("PT-21", result.Items[1].Code)

	result, err = suite.handler.Handle(context.Background(),
		suite.newQuery(nil, nil, nil, 3, 2, queries.OrderAsc))

	suite.Require().NoError(err)
	suite.Require().Len(result.Items, 1)
	suite.Equal("PT-24", result.Items[0].Code)

	result, err = suite.handler.Handle(context.Background(),
		suite.newQuery(nil, nil, nil, 1, 2, queries.OrderDesc))

	suite.Require().NoError(err)
	suite.Equal("PT-24", result.Items[0].Code)
}

func (suite *GetTransactionsQueryHandlerTestSuite) newQuery(
	packingListID *kernel.UUID,
	flowName *string,
	status *transaction.Status,
	page, pageSize int,
	order string,
) queries.GetTransactionsQuery {
	query, err := queries.NewGetTransactionsQuery(packingListID, flowName, status, page, pageSize, order)
	suite.Require().NoError(err)
	return query
}

func (suite *GetTransactionsQueryHandlerTestSuite) seedTransaction(
	code string, packingListID kernel.UUID, flowName string,
) *transaction.PackageTransaction {
	txn, err := transaction.NewPackageTransaction(
		kernel.NewUUID(), code, packingListID, flowName,
		"Acme Logistics", transaction.PartyTypeForwarder,
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.txnRepo.Add(context.Background(), txn))
	return txn
}

func (suite *GetTransactionsQueryHandlerTestSuite) seedTransactionAt(code string, createdAt time.Time) {
	txn, err := transaction.NewPackageTransaction(
		kernel.NewUUID(), code, kernel.NewUUID(), flow.WarehouseDelivery,
		"Acme Logistics", transaction.PartyTypeForwarder, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.txnRepo.Add(context.Background(), txn))
}

func TestGetTransactionsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetTransactionsQueryHandlerTestSuite))
}
