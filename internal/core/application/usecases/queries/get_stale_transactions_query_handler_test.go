package queries_test

import (
	"context"
	"testing"
	"time"

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

type GetStaleTransactionsQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetStaleTransactionsQueryHandler
	txnRepo   *transactionrepo.GormTransactionRepository
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) SetupSuite() {
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
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetStaleTransactionsQueryHandler(db)
	suite.txnRepo = transactionrepo.NewGormTransactionRepository(db, &mockAggregateTracker{})
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE package_transactions, transaction_packages, transaction_step_records").Error)
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) TestHandle_ReturnsOnlyStaleInProgress() {
	now := time.Now().UTC()

	suite.seedInProgress("PT-1", now.Add(-100*time.Hour))
	suite.seedInProgress("PT-2", now.Add(-80*time.Hour))
	suite.seedInProgress("PT-3", now.Add(-time.Hour))
	suite.seedDone("PT-4", now.Add(-100*time.Hour))

	query, err := queries.NewGetStaleTransactionsQuery(now.Add(-72*time.Hour), 10)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	// Oldest first.
	suite.Equal("PT-1", result[0].Code)
	suite.Equal("PT-2", result[1].Code)
	suite.Equal("IN_PROGRESS", result[0].Status)
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) TestHandle_HonorsLimit() {
	now := time.Now().UTC()
	suite.seedInProgress("PT-5", now.Add(-100*time.Hour))
	suite.seedInProgress("PT-6", now.Add(-90*time.Hour))

	query, err := queries.NewGetStaleTransactionsQuery(now.Add(-72*time.Hour), 1)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("PT-5", result[0].Code)
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) seedInProgress(code string, createdAt time.Time) {
	txn, err := transaction.RestorePackageTransaction(
		kernel.NewUUID(), code, kernel.NewUUID(), flow.WarehouseDelivery,
		"Acme Logistics", transaction.PartyTypeForwarder,
		transaction.InProgress, nil, nil,
		createdAt.Truncate(time.Microsecond), nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.txnRepo.Add(context.Background(), txn))
}

func (suite *GetStaleTransactionsQueryHandlerTestSuite) seedDone(code string, createdAt time.Time) {
	claim, err := transaction.NewClaimedPackage(kernel.NewUUID(), flow.StatusDelivered)
	suite.Require().NoError(err)

	endedAt := createdAt.Add(time.Hour).Truncate(time.Microsecond)
	txn, err := transaction.RestorePackageTransaction(
		kernel.NewUUID(), code, kernel.NewUUID(), flow.WarehouseDelivery,
		"Acme Logistics", transaction.PartyTypeForwarder,
		transaction.Done, []transaction.ClaimedPackage{claim}, nil,
		createdAt.Truncate(time.Microsecond), &endedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.txnRepo.Add(context.Background(), txn))
}

func TestGetStaleTransactionsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetStaleTransactionsQueryHandlerTestSuite))
}
