package cmd

import (
	"log/slog"
	"time"

	"freightops/internal/adapters/out/postgres"
	"freightops/internal/adapters/out/queue"
	"freightops/internal/core/application/usecases/commands"
	"freightops/internal/core/application/usecases/queries"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/ports"
	"freightops/internal/jobs"
	"freightops/internal/pkg/sequence"

	"gorm.io/gorm"
)

// defaultStaleMaxAge is used when STALE_TRANSACTION_MAX_AGE is not set.
const defaultStaleMaxAge = 72 * time.Hour

type CompositionRoot struct {
	gormDB        *gorm.DB
	uowFactory    postgres.GormUnitOfWorkFactory
	flowRegistry  *flow.Registry
	codeGenerator *sequence.SonyflakeCodeGenerator
	publisher     ports.TransactionEventPublisher
	staleMaxAge   time.Duration
	logger        *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	flowRegistry, err := flow.NewRegistry()
	if err != nil {
		return CompositionRoot{}, err
	}

	var publisher ports.TransactionEventPublisher
	if config.KafkaHost != "" {
		publisher, err = queue.NewKafkaTransactionEventPublisher(
			[]string{config.KafkaHost}, config.KafkaTransactionEventTopic, logger)
		if err != nil {
			return CompositionRoot{}, err
		}
	} else {
		publisher = queue.NewNoopTransactionEventPublisher(logger)
	}

	staleMaxAge := defaultStaleMaxAge
	if config.StaleTransactionMaxAge != "" {
		staleMaxAge, err = time.ParseDuration(config.StaleTransactionMaxAge)
		if err != nil {
			return CompositionRoot{}, err
		}
	}

	codeGenerator, err := sequence.NewSonyflakeCodeGenerator()
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		flowRegistry:  flowRegistry,
		codeGenerator: codeGenerator,
		publisher:     publisher,
		staleMaxAge:   staleMaxAge,
		logger:        logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateTransactionCommandHandler() commands.CreateTransactionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateTransactionCommandHandler(f, c.flowRegistry, c.codeGenerator, c.publisher)
}

func (c *CompositionRoot) CreateExecuteStepCommandHandler() commands.ExecuteStepCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewExecuteStepCommandHandler(f, c.flowRegistry, c.publisher)
}

func (c *CompositionRoot) CreateCompleteTransactionCommandHandler() commands.CompleteTransactionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteTransactionCommandHandler(f, c.flowRegistry, c.publisher)
}

func (c *CompositionRoot) CreateDeleteTransactionCommandHandler() commands.DeleteTransactionCommandHandler {
	var f commands.TransactionUoWFactory = FuncTransactionUoWFactory(func() commands.TransactionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeleteTransactionCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) FlowRegistry() ports.FlowRegistry {
	return c.flowRegistry
}

func (c *CompositionRoot) CreateGetTransactionsQueryHandler() queries.GetTransactionsQueryHandler {
	return queries.NewGetTransactionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailablePackagesQueryHandler() queries.GetAvailablePackagesQueryHandler {
	return queries.NewGetAvailablePackagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStaleTransactionsQueryHandler() queries.GetStaleTransactionsQueryHandler {
	return queries.NewGetStaleTransactionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateGetStaleTransactionsQueryHandler(), c.staleMaxAge, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTransactionUoWFactory func() commands.TransactionUoW

func (f FuncTransactionUoWFactory) Create() commands.TransactionUoW {
	return f()
}
