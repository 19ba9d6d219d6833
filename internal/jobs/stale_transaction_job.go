package jobs

import (
	"context"
	"log/slog"
	"time"

	"freightops/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// staleBatchLimit caps how many stale transactions are reported per run.
const staleBatchLimit = 100

// StaleTransactionJob watches for transactions stuck in progress. Runs hourly
// and logs every transaction older than the configured age so operators can
// follow up with the warehouse party before the packing list is blocked
// indefinitely.
type StaleTransactionJob struct {
	handler queries.GetStaleTransactionsQueryHandler
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleTransactionJob creates a watchdog for transactions older than maxAge.
func NewStaleTransactionJob(
	handler queries.GetStaleTransactionsQueryHandler,
	maxAge time.Duration,
	logger *slog.Logger,
) *StaleTransactionJob {
	return &StaleTransactionJob{
		handler: handler,
		maxAge:  maxAge,
		cron:    cron.New(),
		logger:  logger.With("component", "stale_transaction_job"),
	}
}

// Start begins the watchdog to run at the top of every hour.
func (j *StaleTransactionJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Stale transaction job started (running hourly)", "maxAge", j.maxAge)
	return nil
}

// Stop stops the watchdog.
func (j *StaleTransactionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale transaction job stopped")
}

func (j *StaleTransactionJob) run() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-j.maxAge)
	query, err := queries.NewGetStaleTransactionsQuery(cutoff, staleBatchLimit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale transaction job misconfigured", "error", err)
		return
	}

	stale, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale transaction check failed", "error", err)
		return
	}

	for _, txn := range stale {
		j.logger.WarnContext(ctx, "Transaction stuck in progress",
			"transactionId", txn.ID,
			"code", txn.Code,
			"flow", txn.FlowName,
			"packingListId", txn.PackingListID,
			"createdAt", txn.CreatedAt)
	}
}
