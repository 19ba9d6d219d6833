package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"freightops/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleTransactionJob *StaleTransactionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	staleHandler queries.GetStaleTransactionsQueryHandler,
	staleMaxAge time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleTransactionJob: NewStaleTransactionJob(staleHandler, staleMaxAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleTransactionJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale transaction job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleTransactionJob.Stop()
}
