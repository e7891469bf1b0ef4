package web

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ellarises/webapp/pkg/job"
)

// JobEnqueuer is the enqueue surface exposed to request contexts. It
// delegates to the job manager so task names are validated against the
// registry at enqueue time, not inside a worker.
type JobEnqueuer struct {
	manager *job.Manager
}

// Enqueue adds a job to the queue.
func (je *JobEnqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error {
	return je.manager.Enqueue(ctx, name, payload, opts...)
}

// EnqueueTx adds a job to the queue within a transaction.
func (je *JobEnqueuer) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error {
	return je.manager.EnqueueTx(ctx, tx, name, payload, opts...)
}

// JobManager wraps the pkg/job.Manager for internal use.
type JobManager struct {
	manager *job.Manager
}

// NewJobManager creates a new JobManager with the given pool and options.
func NewJobManager(pool *pgxpool.Pool, opts ...job.Option) (*JobManager, error) {
	m, err := job.NewManager(pool, opts...)
	if err != nil {
		return nil, err
	}
	return &JobManager{manager: m}, nil
}

// Start begins job processing.
func (jm *JobManager) Start(ctx context.Context) error {
	return jm.manager.Start(ctx)
}

// Stop gracefully shuts down job processing.
func (jm *JobManager) Stop(ctx context.Context) error {
	return jm.manager.Stop(ctx)
}

// Manager returns the underlying job.Manager.
func (jm *JobManager) Manager() *job.Manager {
	return jm.manager
}

// Shutdown returns a shutdown function for the job manager.
func (jm *JobManager) Shutdown() func(context.Context) error {
	return jm.manager.Shutdown()
}
