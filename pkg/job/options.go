package job

import (
	"context"
	"log/slog"
)

// config collects manager construction settings.
type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []scheduleConfig
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// scheduledHandler runs a periodic task; there is no payload.
type scheduledHandler func(ctx context.Context) error

// scheduleConfig pairs a scheduled task with its cron expression.
type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

// Option configures the job manager.
type Option func(*config)

// WithTask registers a one-off task handler. The task needs Name() and
// Handle(ctx, P); the payload type P is inferred from Handle and
// decoded from the queued JSON.
//
// Example:
//
//	type DonationReceipt struct{ ... }
//
//	func (t *DonationReceipt) Name() string { return "donation_receipt" }
//	func (t *DonationReceipt) Handle(ctx context.Context, p DonationReceiptPayload) error { ... }
//
//	job.WithTask(tasks.NewDonationReceipt(donations, mail))
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), newTaskWrapper[P, T](task))
	}
}

// WithScheduledTask registers a periodic task. The task needs Name(),
// Schedule() returning a 5-field cron expression, and Handle(ctx).
//
// Example:
//
//	func (t *SessionSweep) Name() string     { return "session_sweep" }
//	func (t *SessionSweep) Schedule() string { return "10 * * * *" }
//	func (t *SessionSweep) Handle(ctx context.Context) error { ... }
//
//	job.WithScheduledTask(tasks.NewSessionSweep(store, log))
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithQueue declares a named queue with its own worker count. Tasks
// land there via the InQueue enqueue option.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sets the worker count for the default queue.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithLogger sets the logger for worker activity. Without it, worker
// logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
