package job

import "time"

// enqueueConfig collects per-enqueue settings.
type enqueueConfig struct {
	queue       string
	uniqueKey   string
	maxAttempts int
	uniqueFor   time.Duration
}

// EnqueueOption adjusts how a single task is queued.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the task to a named queue instead of the default one.
// The queue must be declared with WithQueue when the manager is built.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// MaxAttempts caps retries for this task. River's default is 25, which
// is too many for anything a visitor is waiting on.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor deduplicates the task over the given window: if a matching
// task already exists, the insert is skipped. Pair with UniqueKey to
// scope the match, e.g. one receipt per donation ID.
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
	}
}

// UniqueKey scopes UniqueFor deduplication to tasks sharing this key.
func UniqueKey(key string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueKey = key
	}
}
