package syncqueue

import "time"

// Config groups executor tunables. Zero values fall back to defaults.
type Config struct {
	Shards         int
	QueueSize      int
	EnqueueTimeout time.Duration

	MaxAttempts int
	BaseBackoff time.Duration
	MaxInterval time.Duration

	// AttemptTimeout bounds a single remote call.
	AttemptTimeout time.Duration

	// ErrorHandler is called synchronously after a job gives up.
	ErrorHandler func(error)
}

func (c Config) withDefaults() Config {
	if c.Shards <= 0 {
		c.Shards = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 128
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 100 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 20 * time.Second
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	return c
}
