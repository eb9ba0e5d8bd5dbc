package queue

import (
	"fmt"
	"time"
)

// Config holds delivery queue settings.
type Config struct {
	MaxPending         int             `env:"QUEUE_MAX_PENDING" envDefault:"1000"`
	MaxConcurrent      int             `env:"QUEUE_MAX_CONCURRENT" envDefault:"4"`
	MaxAttempts        int             `env:"QUEUE_MAX_ATTEMPTS" envDefault:"3"`
	TickInterval       time.Duration   `env:"QUEUE_TICK_INTERVAL" envDefault:"250ms"`
	DeadLetterCapacity int             `env:"QUEUE_DEAD_LETTER_CAPACITY" envDefault:"100"`
	RetryDelays        []time.Duration `env:"QUEUE_RETRY_DELAYS" envDefault:"1s,5s,30s,2m,10m"`
}

func (c *Config) applyDefaults() {
	if c.MaxPending <= 0 {
		c.MaxPending = 1000
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 250 * time.Millisecond
	}
	if c.DeadLetterCapacity <= 0 {
		c.DeadLetterCapacity = 100
	}
	if len(c.RetryDelays) == 0 {
		c.RetryDelays = []time.Duration{
			time.Second,
			5 * time.Second,
			30 * time.Second,
			2 * time.Minute,
			10 * time.Minute,
		}
	}
}

// Validate checks the configuration for values defaults cannot repair.
func (c Config) Validate() error {
	for i, d := range c.RetryDelays {
		if d <= 0 {
			return fmt.Errorf("%w: retry delay %d must be positive", ErrInvalidConfig, i)
		}
	}
	return nil
}

// retryDelay returns the backoff before the given attempt number
// (1-based). Attempts beyond the configured ladder reuse the last rung.
func (c Config) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	idx := attempt - 1
	if idx >= len(c.RetryDelays) {
		idx = len(c.RetryDelays) - 1
	}
	return c.RetryDelays[idx]
}
