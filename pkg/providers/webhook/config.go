package webhook

import "time"

// Config holds the webhook provider tunables. MaxRetries counts inner
// retries after the first attempt; the delivery queue's outer retries
// multiply with it, so both knobs should be set together when bounding
// the total number of physical sends per target.
type Config struct {
	Timeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"2"`
	RetryDelay time.Duration `env:"WEBHOOK_RETRY_DELAY" envDefault:"500ms"`
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.Timeout < 0 || c.MaxRetries < 0 || c.RetryDelay < 0 {
		return ErrInvalidConfig
	}
	return nil
}
