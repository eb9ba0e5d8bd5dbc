package push

import (
	"fmt"
	"time"
)

// Config holds push gateway settings.
type Config struct {
	GatewayURL     string        `env:"PUSH_GATEWAY_URL"`
	GatewayAPIKey  string        `env:"PUSH_GATEWAY_API_KEY"`
	GatewayTimeout time.Duration `env:"PUSH_GATEWAY_TIMEOUT" envDefault:"10s"`
}

func (c *Config) applyDefaults() {
	if c.GatewayTimeout <= 0 {
		c.GatewayTimeout = 10 * time.Second
	}
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.GatewayURL == "" {
		return fmt.Errorf("%w: gateway URL is required", ErrInvalidConfig)
	}
	if c.GatewayAPIKey == "" {
		return fmt.Errorf("%w: gateway API key is required", ErrInvalidConfig)
	}
	return nil
}
