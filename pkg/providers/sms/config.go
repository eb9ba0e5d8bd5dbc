package sms

import "time"

// Config holds the text-message channel tunables. CostPerMessage is
// the fixed per-send cost charged against the daily cost ceiling.
type Config struct {
	GatewayURL     string        `env:"SMS_GATEWAY_URL"`
	GatewayAPIKey  string        `env:"SMS_GATEWAY_API_KEY"`
	GatewayTimeout time.Duration `env:"SMS_GATEWAY_TIMEOUT" envDefault:"5s"`

	HourlyLimit    int     `env:"SMS_HOURLY_LIMIT" envDefault:"10"`
	DailyCostLimit float64 `env:"SMS_DAILY_COST_LIMIT" envDefault:"1.00"`
	CostPerMessage float64 `env:"SMS_COST_PER_MESSAGE" envDefault:"0.01"`

	// CharBudget caps the formatted message length, body truncated
	// with an ellipsis when it would overflow.
	CharBudget int `env:"SMS_CHAR_BUDGET" envDefault:"160"`
}

func (c *Config) applyDefaults() {
	if c.GatewayTimeout == 0 {
		c.GatewayTimeout = 5 * time.Second
	}
	if c.HourlyLimit == 0 {
		c.HourlyLimit = 10
	}
	if c.DailyCostLimit == 0 {
		c.DailyCostLimit = 1.00
	}
	if c.CostPerMessage == 0 {
		c.CostPerMessage = 0.01
	}
	if c.CharBudget == 0 {
		c.CharBudget = 160
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.HourlyLimit < 0 || c.DailyCostLimit < 0 || c.CostPerMessage < 0 || c.CharBudget < 16 {
		return ErrInvalidConfig
	}
	return nil
}
