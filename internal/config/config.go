package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/backend"
)

const envPrefix = "pricing"

// Config is read from PRICING_* environment variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	RulesDir       string        `envconfig:"RULES_DIR" default:"pkg/rules"`
	RulesVersion   string        `envconfig:"RULES_VERSION" default:"v1"`
	DeliveryFee    int64         `envconfig:"DELIVERY_FEE" default:"900"`
	BackendURL     string        `envconfig:"BACKEND_URL"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"3s"`

	BreakerMaxRequests uint32        `envconfig:"BREAKER_MAX_REQUESTS" default:"3"`
	BreakerInterval    time.Duration `envconfig:"BREAKER_INTERVAL" default:"15s"`
	BreakerTimeout     time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	if c.DeliveryFee < 0 {
		return nil, errors.Errorf("delivery fee must not be negative, got %d", c.DeliveryFee)
	}
	return &c, nil
}

func (c *Config) DefaultDeliveryFee() domain.Money {
	return domain.Money(c.DeliveryFee)
}

func (c *Config) Backend() backend.Config {
	return backend.Config{
		BaseURL: c.BackendURL,
		Timeout: c.BackendTimeout,
		Breaker: backend.BreakerSettings{
			MaxRequests: c.BreakerMaxRequests,
			Interval:    c.BreakerInterval,
			Timeout:     c.BreakerTimeout,
		},
	}
}
