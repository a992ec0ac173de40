package config

import (
	"github.com/Skotchmaster/commerce/pkg/config"
	"github.com/Skotchmaster/commerce/pkg/db"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
)

type ServiceConfig struct {
	config.Config
}

// Load reads the environment and validates what the commerce service cannot
// run without.
func Load() (ServiceConfig, error) {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if err := config.OneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", db.DriverPostgres, db.DriverSQLite); err != nil {
		return ServiceConfig{}, err
	}
	if err := config.OneOf(cfg.MissingPricePolicy, "MISSING_PRICE_POLICY",
		string(service.MissingPriceZero), string(service.MissingPriceReject)); err != nil {
		return ServiceConfig{}, err
	}
	if err := config.OneOf(cfg.OrderReadPolicy, "ORDER_READ_POLICY",
		string(service.OrderReadAny), string(service.OrderReadOwner)); err != nil {
		return ServiceConfig{}, err
	}

	return ServiceConfig{Config: cfg}, nil
}

// RequireJWT is checked only by commands that serve HTTP.
func (c ServiceConfig) RequireJWT() {
	config.MustNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET")
}

func (c ServiceConfig) MissingPrice() service.MissingPricePolicy {
	return service.MissingPricePolicy(c.MissingPricePolicy)
}

func (c ServiceConfig) OrderRead() service.OrderReadPolicy {
	return service.OrderReadPolicy(c.OrderReadPolicy)
}
