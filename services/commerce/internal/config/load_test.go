package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("MISSING_PRICE_POLICY", "reject")
	t.Setenv("ORDER_READ_POLICY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, service.MissingPriceReject, cfg.MissingPrice())
	assert.Equal(t, service.OrderReadAny, cfg.OrderRead())

	t.Setenv("ORDER_READ_POLICY", "owner")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, service.OrderReadOwner, cfg.OrderRead())
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/commerce")
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_DRIVER")

	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("MISSING_PRICE_POLICY", "guess")
	_, err = Load()
	assert.ErrorContains(t, err, "MISSING_PRICE_POLICY")

	t.Setenv("MISSING_PRICE_POLICY", "zero")
	t.Setenv("ORDER_READ_POLICY", "everyone")
	_, err = Load()
	assert.ErrorContains(t, err, "ORDER_READ_POLICY")
}
