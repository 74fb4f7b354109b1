package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("CHECKOUT_POLL_INTERVAL", "")

	cfg := FromEnv()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, defaultMySQLDSN, cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Checkout.PollInterval)
	assert.Equal(t, 0.01, cfg.Checkout.ClaimAmount)
	assert.Equal(t, "admin@admin.com", cfg.Admin.Email)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CHECKOUT_POLL_INTERVAL", "250ms")
	t.Setenv("CLAIM_AMOUNT", "12.5")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, defaultSQLiteDSN, cfg.Database.DSN)
	assert.Equal(t, 250*time.Millisecond, cfg.Checkout.PollInterval)
	assert.Equal(t, 12.5, cfg.Checkout.ClaimAmount)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 10, cfg.Rate.Burst)
}
