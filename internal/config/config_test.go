package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 600, cfg.Business.MinCreditScore)
	assert.True(t, cfg.GetMaxDebtToIncome().Equal(decimal.RequireFromString("0.4")))
	assert.Equal(t, 72*time.Hour, cfg.Scheduler.PendingStaleAfter)
	assert.True(t, cfg.IsDevelopment())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		Name:     "loan_system",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=loan_system sslmode=disable",
		db.DSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Name: "loan_system"},
			Business: BusinessConfig{MinCreditScore: 600, MaxDebtToIncome: "0.4"},
			Scheduler: SchedulerConfig{
				PendingSweepSpec:  "0 0 * * * *",
				PendingStaleAfter: 72 * time.Hour,
			},
		}
	}

	assert.NoError(t, valid().Validate())

	noPort := valid()
	noPort.Server.Port = ""
	assert.Error(t, noPort.Validate())

	badRatio := valid()
	badRatio.Business.MaxDebtToIncome = "forty percent"
	assert.Error(t, badRatio.Validate())

	badStale := valid()
	badStale.Scheduler.PendingStaleAfter = 0
	assert.Error(t, badStale.Validate())
}
