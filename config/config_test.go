package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "reservations.db", cfg.DBDSN)
	assert.Equal(t, 90, cfg.DefaultDurationMinutes)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 12*time.Hour, cfg.StaffTokenTTL)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 30*time.Second, cfg.StatusMonitorInterval)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PORT":                     "9000",
		"DB_DRIVER":                "MySQL",
		"DB_DSN":                   "user:pass@tcp(localhost:3306)/reservas?parseTime=true",
		"DEFAULT_DURATION_MINUTES": "120",
		"VENUE_TIMEZONE":           "America/Sao_Paulo",
		"STAFF_TOKEN_TTL":          "1h",
		"LOG_LEVEL":                "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 120, cfg.DefaultDurationMinutes)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
	assert.Equal(t, time.Hour, cfg.StaffTokenTTL)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestFromEnvReportsEveryInvalidValue(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{
		"DB_DRIVER":                "postgres",
		"DEFAULT_DURATION_MINUTES": "-5",
		"VENUE_TIMEZONE":           "Mars/Olympus",
		"RATE_LIMIT_RPS":           "fast",
		"STATUS_MONITOR_INTERVAL":  "soon",
	}))
	require.Error(t, err)

	for _, key := range []string{"DB_DRIVER", "DEFAULT_DURATION_MINUTES", "VENUE_TIMEZONE", "RATE_LIMIT_RPS", "STATUS_MONITOR_INTERVAL"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestInitDBSQLite(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := InitDB(&Config{DBDriver: DriverSQLite, DBDSN: "file::memory:"}, log)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	_, err = InitDB(&Config{DBDriver: "oracle"}, log)
	assert.Error(t, err)
}
