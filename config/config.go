package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port                   string
	GinMode                string
	DBDriver               string
	DBDSN                  string
	DefaultDurationMinutes int
	Location               *time.Location
	StaffTokenSecret       string
	StaffTokenTTL          time.Duration
	RateLimitRPS           float64
	RateLimitBurst         int
	StatusMonitorInterval  time.Duration
	CORSAllowedOrigin      string
	LogLevel               logrus.Level
}

// Load reads .env (when present) and the environment. Every invalid value is
// reported in the returned error, not just the first one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("Warning: .env file not found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		Port:                   r.str("PORT", "8080"),
		GinMode:                r.str("GIN_MODE", "debug"),
		DBDriver:               strings.ToLower(r.str("DB_DRIVER", DriverSQLite)),
		DBDSN:                  r.str("DB_DSN", "reservations.db"),
		DefaultDurationMinutes: r.positiveInt("DEFAULT_DURATION_MINUTES", 90),
		StaffTokenSecret:       r.str("STAFF_TOKEN_SECRET", ""),
		StaffTokenTTL:          r.duration("STAFF_TOKEN_TTL", 12*time.Hour),
		RateLimitRPS:           r.positiveFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         r.positiveInt("RATE_LIMIT_BURST", 20),
		StatusMonitorInterval:  r.duration("STATUS_MONITOR_INTERVAL", 30*time.Second),
		CORSAllowedOrigin:      r.str("CORS_ALLOWED_ORIGIN", "*"),
		LogLevel:               logrus.InfoLevel,
	}

	switch cfg.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		r.fail("DB_DRIVER", cfg.DBDriver, "must be mysql or sqlite")
	}

	tz := r.str("VENUE_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		r.fail("VENUE_TIMEZONE", tz, err.Error())
		loc = time.UTC
	}
	cfg.Location = loc

	if raw := r.str("LOG_LEVEL", ""); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			r.fail("LOG_LEVEL", raw, err.Error())
		} else {
			cfg.LogLevel = level
		}
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return cfg, nil
}

type reader struct {
	getenv func(string) string
	errs   []error
}

func (r *reader) fail(key, value, reason string) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s=%q: %s", key, value, reason))
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) positiveInt(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		r.fail(key, raw, "must be a positive integer")
		return def
	}
	return n
}

func (r *reader) positiveFloat(key string, def float64) float64 {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		r.fail(key, raw, "must be a positive number")
		return def
	}
	return f
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		r.fail(key, raw, "must be a positive duration such as 30s or 12h")
		return def
	}
	return d
}
