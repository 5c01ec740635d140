// Package config loads and validates application configuration.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file named by FARMLOG_CONFIG, and environment variables. Secrets such
// as DATABASE_URL are only read from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Limits caps store query sizes. See service.Limits.
type Limits struct {
	Candidates  int `yaml:"candidates,omitempty"`
	Scan        int `yaml:"scan,omitempty"`
	Suggestions int `yaml:"suggestions,omitempty"`
	Aggregate   int `yaml:"aggregate,omitempty"`
}

// Config holds all configuration values for the API server and CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the record store: "postgres" (default) or "sqlite".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// SQLitePath is the SQLite database file. Required for sqlite.
	SQLitePath string

	Limits Limits

	// SearchRatePerSec throttles live search store round trips per session.
	// Zero disables throttling.
	SearchRatePerSec float64

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// file is the YAML overlay. Pointers distinguish "unset" from zero.
type file struct {
	Port             *string  `yaml:"port,omitempty"`
	LogLevel         *string  `yaml:"log_level,omitempty"`
	CORSOrigins      []string `yaml:"cors_origins,omitempty"`
	StoreDriver      *string  `yaml:"store_driver,omitempty"`
	SQLitePath       *string  `yaml:"sqlite_path,omitempty"`
	Limits           Limits   `yaml:"limits,omitempty"`
	SearchRatePerSec *float64 `yaml:"search_rate_per_sec,omitempty"`
	MaxBodyBytes     *int64   `yaml:"max_body_bytes,omitempty"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		CORSOrigins: []string{"http://localhost:5173"},
		StoreDriver: DriverPostgres,
		Limits: Limits{
			Candidates:  200,
			Scan:        500,
			Suggestions: 10,
			Aggregate:   20,
		},
		MaxBodyBytes: 1 << 20,
	}
}

// Load builds a Config from defaults, the FARMLOG_CONFIG file if set, and
// environment variables. Returns an error listing any required variables
// that are not set, or wrapping domain.ErrValidation for malformed or
// out-of-range values.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("FARMLOG_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	var problems []string
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.Limits.Candidates = getEnvInt("RESOLVE_CANDIDATE_LIMIT", cfg.Limits.Candidates, &problems)
	cfg.Limits.Scan = getEnvInt("RESOLVE_SCAN_LIMIT", cfg.Limits.Scan, &problems)
	cfg.Limits.Suggestions = getEnvInt("SEARCH_SUGGESTION_LIMIT", cfg.Limits.Suggestions, &problems)
	cfg.Limits.Aggregate = getEnvInt("SEARCH_AGGREGATE_LIMIT", cfg.Limits.Aggregate, &problems)
	cfg.SearchRatePerSec = getEnvFloat("SEARCH_RATE_PER_SEC", cfg.SearchRatePerSec, &problems)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes), &problems))

	var missing []string
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.StoreDriver))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	problems = append(problems, cfg.validate()...)
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("config: %w: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}
	return cfg, nil
}

// applyFile overlays the YAML file at path onto c.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setIf(&c.Port, f.Port)
	setIf(&c.LogLevel, f.LogLevel)
	setIf(&c.StoreDriver, f.StoreDriver)
	setIf(&c.SQLitePath, f.SQLitePath)
	setIf(&c.SearchRatePerSec, f.SearchRatePerSec)
	setIf(&c.MaxBodyBytes, f.MaxBodyBytes)
	if len(f.CORSOrigins) > 0 {
		c.CORSOrigins = f.CORSOrigins
	}
	if f.Limits.Candidates != 0 {
		c.Limits.Candidates = f.Limits.Candidates
	}
	if f.Limits.Scan != 0 {
		c.Limits.Scan = f.Limits.Scan
	}
	if f.Limits.Suggestions != 0 {
		c.Limits.Suggestions = f.Limits.Suggestions
	}
	if f.Limits.Aggregate != 0 {
		c.Limits.Aggregate = f.Limits.Aggregate
	}
	return nil
}

func (c Config) validate() []string {
	var problems []string
	bounded := []struct {
		name      string
		v, lo, hi int
	}{
		{"RESOLVE_CANDIDATE_LIMIT", c.Limits.Candidates, 1, 1000},
		{"RESOLVE_SCAN_LIMIT", c.Limits.Scan, 1, 5000},
		{"SEARCH_SUGGESTION_LIMIT", c.Limits.Suggestions, 1, domain.MaxResultLimit},
		{"SEARCH_AGGREGATE_LIMIT", c.Limits.Aggregate, 1, domain.MaxResultLimit},
	}
	for _, b := range bounded {
		if b.v < b.lo || b.v > b.hi {
			problems = append(problems, fmt.Sprintf("%s must be between %d and %d, got %d", b.name, b.lo, b.hi, b.v))
		}
	}
	if c.SearchRatePerSec < 0 {
		problems = append(problems, "SEARCH_RATE_PER_SEC must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return problems
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt is getEnv for integers. Unparseable values are recorded in
// problems and fallback is returned.
func getEnvInt(key string, fallback int, problems *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64, problems *[]string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a number, got %q", key, v))
		return fallback
	}
	return f
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
