package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 100
	defaultLogMaxAgeDays     = 7
	defaultTimezone          = "Asia/Jerusalem"
	defaultMinLeadTime       = 24 * time.Hour
	defaultSlotCacheTTL      = 5 * time.Minute
	defaultPickupTolerance   = 5 * time.Second
	defaultStatsRange        = "this_month"
	defaultPopularLimit      = 5
	defaultSeasonalityMonths = 12
	maxSeasonalityMonths     = 36
)

var statsRangeKeys = map[string]struct{}{
	"this_month":   {},
	"last_30_days": {},
	"last_90_days": {},
	"this_year":    {},
}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Pickup     PickupConfig
	Statistics StatisticsConfig
	Features   FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoggingConfig selects the zap level and an optional rotating log file.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

// PickupConfig drives the business calendar and the slot finder.
type PickupConfig struct {
	Timezone     string
	Location     *time.Location
	MinLeadTime  time.Duration
	SlotCacheTTL time.Duration
	Tolerance    time.Duration
	CalendarFile string
}

// StatisticsConfig holds defaults for the admin statistics report.
type StatisticsConfig struct {
	DefaultRange      string
	PopularLimit      int
	SeasonalityMonths int
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	FixturesEnabled bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the storefront configuration by combining defaults, .env overrides
// and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "BAKERY_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "BAKERY_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "BAKERY_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "BAKERY_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Logging: LoggingConfig{
			Level:      strings.ToLower(stringWithDefault(lookup, "BAKERY_LOG_LEVEL", defaultLogLevel)),
			File:       stringWithDefault(lookup, "BAKERY_LOG_FILE", ""),
			MaxSizeMB:  intWithDefault(lookup, "BAKERY_LOG_MAX_SIZE_MB", defaultLogMaxSizeMB),
			MaxAgeDays: intWithDefault(lookup, "BAKERY_LOG_MAX_AGE_DAYS", defaultLogMaxAgeDays),
		},
		Pickup: PickupConfig{
			Timezone:     stringWithDefault(lookup, "BAKERY_PICKUP_TIMEZONE", defaultTimezone),
			MinLeadTime:  durationWithDefault(lookup, "BAKERY_PICKUP_MIN_LEAD_TIME", defaultMinLeadTime),
			SlotCacheTTL: durationWithDefault(lookup, "BAKERY_PICKUP_SLOT_CACHE_TTL", defaultSlotCacheTTL),
			Tolerance:    durationWithDefault(lookup, "BAKERY_PICKUP_TOLERANCE", defaultPickupTolerance),
			CalendarFile: stringWithDefault(lookup, "BAKERY_PICKUP_CALENDAR_FILE", ""),
		},
		Statistics: StatisticsConfig{
			DefaultRange:      strings.ToLower(stringWithDefault(lookup, "BAKERY_STATS_DEFAULT_RANGE", defaultStatsRange)),
			PopularLimit:      intWithDefault(lookup, "BAKERY_STATS_POPULAR_LIMIT", defaultPopularLimit),
			SeasonalityMonths: intWithDefault(lookup, "BAKERY_STATS_SEASONALITY_MONTHS", defaultSeasonalityMonths),
		},
		Features: FeatureFlags{
			FixturesEnabled: boolWithDefault(lookup, "BAKERY_FIXTURES_ENABLED", true),
		},
	}

	if loc, err := time.LoadLocation(cfg.Pickup.Timezone); err == nil {
		cfg.Pickup.Location = loc
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		missing = append(missing, "Logging.Level")
	}
	if cfg.Logging.File != "" && cfg.Logging.MaxSizeMB <= 0 {
		missing = append(missing, "Logging.MaxSizeMB")
	}
	if cfg.Pickup.Location == nil {
		missing = append(missing, "Pickup.Timezone")
	}
	if cfg.Pickup.MinLeadTime <= 0 {
		missing = append(missing, "Pickup.MinLeadTime")
	}
	if cfg.Pickup.SlotCacheTTL <= 0 {
		missing = append(missing, "Pickup.SlotCacheTTL")
	}
	if cfg.Pickup.Tolerance < 0 {
		missing = append(missing, "Pickup.Tolerance")
	}
	if _, ok := statsRangeKeys[cfg.Statistics.DefaultRange]; !ok {
		missing = append(missing, "Statistics.DefaultRange")
	}
	if cfg.Statistics.PopularLimit <= 0 {
		missing = append(missing, "Statistics.PopularLimit")
	}
	if cfg.Statistics.SeasonalityMonths <= 0 || cfg.Statistics.SeasonalityMonths > maxSeasonalityMonths {
		missing = append(missing, "Statistics.SeasonalityMonths")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
