package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Logging.Level)
	}
	if cfg.Pickup.Location == nil || cfg.Pickup.Location.String() != "Asia/Jerusalem" {
		t.Errorf("expected Asia/Jerusalem location, got %v", cfg.Pickup.Location)
	}
	if cfg.Pickup.MinLeadTime != 24*time.Hour {
		t.Errorf("unexpected lead time: %s", cfg.Pickup.MinLeadTime)
	}
	if cfg.Pickup.SlotCacheTTL != 5*time.Minute {
		t.Errorf("unexpected cache ttl: %s", cfg.Pickup.SlotCacheTTL)
	}
	if cfg.Pickup.Tolerance != 5*time.Second {
		t.Errorf("unexpected tolerance: %s", cfg.Pickup.Tolerance)
	}
	if cfg.Pickup.CalendarFile != "" {
		t.Errorf("expected no calendar file, got %s", cfg.Pickup.CalendarFile)
	}
	if cfg.Statistics.DefaultRange != "this_month" {
		t.Errorf("unexpected default range: %s", cfg.Statistics.DefaultRange)
	}
	if cfg.Statistics.PopularLimit != 5 || cfg.Statistics.SeasonalityMonths != 12 {
		t.Errorf("unexpected statistics defaults: %+v", cfg.Statistics)
	}
	if !cfg.Features.FixturesEnabled {
		t.Errorf("expected fixtures enabled by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"BAKERY_SERVER_PORT":              "9090",
		"BAKERY_SERVER_IDLE_TIMEOUT":      "2m",
		"BAKERY_LOG_LEVEL":                "DEBUG",
		"BAKERY_PICKUP_TIMEZONE":          "UTC",
		"BAKERY_PICKUP_MIN_LEAD_TIME":     "48h",
		"BAKERY_PICKUP_SLOT_CACHE_TTL":    "1m",
		"BAKERY_PICKUP_TOLERANCE":         "0s",
		"BAKERY_PICKUP_CALENDAR_FILE":     "/etc/bakery/calendar.yaml",
		"BAKERY_STATS_DEFAULT_RANGE":      "last_30_days",
		"BAKERY_STATS_POPULAR_LIMIT":      "10",
		"BAKERY_STATS_SEASONALITY_MONTHS": "24",
		"BAKERY_FIXTURES_ENABLED":         "off",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Pickup.Location != time.UTC {
		t.Errorf("expected UTC, got %v", cfg.Pickup.Location)
	}
	if cfg.Pickup.MinLeadTime != 48*time.Hour || cfg.Pickup.SlotCacheTTL != time.Minute || cfg.Pickup.Tolerance != 0 {
		t.Errorf("unexpected pickup config: %+v", cfg.Pickup)
	}
	if cfg.Pickup.CalendarFile != "/etc/bakery/calendar.yaml" {
		t.Errorf("unexpected calendar file: %s", cfg.Pickup.CalendarFile)
	}
	if cfg.Statistics.DefaultRange != "last_30_days" || cfg.Statistics.PopularLimit != 10 || cfg.Statistics.SeasonalityMonths != 24 {
		t.Errorf("unexpected statistics config: %+v", cfg.Statistics)
	}
	if cfg.Features.FixturesEnabled {
		t.Errorf("expected fixtures disabled")
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"BAKERY_LOG_LEVEL":                "verbose",
		"BAKERY_LOG_FILE":                 "/var/log/bakery/storefront.log",
		"BAKERY_LOG_MAX_SIZE_MB":          "0",
		"BAKERY_PICKUP_TIMEZONE":          "Mars/Olympus",
		"BAKERY_PICKUP_MIN_LEAD_TIME":     "-1h",
		"BAKERY_STATS_DEFAULT_RANGE":      "forever",
		"BAKERY_STATS_POPULAR_LIMIT":      "0",
		"BAKERY_STATS_SEASONALITY_MONTHS": "120",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	want := []string{
		"Logging.Level",
		"Logging.MaxSizeMB",
		"Pickup.Timezone",
		"Pickup.MinLeadTime",
		"Statistics.DefaultRange",
		"Statistics.PopularLimit",
		"Statistics.SeasonalityMonths",
	}
	if got := vErr.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected fields: %v", got)
	}
}

func TestLoadUsesDotEnvBelowExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport BAKERY_SERVER_PORT=7070\nBAKERY_STATS_POPULAR_LIMIT=\"8\"\nBAKERY_PICKUP_TIMEZONE=UTC\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"BAKERY_STATS_POPULAR_LIMIT": "3"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Statistics.PopularLimit != 3 {
		t.Errorf("expected env map to win over .env, got %d", cfg.Statistics.PopularLimit)
	}
	if cfg.Pickup.Location != time.UTC {
		t.Errorf("expected UTC from .env, got %v", cfg.Pickup.Location)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
