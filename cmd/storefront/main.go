package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lechem-bakery/storefront/internal/handlers"
	"github.com/lechem-bakery/storefront/internal/orders"
	"github.com/lechem-bakery/storefront/internal/pickup"
	"github.com/lechem-bakery/storefront/internal/platform/config"
	"github.com/lechem-bakery/storefront/internal/platform/observability"
	"github.com/lechem-bakery/storefront/internal/statistics"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var logOpts []observability.LoggerOption
	if cfg.Logging.File != "" {
		logOpts = append(logOpts, observability.WithRotatingFile(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxAgeDays))
	}
	baseLogger, err := observability.NewLogger(cfg.Logging.Level, logOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")
	ctx = observability.WithLogger(ctx, logger)

	calendar, err := buildCalendar(cfg.Pickup)
	if err != nil {
		logger.Fatal("failed to load business calendar", zap.Error(err), zap.String("path", cfg.Pickup.CalendarFile))
	}
	logger.Info("business calendar ready",
		zap.String("timezone", calendar.Location().String()),
		zap.Int("open_days", calendar.OpenDays()),
	)

	finder := pickup.NewSlotFinder(pickup.SlotFinderDeps{
		Calendar: &calendar,
		LeadTime: cfg.Pickup.MinLeadTime,
		Cache:    pickup.NewSlotCache(cfg.Pickup.SlotCacheTTL),
		Logger:   logger.Named("pickup"),
	})
	tolerance := cfg.Pickup.Tolerance
	validator := pickup.NewValidator(pickup.ValidatorDeps{
		Finder:    finder,
		Tolerance: &tolerance,
	})

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	loc := cfg.Pickup.Location
	var source orders.Source
	if cfg.Features.FixturesEnabled {
		source = orders.NewStaticSource(time.Now().In(loc))
		logger.Info("fixture orders enabled")
	}

	defaultRange, _ := statistics.ParseRangeKey(cfg.Statistics.DefaultRange)
	checkoutHandlers := handlers.NewCheckoutHandlers(validator, metrics)
	adminHandlers := handlers.NewAdminHandlers(handlers.AdminDeps{
		Engine:          orders.NewEngine(orders.EngineDeps{Location: loc}),
		Source:          source,
		FixturesEnabled: cfg.Features.FixturesEnabled,
		Location:        loc,
		DefaultRange:    defaultRange,
		Report: statistics.ReportOptions{
			PopularLimit:      cfg.Statistics.PopularLimit,
			SeasonalityMonths: cfg.Statistics.SeasonalityMonths,
		},
		Metrics: metrics,
	})

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfoFromEnv(startedAt)),
		handlers.WithReadinessCheck("calendar", func(context.Context) error {
			if calendar.OpenDays() == 0 {
				return pickup.ErrNoOpenDays
			}
			return nil
		}),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware,
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware,
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCheckoutRoutes(checkoutHandlers.Routes),
		handlers.WithAdminRoutes(adminHandlers.Routes),
	)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("bakery storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildCalendar(cfg config.PickupConfig) (pickup.Calendar, error) {
	path := strings.TrimSpace(cfg.CalendarFile)
	if path == "" {
		return pickup.DefaultCalendar(cfg.Location), nil
	}
	return pickup.LoadCalendarFile(path, cfg.Location)
}

func buildInfoFromEnv(started time.Time) handlers.BuildInfo {
	version := strings.TrimSpace(os.Getenv("BAKERY_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(os.Getenv("BAKERY_BUILD_COMMIT_SHA"))
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(os.Getenv("BAKERY_ENVIRONMENT"))
	if environment == "" {
		environment = "local"
	}
	return handlers.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
		StartedAt:   started,
	}
}
