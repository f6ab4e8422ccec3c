package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/glazeworks/window-storefront/api/controllers"
	"github.com/glazeworks/window-storefront/api/routes"
	"github.com/glazeworks/window-storefront/internal/calculator"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/cron"
	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/quote"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	"github.com/glazeworks/window-storefront/pkg/config"
	"github.com/glazeworks/window-storefront/pkg/db"
	"github.com/glazeworks/window-storefront/pkg/logger"
	"github.com/glazeworks/window-storefront/pkg/metrics"
	"github.com/glazeworks/window-storefront/pkg/migrate"
	"github.com/glazeworks/window-storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	readiness := map[string]controllers.Pinger{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	api := storeapi.NewClient(cfg.Backend, upstreamMetrics)
	readiness["backend"] = controllers.PingFunc(api.Health)

	var calculations cart.CalculationStore = cart.NewMemoryCalculations(cfg.Calculation.TTL)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient)
		readiness["redis"] = redisClient
		calculations = cart.NewRedisCalculations(redisClient, cfg.Calculation.TTL, redis.IsNil)
	} else {
		logg.Info(ctx, "redis not configured, keeping calculations in memory")
	}

	var ledger quote.Ledger
	var ledgerRepo *quote.Repository
	if cfg.DB.Enabled() {
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient)
		readiness["db"] = dbClient

		if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}
		ledgerRepo = quote.NewRepository(dbClient.DB())
		ledger = ledgerRepo
	} else {
		logg.Info(ctx, "ledger database not configured, quote exports are not recorded")
	}

	cartClient, err := cart.NewClient(api, calculations, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart client", err)
		os.Exit(1)
	}
	calc := calculator.New(api, calculations, logg)
	exporter := quote.NewExporter(quote.Options{
		PublicURL:     cfg.App.PublicURL,
		PagePath:      cfg.Quote.PagePath,
		WhatsAppPhone: cfg.Quote.WhatsAppPhone,
	}, ledger, logg)
	resolver := identity.NewResolver(logg)

	if cfg.Maintenance.Enabled {
		maintenance, err := newMaintenance(cfg, logg, registry, api, ledgerRepo, redisClient)
		if err != nil {
			logg.Error(ctx, "failed to create maintenance scheduler", err)
			os.Exit(1)
		}
		// The first cycle runs immediately and wakes the pricing backend.
		go func() {
			_ = maintenance.Run(ctx)
		}()
	} else {
		go func() {
			if err := api.Health(context.WithoutCancel(ctx)); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "backend.wake_failed")
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": api.BaseURL(),
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			readiness,
			api,
			resolver,
			cartClient,
			calc,
			exporter,
			redisClient,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "storefront shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	if err := closeAll(closers); err != nil {
		logg.Error(ctx, "error closing resources", err)
		exitCode = 1
	}
	stop()
	os.Exit(exitCode)
}

func newMaintenance(
	cfg *config.Config,
	logg *logger.Logger,
	registry prometheus.Registerer,
	api *storeapi.Client,
	ledgerRepo *quote.Repository,
	redisClient *redis.Client,
) (*cron.Service, error) {
	warmup, err := cron.NewWarmupJob(cron.WarmupJobParams{Logger: logg, Backend: api})
	if err != nil {
		return nil, err
	}
	jobs := cron.NewRegistry(warmup)
	if ledgerRepo != nil {
		retention, err := cron.NewLedgerRetentionJob(cron.LedgerRetentionJobParams{
			Logger:     logg,
			Repository: ledgerRepo,
			Retention:  cfg.Maintenance.LedgerRetentionDays,
		})
		if err != nil {
			return nil, err
		}
		jobs.Register(retention)
	}

	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("maintenance", cfg.App.Env), cfg.Maintenance.Interval)
		if err != nil {
			return nil, err
		}
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.Maintenance.Interval,
	})
}

// closeAll closes in reverse order of acquisition and reports every failure.
func closeAll(closers []io.Closer) error {
	var errs error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, closers[i].Close())
	}
	return errs
}
