// Package main runs the office directory service. Dependencies are wired
// with samber/do; the process shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	gotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ahrav/office-hub/internal/application/directory"
	"github.com/ahrav/office-hub/internal/application/sdk/mux"
	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/uow"
	httpServer "github.com/ahrav/office-hub/internal/infra/adapters/http"
	"github.com/ahrav/office-hub/internal/infra/config"
	"github.com/ahrav/office-hub/internal/infra/metrics"
	"github.com/ahrav/office-hub/internal/infra/storage/breaker"
	employeepg "github.com/ahrav/office-hub/internal/infra/storage/employee/postgres"
	"github.com/ahrav/office-hub/internal/infra/storage/migrate"
	officepg "github.com/ahrav/office-hub/internal/infra/storage/office/postgres"
	"github.com/ahrav/office-hub/internal/infra/storage/pgutil"
	"github.com/ahrav/office-hub/internal/infra/storage/sqlite"
	uowpg "github.com/ahrav/office-hub/internal/infra/storage/uow/postgres"
	"github.com/ahrav/office-hub/pkg/common"
	"github.com/ahrav/office-hub/pkg/common/logger"
	"github.com/ahrav/office-hub/pkg/common/otel"
)

// build is set through ldflags.
var build = "develop"

const serviceName = "office-hub"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), serviceName, otel.GetTraceID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Info(ctx, fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn(ctx, "setting GOMAXPROCS", "error", err)
	}

	log.Info(ctx, "starting office directory service", "build", build, "driver", cfg.Database.Driver)

	tp, otelCleanup, err := otel.InitTelemetry(log, otel.Config{
		Enabled:          cfg.Telemetry.Enabled,
		ServiceName:      cfg.Telemetry.ServiceName,
		ExporterEndpoint: cfg.Telemetry.Endpoint,
		ExcludedRoutes: map[string]struct{}{
			"/api/v1/health/liveness":  {},
			"/api/v1/health/readiness": {},
		},
		Probability:        cfg.Telemetry.SampleRatio,
		ResourceAttributes: map[string]string{"build": build},
		InsecureExporter:   cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		otelCleanup(shutdownCtx)
	}()

	var ready atomic.Bool
	var debugSrv *common.HealthServer
	if cfg.Debug.Enabled {
		if debugSrv, err = common.NewHealthServer(cfg.Debug.Addr, &ready, log); err != nil {
			return err
		}
		debugSrv.Start(ctx)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)
	do.ProvideValue(injector, tp.Tracer(serviceName))
	registerDependencies(injector, cfg)

	backend, err := do.Invoke[*storageBackend](injector)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer backend.close()

	srv, err := do.Invoke[*http.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	ready.Store(true)

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server forced to shutdown", "error", err)
	}
	if debugSrv != nil {
		if err := debugSrv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "debug server shutdown", "error", err)
		}
	}

	log.Info(shutdownCtx, "server exited gracefully")
	return nil
}

// storageBackend is everything the service needs from the selected driver.
type storageBackend struct {
	offices   office.Repository
	employees employee.Repository
	tx        uow.Transactor
	ping      mux.CheckerFunc
	// collector is nil when the driver exposes no pool statistics.
	collector prometheus.Collector
	close     func()
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, tracer trace.Tracer) (*storageBackend, error) {
	pool, err := pgutil.NewPool(ctx, cfg.DSN, pgutil.PoolConfig{
		MinConns:        cfg.MinConns,
		MaxConns:        cfg.MaxConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := migrate.Postgres(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &storageBackend{
		offices:   officepg.NewOfficeStore(pool, tracer),
		employees: employeepg.NewEmployeeStore(pool, tracer),
		tx:        uowpg.NewTransactor(pool, tracer),
		ping:      pool.Ping,
		collector: metrics.NewPoolCollector(pool, config.DriverPostgres),
		close:     pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, tracer trace.Tracer) (*storageBackend, error) {
	db, err := sqlite.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := migrate.SQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &storageBackend{
		offices:   sqlite.NewOfficeStore(db, tracer),
		employees: sqlite.NewEmployeeStore(db, tracer),
		tx:        sqlite.NewTransactor(db, tracer),
		ping:      db.PingContext,
		collector: collectors.NewDBStatsCollector(db, config.DriverSQLite),
		close:     func() { _ = db.Close() },
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config) {
	do.Provide(injector, func(i do.Injector) (*storageBackend, error) {
		tracer := do.MustInvoke[trace.Tracer](i)
		// Startup work outlives no request, so it runs on a fresh context.
		ctx := context.Background()
		if cfg.Database.Driver == config.DriverSQLite {
			return openSQLite(ctx, cfg.Database, tracer)
		}
		return openPostgres(ctx, cfg.Database, tracer)
	})

	do.Provide(injector, func(_ do.Injector) (*metrics.Registry, error) {
		return metrics.NewRegistry(gotel.GetMeterProvider())
	})

	do.Provide(injector, func(i do.Injector) (uow.Transactor, error) {
		backend := do.MustInvoke[*storageBackend](i)
		if !cfg.Breaker.Enabled {
			return backend.tx, nil
		}
		return breaker.New(backend.tx, breaker.Config{
			Name:          "storage",
			MaxFailures:   cfg.Breaker.MaxFailures,
			Timeout:       cfg.Breaker.Timeout,
			HalfOpenLimit: cfg.Breaker.HalfOpenLimit,
		}, do.MustInvoke[*logger.Logger](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*directory.Coordinator, error) {
		backend := do.MustInvoke[*storageBackend](i)
		reg := do.MustInvoke[*metrics.Registry](i)
		return directory.NewCoordinator(
			backend.offices,
			backend.employees,
			do.MustInvoke[uow.Transactor](i),
			reg.Directory,
			do.MustInvoke[*logger.Logger](i),
			do.MustInvoke[trace.Tracer](i),
			directory.WithTxTimeout(cfg.Database.TxTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*prometheus.Registry, error) {
		backend := do.MustInvoke[*storageBackend](i)
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if backend.collector != nil {
			if err := promReg.Register(backend.collector); err != nil {
				return nil, fmt.Errorf("registering pool collector: %w", err)
			}
		}
		return promReg, nil
	})

	do.Provide(injector, func(i do.Injector) (http.Handler, error) {
		backend := do.MustInvoke[*storageBackend](i)
		reg := do.MustInvoke[*metrics.Registry](i)
		promReg := do.MustInvoke[*prometheus.Registry](i)

		checks := map[string]mux.Checker{"database": backend.ping}
		if cb, ok := do.MustInvoke[uow.Transactor](i).(*breaker.Transactor); ok {
			checks["circuit breaker"] = cb
		}

		api := httpServer.NewHTTPServer(httpServer.NewServerAdapter(do.MustInvoke[*directory.Coordinator](i)))
		return mux.WrapWithMiddleware(mux.Config{
			Build:         build,
			Log:           do.MustInvoke[*logger.Logger](i),
			APIMetrics:    reg.API,
			HealthMetrics: reg.Health,
			Checks:        checks,
			Metrics:       promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
		}, api, mux.WithCORS(cfg.Server.CORSOrigins)), nil
	})

	do.Provide(injector, func(i do.Injector) (*http.Server, error) {
		log := do.MustInvoke[*logger.Logger](i)
		return &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      do.MustInvoke[http.Handler](i),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			ErrorLog:     logger.NewStdLogger(log, logger.LevelError),
		}, nil
	})
}
