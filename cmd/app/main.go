package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/notify"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/logger"
	"marketplace/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("marketplace stopped", zap.Error(err))
	}
}

func run(cfg cmd.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer shutdown(zl, "tracing", provider.Shutdown)

	db, err := postgres.Open(ctx, cfg.DB, zl)
	if err != nil {
		return err
	}
	if err = postgres.Migrate(db); err != nil {
		return err
	}

	notifier, closeNotifier, err := newNotifier(cfg, zl)
	if err != nil {
		return err
	}
	defer closeNotifier()

	app := cmd.NewCompositionRoot(cfg, db, notifier, zl)

	manager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	manager.Start()
	defer shutdown(zl, "jobs", func(ctx context.Context) error {
		manager.Stop(ctx)
		return nil
	})

	e := newWebServer(cfg, zl)
	httpin.NewServer(app.CreateOrchestrator()).Register(e)

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("port", cfg.HTTPPort))
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		zl.Info("shutting down")
	}

	shutdown(zl, "http server", e.Shutdown)
	return nil
}

func newWebServer(cfg cmd.Config, zl *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if cfg.AppEnv == logger.EnvProduction {
		e.Logger.SetLevel(log.WARN)
	} else {
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpin.Trace(cfg.ServiceName))
	e.Use(httpin.AccessLog(zl))
	return e
}

// newNotifier publishes to RabbitMQ when a broker is configured and logs
// notifications otherwise.
func newNotifier(cfg cmd.Config, zl *zap.Logger) (ports.Notifier, func(), error) {
	if cfg.RabbitMQURL == "" {
		zl.Warn("RABBITMQ_URL not set, notifications are only logged")
		return notify.NewLogNotifier(zl), func() {}, nil
	}

	client, err := notify.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			zl.Warn("close rabbitmq", zap.Error(err))
		}
	}
	return notify.NewRabbitNotifier(client.Channel(), cfg.RabbitMQExchange, zl), closeFn, nil
}

func shutdown(zl *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		zl.Warn("shutdown", zap.String("component", name), zap.Error(err))
	}
}
