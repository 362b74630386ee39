package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inflight/cmd"
	"inflight/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := cmd.NewLogger(configs, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = serve(ctx, configs, logger)
	stop()
	if err != nil {
		log.Fatalf("Application stopped: %v", err)
	}
}

func serve(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:  "inflight",
		Stdout:       configs.OtelTracesStdout,
		OTLPEndpoint: configs.OtelEndpoint,
		OTLPInsecure: configs.OtelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := cmd.OpenDatabase(ctx, configs, logger)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(configs, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	e, err := app.CreateHTTPServer()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(ctx); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	// Notification streams end with the process, so Shutdown does not wait
	// for them until its deadline.
	e.Server.BaseContext = func(net.Listener) context.Context { return gctx }

	for _, runner := range app.BackgroundRunners() {
		g.Go(func() error { return runner(gctx) })
	}

	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
