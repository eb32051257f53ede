package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freekieb7/pebble/admin"
	"github.com/freekieb7/pebble/config"
	"github.com/freekieb7/pebble/filesystem"
	"github.com/freekieb7/pebble/http"
	"github.com/freekieb7/pebble/schedule"
	"github.com/freekieb7/pebble/telemetry"
)

// Set with -ldflags "-X main.version=...".
var version = "0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	cfg := config.Load(os.Args[1:], os.Getenv)

	// Handle SIGINT (CTRL+C) and SIGTERM gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
		Level:          cfg.LogLevel,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Println(err)
		}
	}()

	logger := providers.Logger
	slog.SetDefault(logger)

	fsys := filesystem.NewLocalFileSystem(cfg.Root)
	root, err := filesystem.AbsoluteRoot(fsys)
	if err != nil {
		return err
	}

	server := http.NewServer("pebble/"+version, fsys)
	server.Workers = cfg.Workers
	server.ReadTimeout = cfg.ReadTimeout
	server.Logger = logger
	server.MeterProvider = providers.MeterProvider
	server.TracerProvider = providers.TracerProvider

	logger.Info("pebble starting",
		"version", version,
		"port", cfg.Port,
		"workers", cfg.Workers,
		"root", root)

	serverErrorChannel := make(chan error, 3)
	go func() {
		serverErrorChannel <- server.ListenAndServe(ctx, cfg.Addr())
	}()

	var adminServer *admin.Server
	if cfg.AdminAddr != "" {
		adminServer = admin.NewServer(server, logger)
		adminServer.MeterProvider = providers.MeterProvider
		adminServer.TracerProvider = providers.TracerProvider
		go func() {
			if err := adminServer.ListenAndServe(cfg.AdminAddr); err != nil {
				serverErrorChannel <- err
			}
		}()
	}

	if cfg.StatsInterval > 0 {
		scheduler := schedule.NewScheduler(logger)
		job := schedule.NewJob("pool-stats").
			WithInterval(cfg.StatsInterval).
			WithTasks(func(ctx context.Context) error {
				stats := server.Stats()
				logger.InfoContext(ctx, "worker pool",
					"workers", stats.Workers,
					"busy", stats.Busy,
					"accepted", stats.Accepted,
					"handled", stats.Handled)
				return nil
			})
		if err := scheduler.AddJob(job); err != nil {
			return err
		}
		go scheduler.Run(ctx)
	}

	// Wait for interruption.
	var runErr error
	select {
	case err := <-serverErrorChannel:
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case <-ctx.Done():
		// Stop receiving signal notifications as soon as possible.
		stop()
	}

	logger.Info("pebble shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("admin shutdown failed", "error", err)
		}
	}
	return errors.Join(runErr, server.Shutdown(shutdownCtx))
}
