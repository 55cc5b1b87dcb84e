package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/config"
	"github.com/EvanFarrier/Timekeep/server/internal/db"
	"github.com/EvanFarrier/Timekeep/server/internal/httpapi"
	"github.com/EvanFarrier/Timekeep/server/internal/metrics"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/service"
	sqlitestore "github.com/EvanFarrier/Timekeep/server/internal/timeclock/store/sqlite"
)

func main() {
	logger := log.New(os.Stdout, "timekeep-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("db open: %v", err)
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{KnownDevices: cfg.KnownDeviceList()}); err != nil {
			logger.Fatalf("seed dev: %v", err)
		}
	}

	// Stores
	punchStore := sqlitestore.NewPunchStore(conn, writer)
	deviceStore := sqlitestore.NewDeviceStore(conn, writer)
	heartbeatStore := sqlitestore.NewHeartbeatStore(conn, writer)

	// Services
	m := metrics.New()
	directory := service.NewDeviceDirectory(deviceStore)
	punchSvc := service.NewPunchService(directory, punchStore, m)
	heartbeatSvc := service.NewHeartbeatService(heartbeatStore, directory, m)

	var registry service.RegistryClient
	if cfg.RegistryBaseURL != "" {
		registry = service.NewHTTPRegistryClient(cfg.RegistryBaseURL, cfg.RegistryTimeout())
	}
	sessionSvc := service.NewSessionService(punchStore, registry, logger, m)

	pruner := service.NewHeartbeatPruner(heartbeatStore, service.PrunerConfig{
		RetentionDays: cfg.HeartbeatRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:           logger,
		Addr:             cfg.HTTPAddr,
		Metrics:          m,
		PunchService:     punchSvc,
		HeartbeatService: heartbeatSvc,
		SessionService:   sessionSvc,
		DefaultPageSize:  cfg.DefaultPageSize,
		MaxPageSize:      cfg.MaxPageSize,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
