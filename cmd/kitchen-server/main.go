// Package main is the entry point for the kitchen game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/infra/broker"
	"github.com/MRamiBalles/CookOff/server/internal/infra/storage"
	"github.com/MRamiBalles/CookOff/server/internal/network"
	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
)

const (
	journalWriteTimeout = 2 * time.Second
	eventPollInterval   = 100 * time.Millisecond
	shutdownTimeout     = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewLogger("info").Error("failed to load config", err)
		os.Exit(1)
	}
	appLogger := logger.NewLogger(cfg.Log.Level)
	appLogger.Info("initializing kitchen server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var persisters events.MultiPersister
	var repo storage.EventRepository

	if cfg.Storage.SQLitePath != "" {
		appLogger.Info("opening journal database " + cfg.Storage.SQLitePath)
		db, err := storage.InitSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			appLogger.Error("failed to initialize SQLite", err)
			os.Exit(1)
		}
		defer db.Close()
		sqliteRepo := storage.NewSQLiteEventRepository(db)
		repo = sqliteRepo
		persisters = append(persisters, storage.NewJournalWriter(sqliteRepo, journalWriteTimeout))
	}

	if cfg.Broker.NatsURL != "" {
		pub, err := broker.NewNATSPublisher(cfg.Broker.NatsURL, cfg.Broker.Subject)
		if err != nil {
			// The journal still lands in memory and SQLite; fan-out is optional.
			appLogger.Error("NATS unavailable, journal fan-out disabled", err)
		} else {
			defer pub.Close()
			persisters = append(persisters, pub)
		}
	}

	var persister events.EventPersister
	if len(persisters) > 0 {
		persister = persisters
	}
	journal := events.NewEventLog(persister)
	defer journal.Flush()

	match := engine.NewMatch(cfg.Match, journal, appLogger.With("component", "match"))

	var hub *network.Hub
	ticker := engine.NewTicker(match, appLogger, cfg.Server.TickRate, cfg.Server.BroadcastEvery, cfg.Server.CommandBuffer,
		func(s engine.Snapshot) { hub.BroadcastSnapshot(s) })
	hub = network.NewHub(ticker, appLogger.With("component", "hub"), cfg.Server.ClientSendBuffer)

	go hub.Run(ctx)
	go ticker.Start(ctx)
	hub.StartEventPoller(ctx, journal, eventPollInterval)

	replay := network.NewReplayHandler(journal, repo, appLogger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           network.NewRouter(hub, replay, appLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP API & WS server listening on " + cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	ticker.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", err)
	}
}
