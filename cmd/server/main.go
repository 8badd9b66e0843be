package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/simple-ledger/internal/config"
	"github.com/sheikh-saqib/simple-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/logging"
	"github.com/sheikh-saqib/simple-ledger/internal/server"
	"github.com/sheikh-saqib/simple-ledger/internal/storage/csvfile"
	"github.com/sheikh-saqib/simple-ledger/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store interfaces.SnapshotStore
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("connecting to postgres", zap.Error(err))
		}
		defer db.Close()
		store = postgres.NewPostgresSnapshotStore(db)
	default:
		store = csvfile.NewStore(cfg.DataFile)
	}

	ledgerService := ledger.New()

	// start from the last snapshot when there is one
	if err := ledgerService.Load(ctx, store); err != nil {
		if ledger.KindOf(err) != ledger.KindNotFound {
			logger.Fatal("loading snapshot", zap.Error(err))
		}
		logger.Info("no snapshot found, starting empty")
	} else {
		logger.Info("snapshot loaded", zap.Int("accounts", ledgerService.Len()))
	}

	opts := []server.Option{server.WithLogger(logger)}
	if len(cfg.KafkaBroker) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer publisher.Close()
		opts = append(opts, server.WithPublisher(publisher))
		logger.Info("publishing ledger events", zap.Strings("brokers", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewServer(ledgerService, store, opts...).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := ledgerService.Save(shutdownCtx, store); err != nil {
		logger.Error("saving snapshot on shutdown", zap.Error(err))
		return
	}
	logger.Info("snapshot saved", zap.Int("accounts", ledgerService.Len()))
}
