// Command ledgersync runs the ledger-sync pipeline (C5): it subscribes
// to the platform's committed-block stream and replays each block's
// state deltas into the block-versioned read store.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hyperledger-archives/sawtooth-supply-chain/config"
	"github.com/hyperledger-archives/sawtooth-supply-chain/observability"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
	"github.com/hyperledger-archives/sawtooth-supply-chain/sync"
)

func main() {
	logger := observability.SetupLogging("ledgersync")

	cfg, err := config.Load("config.toml")
	if err != nil {
		log.Fatalf("ledgersync: config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("ledgersync: connect db: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("ledgersync: migrate db: %v", err)
	}
	readStore := store.New(db)

	client := platform.NewClient(platform.Config{URL: cfg.ValidatorURL})
	pipeline := sync.NewPipeline(client, readStore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ledgersync", slog.String("validator", cfg.ValidatorURL))
	if err := pipeline.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("ledgersync: pipeline stopped: %v", err)
	}
	logger.Info("ledgersync stopped")
}
