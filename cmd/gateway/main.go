// Command gateway runs the HTTP façade (C4): it accepts signed
// transactions for batching and submission against the platform, and
// serves as-of read queries against the block-versioned store built by
// cmd/ledgersync.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hyperledger-archives/sawtooth-supply-chain/batch"
	"github.com/hyperledger-archives/sawtooth-supply-chain/config"
	xcrypto "github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
	"github.com/hyperledger-archives/sawtooth-supply-chain/httpapi"
	"github.com/hyperledger-archives/sawtooth-supply-chain/observability"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
)

func main() {
	logger := observability.SetupLogging("gateway")

	cfg, err := config.Load("config.toml")
	if err != nil {
		log.Fatalf("gateway: config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("gateway: connect db: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("gateway: migrate db: %v", err)
	}
	readStore := store.New(db)

	batcherKey, err := xcrypto.LoadFromKeystore(cfg.KeystorePath, "")
	if err != nil {
		log.Fatalf("gateway: load batcher keystore: %v", err)
	}

	client := platform.NewClient(platform.Config{URL: cfg.ValidatorURL})
	batcher := batch.NewBatcher(batcherKey, client, cfg.RetryWait)

	srv := httpapi.New(httpapi.Config{
		Store:     readStore,
		Batcher:   batcher,
		JWTSecret: cfg.JWTSecret,
	})

	addr := cfg.HTTPAddress
	if addr == "" {
		addr = ":3030"
	}
	logger.Info("starting gateway", slog.String("address", addr))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("gateway: server error: %v", err)
	}
}
