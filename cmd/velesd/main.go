// Command velesd runs the carbon-credit marketplace state machine as a
// standalone process: it loads configuration and genesis, opens the
// persistent stores, wires every native engine together, and drives the
// per-block timeout scheduler on a fixed tick. It does not implement
// consensus or peer networking — those are host-runtime concerns spec.md
// §1 places outside this state machine's scope — so the block clock here
// is a simple local counter rather than a distributed one.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/glebarez/sqlite"

	"veles/cmd/internal/passphrase"
	"veles/config"
	"veles/core/currency"
	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/artifacts"
	"veles/native/common"
	"veles/native/holdings"
	"veles/native/indexer"
	"veles/native/market"
	"veles/native/registry"
	"veles/native/timeout"
	"veles/native/voting"
	"veles/observability"
	"veles/observability/logging"
	"veles/observability/otel"
	"veles/storage"
)

const systemKeyPassEnv = "VELES_SYSTEM_PASS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	blockIntervalFlag := flag.Duration("block-interval", 5*time.Second, "Wall-clock interval between timeout-scheduler ticks")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VELES_ENV"))
	logger := logging.SetupRotating("velesd", env, logging.RotationConfig{})

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if cfg.LogFile != "" {
		logger = logging.SetupRotating("velesd", env, logging.RotationConfig{Filename: cfg.LogFile})
	}

	shutdownTelemetry, err := otel.Init(context.Background(), otel.Config{
		ServiceName: "velesd",
		Environment: env,
	})
	if err != nil {
		logger.Error("init telemetry failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Error("shutdown telemetry failed", "error", err)
		}
	}()

	systemKey, err := loadSystemKey(cfg)
	if err != nil {
		logger.Error("load system key failed", "error", err)
		os.Exit(1)
	}
	systemAccount := systemKey.PubKey().AccountId()
	logger.Info("system account resolved", "account", systemAccount.String())

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("open storage failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := state.NewStore(db)

	queues, err := timeout.Open(filepath.Join(cfg.DataDir, "timeouts.db"))
	if err != nil {
		logger.Error("open timeout queues failed", "error", err)
		os.Exit(1)
	}
	defer queues.Close()

	if cfg.GenesisFile != "" {
		if err := maybeApplyGenesis(store, cfg.GenesisFile, logger); err != nil {
			logger.Error("apply genesis failed", "error", err)
			os.Exit(1)
		}
	}

	emit, closeIndexer, err := buildEmitter(cfg, logger)
	if err != nil {
		logger.Error("build event emitter failed", "error", err)
		os.Exit(1)
	}
	if closeIndexer != nil {
		defer closeIndexer()
	}

	// The system account draws from an in-memory currency ledger seeded at
	// startup: fee transfers here only ever move pallet-held fees back out
	// to participants (refunds, validator/owner rewards), never the other
	// way, so the ledger only needs an opening balance for the account this
	// process signs with.
	currencySource := currency.NewMemory(nil)
	currencySource.Credit(systemAccount, types.NewBalanceFromUint64(1_000_000_000))

	registryEngine := registry.NewEngine(store, currencySource, systemAccount, emit)

	limiter := common.NewSubmissionLimiter(cfg.SubmissionRate, cfg.SubmissionBurst)
	artifactEngine := artifacts.NewEngine(store, currencySource, queues, systemAccount, emit).
		WithSubmissionLimiter(limiter)

	votingEngine := voting.NewEngine(store, currencySource, systemAccount, emit)
	holdingsEngine := holdings.NewEngine(store, currencySource, queues, emit)
	marketEngine := market.NewEngine(store, emit)

	scheduler := timeout.NewScheduler(queues, store, votingEngine, holdingsEngine, logger)

	block := &blockCounter{}
	submissionAPI := &api{
		registry:  registryEngine,
		artifacts: artifactEngine,
		voting:    votingEngine,
		holdings:  holdingsEngine,
		market:    marketEngine,
		store:     store,
		block:     block,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: cfg.RPCAddress, Handler: submissionAPI.routes()}
	go func() {
		logger.Info("submission API listening", "address", cfg.RPCAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("submission API failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("submission API shutdown failed", "error", err)
		}
	}()

	logger.Info("velesd started", "data_dir", cfg.DataDir, "block_interval", blockIntervalFlag.String())
	runTickLoop(ctx, scheduler, block, *blockIntervalFlag, logger)
	logger.Info("velesd stopped")
}

// runTickLoop drives the scheduler once per blockInterval, treating each
// tick as the next block. There is no consensus here: block numbers and
// moments both derive from this process's own clock, and block is the same
// counter the submission API reads when computing timeout deadlines.
func runTickLoop(ctx context.Context, scheduler *timeout.Scheduler, block *blockCounter, blockInterval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(blockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			scheduler.Tick(block.Advance(), types.NewMoment(now))
		}
	}
}

func loadSystemKey(cfg *config.Config) (*crypto.PrivateKey, error) {
	if cfg.SystemKeystore != "" {
		passSource := passphrase.NewSource(systemKeyPassEnv)
		pass, err := passSource.Get()
		if err != nil {
			return nil, fmt.Errorf("resolve keystore passphrase: %w", err)
		}
		return crypto.LoadFromKeystore(cfg.SystemKeystore, pass)
	}
	if cfg.SystemKey == "" {
		return nil, fmt.Errorf("velesd: no SystemKey or SystemKeystore configured")
	}
	raw, err := hex.DecodeString(cfg.SystemKey)
	if err != nil {
		return nil, fmt.Errorf("decode system key: %w", err)
	}
	return crypto.PrivateKeyFromBytes(raw)
}

func maybeApplyGenesis(store *state.Store, genesisFile string, logger *slog.Logger) error {
	_, found, err := store.TimeValue(state.TimeBlocksYearly)
	if err != nil {
		return err
	}
	if found {
		logger.Info("genesis already applied, skipping")
		return nil
	}
	spec, err := market.LoadGenesisSpec(genesisFile)
	if err != nil {
		return err
	}
	return market.ApplyGenesis(store, spec)
}

// buildEmitter wires a MetricsEmitter around an optional SQL indexer,
// depending on cfg.IndexerDSN: empty uses events.NoopEmitter, a
// "postgres://" DSN uses gorm's postgres driver, anything else is treated
// as a sqlite file path or DSN.
func buildEmitter(cfg *config.Config, logger *slog.Logger) (events.Emitter, func(), error) {
	if strings.TrimSpace(cfg.IndexerDSN) == "" {
		return observability.NewMetricsEmitter(events.NoopEmitter{}), nil, nil
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(cfg.IndexerDSN, "postgres://") || strings.HasPrefix(cfg.IndexerDSN, "postgresql://") {
		dialector = postgres.Open(cfg.IndexerDSN)
	} else {
		dialector = sqlite.Open(cfg.IndexerDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("open indexer database: %w", err)
	}
	idx, err := indexer.Open(db, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("migrate indexer database: %w", err)
	}
	return observability.NewMetricsEmitter(idx), func() {}, nil
}
