package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mempoolScope/internal/api"
	"mempoolScope/internal/chain"
	"mempoolScope/internal/config"
	"mempoolScope/internal/dex"
	"mempoolScope/internal/monitor"
	"mempoolScope/internal/notify"
	"mempoolScope/internal/storage"
	"mempoolScope/internal/storage/memory"
	"mempoolScope/internal/storage/postgres"
	"mempoolScope/internal/token"
)

func main() {
	root := &cobra.Command{
		Use:          "monitor",
		Short:        "Ethereum mempool swap monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor and its control API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("rpc", "", "Ethereum WebSocket RPC URL")
	serveCmd.Flags().String("router", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D", "Uniswap V2 router address")
	serveCmd.Flags().String("wrapped-native", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "wrapped native token (WETH) address")
	serveCmd.Flags().String("telegram-token", "", "Telegram bot token")
	serveCmd.Flags().String("telegram-chat-id", "", "Telegram chat id")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN (empty keeps events in memory)")
	serveCmd.Flags().String("journal", "", "optional JSONL journal path for classified events")
	serveCmd.Flags().String("http-addr", ":8001", "control API listen address")
	serveCmd.Flags().Bool("autostart", false, "start monitoring immediately")
	serveCmd.Flags().Int("workers", 4, "decode workers")
	serveCmd.Flags().Int("dedup-capacity", 65536, "per-session dedup ledger capacity")
	serveCmd.Flags().Int("queue-size", 128, "outbound event queue size")
	serveCmd.Flags().Int("emit-workers", 4, "outbound dispatch workers")
	serveCmd.Flags().Int("token-cache-size", 4096, "token metadata cache entries")
	serveCmd.Flags().Duration("token-negative-ttl", 10*time.Minute, "retention for failed token lookups")
	serveCmd.Flags().Duration("resolver-budget", 3*time.Second, "per-lookup token resolution budget")
	serveCmd.Flags().Int("max-retries", 5, "maximum subscribe retry attempts")
	serveCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial subscribe retry backoff")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay captured pending transactions through the decoder",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("in", "", "input pending transactions JSONL")
	replayCmd.Flags().String("out", "./data/classified_events.jsonl", "output classified events JSONL")
	replayCmd.Flags().String("errors", "./data/decode_failures.jsonl", "decode failures JSONL")
	replayCmd.Flags().String("router", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D", "Uniswap V2 router address")
	replayCmd.Flags().String("wrapped-native", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "wrapped native token (WETH) address")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Router) {
		return fmt.Errorf("invalid router address: %s", cfg.Router)
	}
	if !common.IsHexAddress(cfg.WrappedNative) {
		return fmt.Errorf("invalid wrapped-native address: %s", cfg.WrappedNative)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	decoder, err := dex.NewDecoder(common.HexToAddress(cfg.Router))
	if err != nil {
		return err
	}
	classifier := dex.NewClassifier(common.HexToAddress(cfg.WrappedNative))

	resolver, err := token.NewResolver(chainClient, token.Config{
		CacheSize:    cfg.TokenCacheSize,
		NegativeTTL:  cfg.TokenNegativeTTL,
		LookupBudget: cfg.ResolverBudget,
	}, logger)
	if err != nil {
		return err
	}

	var store storage.EventStore
	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		store = memory.NewStore(0)
	}

	var journal storage.Journal
	if cfg.JournalPath != "" {
		journal = storage.NewJsonlJournal(cfg.JournalPath)
	}

	var notifier monitor.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	} else {
		logger.Warn("telegram credentials missing, notifications disabled")
	}

	pipeline := monitor.NewPipeline(monitor.Config{
		Workers:          cfg.Workers,
		DedupCapacity:    cfg.DedupCapacity,
		QueueSize:        cfg.QueueSize,
		EmitWorkers:      cfg.EmitWorkers,
		SubscribeRetries: cfg.MaxRetries,
		SubscribeBackoff: cfg.RetryBackoff,
		SessionBanners:   true,
	}, chainClient, decoder, classifier, resolver, store, notifier, journal, logger)

	if cfg.Autostart {
		if _, err := pipeline.Start(ctx); err != nil {
			return fmt.Errorf("start monitoring: %w", err)
		}
	}

	server := api.NewServer(cfg.HTTPAddr, pipeline, notifier, logger)

	logger.Info("monitor start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("router", cfg.Router),
		zap.String("wrapped_native", cfg.WrappedNative),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("autostart", cfg.Autostart),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.String("journal", cfg.JournalPath),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		pipeline.Stop()
		return fmt.Errorf("http server: %w", err)
	}

	pipeline.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
