package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/txreplay/internal/config"
	"github.com/congo-pay/txreplay/internal/infra"
	"github.com/congo-pay/txreplay/internal/ledger"
	"github.com/congo-pay/txreplay/internal/logging"
	"github.com/congo-pay/txreplay/internal/notification"
	"github.com/congo-pay/txreplay/internal/replay"
	"github.com/congo-pay/txreplay/internal/server"
)

const usage = "usage: txreplay <transactions.csv> | txreplay serve"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.LogLevel, stderr)
	ctx := context.Background()

	serving := args[0] == "serve"

	deps, err := openBackends(ctx, cfg, logger, serving)
	if err != nil {
		logger.Error("connect backends", "error", err)
		return 1
	}
	defer deps.close(logger)

	svc := replay.NewService(logger, deps.notifier, deps.snapshots)

	if serving {
		return serve(cfg, deps, svc, logger)
	}
	return replayFile(ctx, args[0], svc, stdout, stderr)
}

func replayFile(ctx context.Context, path string, svc *replay.Service, stdout, stderr io.Writer) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := svc.Process(ctx, f, stdout); err != nil {
		return 1
	}
	return 0
}

func serve(cfg config.Config, deps *backends, svc *replay.Service, logger *slog.Logger) int {
	srv, err := server.New(cfg, deps.db, deps.cache, svc, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		return 1
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("listening", "addr", cfg.Address(), "env", cfg.AppEnv)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
		return 0
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return 1
	}

	logger.Info("server exited cleanly")
	return 0
}

// backends holds the optional side-effect targets of a run. Each one is only
// opened when its connection setting is present.
type backends struct {
	db        *pgxpool.Pool
	cache     *redis.Client
	kafka     *notification.KafkaNotifier
	notifier  notification.Notifier
	snapshots ledger.SnapshotStore
}

// openBackends connects every configured backend. When required is false an
// unreachable backend is logged and skipped, so a file replay still prints
// its table.
func openBackends(ctx context.Context, cfg config.Config, logger *slog.Logger, required bool) (*backends, error) {
	b := &backends{notifier: notification.NewLoggerNotifier(logger)}

	if cfg.DatabaseURL != "" {
		db, store, err := openSnapshots(ctx, cfg)
		switch {
		case err == nil:
			b.db, b.snapshots = db, store
		case required:
			return nil, err
		default:
			logger.Warn("snapshot export disabled", "error", err)
		}
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL, cfg.AppName)
		switch {
		case err == nil:
			b.cache = cache
		case required:
			b.close(logger)
			return nil, err
		default:
			logger.Warn("redis disabled", "error", err)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		b.kafka = notification.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		b.notifier = b.kafka
	}

	if !cfg.IsDev() && (b.db == nil || b.cache == nil) {
		logger.Warn("running without postgres or redis", "env", cfg.AppEnv)
	}
	return b, nil
}

func openSnapshots(ctx context.Context, cfg config.Config) (*pgxpool.Pool, *ledger.PostgresSnapshotStore, error) {
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName)
	if err != nil {
		return nil, nil, err
	}
	store := ledger.NewPostgresSnapshotStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return db, store, nil
}

func (b *backends) close(logger *slog.Logger) {
	if b.kafka != nil {
		if err := b.kafka.Close(); err != nil {
			logger.Warn("close kafka writer", "error", err)
		}
	}
	if b.cache != nil {
		if err := b.cache.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			logger.Warn("close redis", "error", err)
		}
	}
	if b.db != nil {
		b.db.Close()
	}
}
