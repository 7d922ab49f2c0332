package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"widgetgate/internal/config"
	"widgetgate/internal/domain"
	"widgetgate/internal/infra/bundle"
	"widgetgate/internal/infra/db"
	httpinfra "widgetgate/internal/infra/http"
	"widgetgate/internal/infra/ratelimit"
	"widgetgate/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	identities, err := buildIdentityStore(cfg, logger)
	if err != nil {
		logger.Fatal("init identity store", zap.Error(err))
	}

	limiter := buildLimiter(ctx, cfg, logger)

	source := bundle.NewSource(cfg.BundlePath, cfg.BundleReload())
	if _, err := source.Artifact(); err != nil {
		logger.Fatal("load bundle artifact", zap.Error(err))
	}
	provider := bundle.NewProvider(source, cfg.BundleCacheTTL())

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Identities: identities,
		Bundles:    provider,
		Limiter:    limiter,
		Logger:     logger,
	})
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

func buildIdentityStore(cfg config.Config, logger *zap.Logger) (usecase.IdentityStore, error) {
	store, err := db.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	if store.DB != nil {
		logger.Info("identity store: postgres")
		return db.NewWidgetRepository(store.DB), nil
	}

	logger.Warn("POSTGRES_DSN not set, using in-memory identity store")
	mem := db.NewMemoryIdentityStore()
	if cfg.SeedFile != "" {
		if err := mem.LoadSeed(cfg.SeedFile); err != nil {
			return nil, err
		}
		logger.Info("seeded identity store", zap.String("file", cfg.SeedFile))
	}
	return mem, nil
}

// buildLimiter picks the counter backend once at startup. Redis is
// required for a multi-instance deployment; the in-process fallback
// enforces per-instance limits only, so the effective limit widens by
// the instance count.
func buildLimiter(ctx context.Context, cfg config.Config, logger *zap.Logger) domain.RateLimiter {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, rate limits are per-instance only")
		return ratelimit.NewMemoryLimiter(ratelimit.MemoryConfig{MaxKeys: cfg.RateLimitMaxKeys})
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// Startup keeps the distributed backend; limiter errors at
		// request time fail open.
		logger.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		logger.Info("rate limiter: redis", zap.String("addr", cfg.RedisAddr))
	}
	return ratelimit.NewRedisLimiter(client, nil)
}
