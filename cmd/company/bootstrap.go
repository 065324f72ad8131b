package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/companyemployees/internal/company/config"
	"github.com/gartstein/companyemployees/internal/company/db"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/outputcache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type eventProducer interface {
	Produce(events.Event)
	Close()
}

func retryPolicy(ctx context.Context, budget time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = budget
	return backoff.WithContext(b, ctx)
}

// connectDatabase opens the repository, retrying while the database starts.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	var repo *db.Repository
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(cfg.Database(), logger)
		return err
	}, retryPolicy(ctx, cfg.StartupTimeout), func(err error, next time.Duration) {
		logger.Warn("Database not ready", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return repo, nil
}

// newProducer connects to Kafka when brokers are configured. Without
// brokers events are discarded.
func newProducer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (eventProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("No Kafka brokers configured, events are disabled")
		return events.NopProducer{}, nil
	}

	var producer *events.Producer
	err := backoff.RetryNotify(func() error {
		var err error
		producer, err = events.NewProducer(cfg.KafkaBrokers, cfg.Topic, logger)
		return err
	}, retryPolicy(ctx, cfg.StartupTimeout), func(err error, next time.Duration) {
		logger.Warn("Kafka not ready", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kafka producer: %w", err)
	}
	return producer, nil
}

// newCacheStore uses redis when an address is configured, memory otherwise.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (outputcache.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return outputcache.NewMemoryStore(cfg.CacheMaxEntries), func() {}, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := outputcache.NewRedisStore(rc, "")
	err := backoff.Retry(func() error {
		return store.Ping(ctx)
	}, retryPolicy(ctx, cfg.StartupTimeout))
	if err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Output cache backed by redis", zap.String("addr", cfg.RedisAddr))
	return store, func() { _ = rc.Close() }, nil
}

// consumerGroup is unique per instance so that every replica sees every
// event.
func consumerGroup(base string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return base
	}
	return base + "-" + host
}
