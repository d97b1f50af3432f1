package cache

import (
	"context"

	"github.com/edusuite/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend bundles the invalidator and locker chosen for the running process
type Backend struct {
	Invalidator Invalidator
	Locker      Locker
	client      *redis.Client
}

// Distributed reports whether the backend is Redis-backed
func (b *Backend) Distributed() bool {
	return b.client != nil
}

// Client returns the Redis client, or nil for the in-process backend
func (b *Backend) Client() *redis.Client {
	return b.client
}

// Close releases the invalidator and the Redis client
func (b *Backend) Close() error {
	err := b.Invalidator.Close()
	if b.client != nil {
		if cerr := b.client.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NewLocalBackend returns the in-process backend
func NewLocalBackend() *Backend {
	return &Backend{
		Invalidator: NewInMemoryInvalidator(),
		Locker:      NewLocalLocker(),
	}
}

// NewBackend picks Redis when invalidation is enabled and the server answers,
// and falls back to the in-process backend otherwise.
func NewBackend(ctx context.Context, redisCfg config.RedisConfig, cacheCfg config.CacheConfig, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cacheCfg.InvalidationEnabled {
		logger.Info("Cache invalidation is in-process only")
		return NewLocalBackend()
	}

	client, err := NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-process cache backend",
			zap.String("addr", redisCfg.Addr()),
			zap.Error(err))
		return NewLocalBackend()
	}

	logger.Info("Using Redis cache backend",
		zap.String("addr", redisCfg.Addr()),
		zap.String("channel", cacheCfg.Channel))
	return &Backend{
		Invalidator: NewRedisInvalidatorWithClient(client, WithChannel(cacheCfg.Channel), WithLogger(logger)),
		Locker:      NewRedisLocker(client, DefaultLockTTL, logger),
		client:      client,
	}
}
