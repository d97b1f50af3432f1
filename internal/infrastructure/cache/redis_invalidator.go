package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/edusuite/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCloseTimeout = 5 * time.Second

// RedisInvalidator implements Invalidator and Subscriber using Redis Pub/Sub
type RedisInvalidator struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisInvalidatorOption is a functional option for configuring the invalidator
type RedisInvalidatorOption func(*RedisInvalidator)

// WithChannel sets the Pub/Sub channel name
func WithChannel(channel string) RedisInvalidatorOption {
	return func(i *RedisInvalidator) {
		if channel != "" {
			i.channel = channel
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RedisInvalidatorOption {
	return func(i *RedisInvalidator) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewRedisClient creates a client for cfg and checks that the server answers.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisInvalidator creates an invalidator that owns its own client
func NewRedisInvalidator(ctx context.Context, cfg config.RedisConfig, opts ...RedisInvalidatorOption) (*RedisInvalidator, error) {
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	inv := NewRedisInvalidatorWithClient(client, opts...)
	inv.ownsClient = true
	return inv, nil
}

// NewRedisInvalidatorWithClient creates an invalidator with an existing client.
// The caller keeps ownership of the client.
func NewRedisInvalidatorWithClient(client *redis.Client, opts ...RedisInvalidatorOption) *RedisInvalidator {
	inv := &RedisInvalidator{
		client:  client,
		channel: DefaultChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Publish sends msg to all subscribers of the channel
func (i *RedisInvalidator) Publish(ctx context.Context, msg Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	i.logger.Debug("Published cache invalidation",
		zap.String("topic", msg.Topic),
		zap.String("key", msg.Key),
		zap.String("channel", i.channel))
	return nil
}

// Subscribe listens on the channel until ctx is cancelled or Close is called
func (i *RedisInvalidator) Subscribe(ctx context.Context, callback func(msg Message)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("Subscribed to cache invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case raw, ok := <-ch:
			if !ok {
				i.logger.Warn("Cache invalidation channel closed")
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				i.logger.Error("Failed to unmarshal cache invalidation",
					zap.String("payload", raw.Payload),
					zap.Error(err))
				continue
			}
			i.dispatch(callback, msg)
		}
	}
}

func (i *RedisInvalidator) dispatch(callback func(msg Message), msg Message) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in cache invalidation callback", zap.Any("panic", r))
		}
	}()
	callback(msg)
}

func (i *RedisInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription and closes the client when owned
func (i *RedisInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for subscription to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}

var (
	_ Invalidator = (*RedisInvalidator)(nil)
	_ Subscriber  = (*RedisInvalidator)(nil)
)
