package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edusuite/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryInvalidator_PublishAndSubscribe(t *testing.T) {
	inv := NewInMemoryInvalidator()
	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- inv.Subscribe(ctx, func(msg Message) { received <- msg })
	}()

	require.Eventually(t, func() bool {
		inv.mu.RLock()
		defer inv.mu.RUnlock()
		return len(inv.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, inv.Publish(ctx, Message{Topic: TopicFeeStructures, Key: "abc"}))

	select {
	case msg := <-received:
		assert.Equal(t, TopicFeeStructures, msg.Topic)
		assert.Equal(t, "abc", msg.Key)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the message")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Len(t, inv.Published(), 1)
	assert.NoError(t, inv.Close())
}

func TestInMemoryInvalidator_FailWith(t *testing.T) {
	inv := NewInMemoryInvalidator()
	boom := errors.New("broker down")
	inv.FailWith(boom)

	assert.ErrorIs(t, inv.Publish(context.Background(), Message{Topic: TopicTerms}), boom)
	assert.Empty(t, inv.Published())

	inv.FailWith(nil)
	assert.NoError(t, inv.Publish(context.Background(), Message{Topic: TopicTerms}))
	assert.Len(t, inv.Published(), 1)
}

func TestNotify(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	inv := NewInMemoryInvalidator()

	Notify(context.Background(), inv, logger, TopicFeeStructures, "id-1")
	published := inv.Published()
	require.Len(t, published, 1)
	assert.NotZero(t, published[0].Timestamp)
	assert.Zero(t, logs.Len())

	inv.FailWith(errors.New("broker down"))
	Notify(context.Background(), inv, logger, TopicFeeStructures, "id-2")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cache.invalidation_failed", logs.All()[0].Message)

	assert.NotPanics(t, func() {
		Notify(context.Background(), nil, logger, TopicTerms, "")
	})
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "fee_structure:2025:t1:internal")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "fee_structure:2025:t1:internal")
	assert.ErrorIs(t, err, ErrLockNotObtained)

	other, err := l.Acquire(ctx, "fee_structure:2025:t1:external")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "fee_structure:2025:t1:internal")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_Concurrent(t *testing.T) {
	l := NewLocalLocker()
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		obtained int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(context.Background(), "same"); err == nil {
				mu.Lock()
				obtained++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, obtained)
}

func TestNewBackend_Disabled(t *testing.T) {
	b := NewBackend(context.Background(), config.RedisConfig{}, config.CacheConfig{InvalidationEnabled: false}, nil)
	assert.False(t, b.Distributed())
	assert.Nil(t, b.Client())
	assert.IsType(t, &InMemoryInvalidator{}, b.Invalidator)
	assert.IsType(t, &LocalLocker{}, b.Locker)
	assert.NoError(t, b.Close())
}

func TestNewBackend_FallsBackWhenRedisUnreachable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	redisCfg := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	b := NewBackend(context.Background(), redisCfg, config.CacheConfig{InvalidationEnabled: true, Channel: "test"}, zap.New(core))

	assert.False(t, b.Distributed())
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
	assert.NoError(t, b.Close())
}
