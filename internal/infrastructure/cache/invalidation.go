// Package cache carries cache invalidation signals and short-lived distributed locks.
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Topics published by the finance and calendar services
const (
	TopicFeeStructures    = "fee_structures"
	TopicTerms            = "terms"
	TopicStudentGuardians = "student_guardians"
)

// DefaultChannel is the pub/sub channel used when none is configured
const DefaultChannel = "edusuite:cache:invalidate"

// Message tells readers that cached data under Topic is stale.
// Key narrows the invalidation to one entity; empty means the whole topic.
type Message struct {
	Topic     string `json:"topic"`
	Key       string `json:"key,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Invalidator publishes invalidation messages
type Invalidator interface {
	// Publish sends msg to every subscriber
	Publish(ctx context.Context, msg Message) error

	// Close releases any resources held by the invalidator
	Close() error
}

// Subscriber receives invalidation messages
type Subscriber interface {
	// Subscribe blocks and invokes callback for each message until ctx is done
	Subscribe(ctx context.Context, callback func(msg Message)) error
}

// Notify publishes an invalidation for topic/key. A publish failure is logged and swallowed,
// so a committed write is never reported as failed because of it.
func Notify(ctx context.Context, inv Invalidator, logger *zap.Logger, topic, key string) {
	if inv == nil {
		return
	}
	err := inv.Publish(ctx, Message{Topic: topic, Key: key, Timestamp: time.Now().UnixNano()})
	if err != nil && logger != nil {
		logger.Warn("cache.invalidation_failed",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err))
	}
}
