package cache

import (
	"context"
	"sync"
)

// InMemoryInvalidator delivers messages to in-process subscribers and keeps a copy of
// every published message. It is used when Redis is disabled and in tests.
type InMemoryInvalidator struct {
	mu          sync.RWMutex
	published   []Message
	subscribers map[int]func(Message)
	nextID      int
	failWith    error
}

// NewInMemoryInvalidator creates an empty in-memory invalidator
func NewInMemoryInvalidator() *InMemoryInvalidator {
	return &InMemoryInvalidator{
		subscribers: make(map[int]func(Message)),
	}
}

// Publish records msg and hands it to every subscriber
func (i *InMemoryInvalidator) Publish(_ context.Context, msg Message) error {
	i.mu.Lock()
	if i.failWith != nil {
		err := i.failWith
		i.mu.Unlock()
		return err
	}
	i.published = append(i.published, msg)
	callbacks := make([]func(Message), 0, len(i.subscribers))
	for _, cb := range i.subscribers {
		callbacks = append(callbacks, cb)
	}
	i.mu.Unlock()

	for _, cb := range callbacks {
		cb(msg)
	}
	return nil
}

// Subscribe registers callback and blocks until ctx is done
func (i *InMemoryInvalidator) Subscribe(ctx context.Context, callback func(msg Message)) error {
	i.mu.Lock()
	id := i.nextID
	i.nextID++
	i.subscribers[id] = callback
	i.mu.Unlock()

	<-ctx.Done()

	i.mu.Lock()
	delete(i.subscribers, id)
	i.mu.Unlock()
	return ctx.Err()
}

// Published returns a copy of the messages published so far
func (i *InMemoryInvalidator) Published() []Message {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]Message, len(i.published))
	copy(out, i.published)
	return out
}

// FailWith makes subsequent publishes return err; nil restores normal behaviour
func (i *InMemoryInvalidator) FailWith(err error) {
	i.mu.Lock()
	i.failWith = err
	i.mu.Unlock()
}

// Close is a no-op
func (i *InMemoryInvalidator) Close() error {
	return nil
}

var (
	_ Invalidator = (*InMemoryInvalidator)(nil)
	_ Subscriber  = (*InMemoryInvalidator)(nil)
)
