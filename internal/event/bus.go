// Package event provides the in-process publish/subscribe bus used to fan
// out catalog and like-state changes to interested components.
package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Well-known topics published by PromptVault components.
const (
	TopicCatalogReloaded = "catalog.reloaded"
	TopicLikeToggled     = "likes.toggled"
	TopicCriteriaChanged = "criteria.changed"
)

// Event is a single bus message.
type Event struct {
	Topic     string    `json:"topic"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Handler processes a published event. Handlers must not block for long;
// use PublishAsync for slow consumers.
type Handler func(ctx context.Context, e Event)

type subscription struct {
	id      int64
	handler Handler
}

// Bus is a topic-based in-process event bus. Publish delivers synchronously
// in subscription order; a panicking handler is recovered and logged without
// affecting the remaining handlers.
type Bus struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string][]subscription
	all    []subscription
	logger *zap.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for one topic and returns an unsubscribe
// function.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs[topic] = removeSub(b.subs[topic], id)
	}
}

// SubscribeAll registers a handler for every topic and returns an
// unsubscribe function.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = removeSub(b.all, id)
	}
}

// Publish delivers the event synchronously to all matching handlers.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	for _, s := range b.snapshot(e.Topic) {
		b.deliver(ctx, s, e)
	}
	return nil
}

// PublishAsync delivers the event to each matching handler on its own
// goroutine.
func (b *Bus) PublishAsync(ctx context.Context, e Event) {
	for _, s := range b.snapshot(e.Topic) {
		go b.deliver(ctx, s, e)
	}
}

// snapshot copies the handler list for a topic so delivery happens outside
// the lock.
func (b *Bus) snapshot(topic string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]subscription, 0, len(b.subs[topic])+len(b.all))
	out = append(out, b.subs[topic]...)
	out = append(out, b.all...)
	return out
}

func (b *Bus) deliver(ctx context.Context, s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", e.Topic),
				zap.Any("panic", r),
			)
		}
	}()
	s.handler(ctx, e)
}

func removeSub(subs []subscription, id int64) []subscription {
	for i := range subs {
		if subs[i].id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
