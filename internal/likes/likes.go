// Package likes manages the persisted liked-id set.
package likes

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/event"
	"github.com/junxiaopang/promptvault/internal/metrics"
	"github.com/junxiaopang/promptvault/internal/settings"
)

// Service keeps the liked-id set in memory and mirrors every change to the
// settings repository as a JSON-encoded id list. A corrupt stored value
// degrades to an empty set; persistence failures are logged and swallowed.
type Service struct {
	repo    settings.Repository
	bus     *event.Bus
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu      sync.RWMutex
	ids     map[int64]struct{}
	version int64
}

// NewService creates a Service and loads the persisted set.
func NewService(ctx context.Context, repo settings.Repository, bus *event.Bus, m *metrics.Metrics, logger *zap.Logger) *Service {
	s := &Service{
		repo:    repo,
		bus:     bus,
		metrics: m,
		logger:  logger,
		ids:     make(map[int64]struct{}),
	}
	s.restore(ctx)
	return s
}

func (s *Service) restore(ctx context.Context) {
	setting, err := s.repo.Get(ctx, settings.KeyLikedIDs)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			s.logger.Warn("load liked ids failed", zap.Error(err))
		}
		return
	}

	var ids []int64
	if err := json.Unmarshal([]byte(setting.Value), &ids); err != nil {
		s.logger.Warn("stored liked ids corrupt, starting empty", zap.Error(err))
		return
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Toggle flips the liked state of one entry id and returns the new state.
func (s *Service) Toggle(ctx context.Context, id int64) bool {
	s.mu.Lock()
	_, liked := s.ids[id]
	if liked {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.version++
	encoded := s.encodeLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.LikeToggles.Inc()
	}
	if err := s.repo.Set(ctx, settings.KeyLikedIDs, encoded); err != nil {
		s.logger.Warn("persist liked ids failed", zap.Error(err))
	}
	if s.bus != nil {
		s.bus.PublishAsync(ctx, event.Event{
			Topic:     event.TopicLikeToggled,
			Source:    "likes",
			Timestamp: time.Now().UTC(),
			Payload:   map[string]any{"id": id, "liked": !liked},
		})
	}
	return !liked
}

// IsLiked reports whether an entry id is liked.
func (s *Service) IsLiked(id int64) bool {
	return s.Contains(id)
}

// Contains implements the filter engine's liked-set lookup.
func (s *Service) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Version implements the filter engine's memoization hook; it increments on
// every mutation.
func (s *Service) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// IDs returns the liked ids in ascending order.
func (s *Service) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Count returns the number of liked entries.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// encodeLocked serializes the set in ascending id order. Caller holds mu.
func (s *Service) encodeLocked() string {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	data, _ := json.Marshal(ids)
	return string(data)
}
