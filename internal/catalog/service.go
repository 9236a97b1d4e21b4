package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/event"
	"github.com/junxiaopang/promptvault/internal/metrics"
	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// Snapshot is one immutable view of the normalized catalog. The Revision
// changes on every reload and serves as the catalog identity for
// memoization.
type Snapshot struct {
	Revision string
	Entries  []models.PromptItem
	LoadedAt time.Time
	Dropped  int
}

// Service owns the current catalog snapshot. Reload swaps the snapshot
// atomically; readers always observe a complete catalog.
type Service struct {
	loader  *Loader
	reg     *registry.Registry
	bus     *event.Bus
	metrics *metrics.Metrics
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]
}

// NewService creates a catalog Service. The initial snapshot is empty until
// the first Reload.
func NewService(loader *Loader, reg *registry.Registry, bus *event.Bus, m *metrics.Metrics, logger *zap.Logger) *Service {
	s := &Service{loader: loader, reg: reg, bus: bus, metrics: m, logger: logger}
	s.current.Store(&Snapshot{
		Revision: uuid.NewString(),
		Entries:  []models.PromptItem{},
		LoadedAt: time.Now().UTC(),
	})
	return s
}

// Snapshot returns the current catalog snapshot.
func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload reads the batch files, normalizes them, and swaps in a fresh
// snapshot. Malformed input degrades to a smaller (or empty) catalog,
// never to an error; only infrastructure failures are returned.
func (s *Service) Reload(ctx context.Context) error {
	raw, err := s.loader.Load()
	if err != nil {
		return err
	}

	entries, dropped := Normalize(raw, s.reg)
	snap := &Snapshot{
		Revision: uuid.NewString(),
		Entries:  entries,
		LoadedAt: time.Now().UTC(),
		Dropped:  dropped,
	}
	s.current.Store(snap)

	if s.metrics != nil {
		s.metrics.CatalogEntries.Set(float64(len(entries)))
		s.metrics.CatalogDropped.Set(float64(dropped))
	}

	s.logger.Info("catalog reloaded",
		zap.Int("entries", len(entries)),
		zap.Int("dropped", dropped),
		zap.String("revision", snap.Revision),
	)

	if s.bus != nil {
		s.bus.PublishAsync(ctx, event.Event{
			Topic:     event.TopicCatalogReloaded,
			Source:    "catalog",
			Timestamp: time.Now().UTC(),
			Payload: map[string]any{
				"entries":  len(entries),
				"dropped":  dropped,
				"revision": snap.Revision,
			},
		})
	}
	return nil
}
