package filter

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/collate"

	"github.com/junxiaopang/promptvault/internal/catalog"
	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/internal/metrics"
	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// Clock provides the current time for date bucketing. Injected so tests can
// pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Engine runs filter+sort passes over catalog snapshots. The previous pass
// is memoized on (snapshot revision, criteria key, liked-set version), so
// re-rendering with unchanged inputs costs nothing. Engine methods are safe
// for concurrent use.
type Engine struct {
	reg     *registry.Registry
	col     *collate.Collator
	clock   Clock
	metrics *metrics.Metrics

	mu      sync.Mutex
	memoKey string
	memoOut []models.PromptItem
	memoOK  bool
}

// NewEngine creates an Engine. locale selects the collation used for title
// and source ordering; metrics may be nil.
func NewEngine(reg *registry.Registry, locale string, clock Clock, m *metrics.Metrics) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{
		reg:     reg,
		col:     newCollator(locale),
		clock:   clock,
		metrics: m,
	}
}

// FilterAndSort returns the entries of the snapshot matching the criteria,
// ordered per the criteria's sort key. The returned slice is owned by the
// engine's memo; callers must not mutate it.
func (e *Engine) FilterAndSort(snap *catalog.Snapshot, s criteria.State, liked LikedSet) []models.PromptItem {
	key := e.memoKeyFor(snap, s, liked)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memoOK && e.memoKey == key {
		if e.metrics != nil {
			e.metrics.MemoHits.Inc()
		}
		return e.memoOut
	}

	start := time.Now()
	now := e.clock.Now()

	out := make([]models.PromptItem, 0, len(snap.Entries))
	for i := range snap.Entries {
		if Match(&snap.Entries[i], s, liked, e.reg, now) {
			out = append(out, snap.Entries[i])
		}
	}
	Sort(out, s.SortKey, e.col)

	if e.metrics != nil {
		e.metrics.FilterPasses.Inc()
		e.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	}

	e.memoKey = key
	e.memoOut = out
	e.memoOK = true
	return out
}

// memoKeyFor derives the effective memo key: catalog identity plus the full
// criteria selection plus the liked-set version. Date-window filters are
// time-sensitive, so passes using them also key on the current day.
func (e *Engine) memoKeyFor(snap *catalog.Snapshot, s criteria.State, liked LikedSet) string {
	var likedVersion int64
	if liked != nil {
		likedVersion = liked.Version()
	}
	dayBucket := ""
	switch s.DateFilter {
	case criteria.DateToday, criteria.DateWeek, criteria.DateMonth:
		dayBucket = e.clock.Now().UTC().Format("2006-01-02T15")
	}
	return fmt.Sprintf("%s\x1f%s\x1f%d\x1f%s", snap.Revision, s.Key(), likedVersion, dayBucket)
}
