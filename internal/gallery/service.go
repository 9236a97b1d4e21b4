// Package gallery ties the catalog, criteria, filter engine, and likes
// together into the session-scoped browsing service the HTTP API exposes.
package gallery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/catalog"
	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/internal/event"
	"github.com/junxiaopang/promptvault/internal/facet"
	"github.com/junxiaopang/promptvault/internal/filter"
	"github.com/junxiaopang/promptvault/internal/likes"
	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

const maxPageSize = 100

// Page is one slice of the filtered, sorted result set.
type Page struct {
	Items   []models.PromptItem `json:"items"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// Facets are the selectable filter options derived from the catalog.
type Facets struct {
	Tags       []string            `json:"tags"`
	ModelTree  []facet.ModelGroup  `json:"model_tree"`
	Available  []facet.ModelGroup  `json:"available_models"`
	Categories []registry.Category `json:"categories"`
}

// Service holds the single session's criteria state and runs the filter
// pipeline over the current catalog snapshot. All mutations go through
// apply, which persists the selection and republishes the state.
type Service struct {
	catalog  *catalog.Service
	engine   *filter.Engine
	likes    *likes.Service
	reg      *registry.Registry
	store    *criteria.Store
	bus      *event.Bus
	logger   *zap.Logger
	locale   string
	pageSize int

	mu    sync.Mutex
	state criteria.State
}

// Options configures a gallery Service.
type Options struct {
	Locale   string
	PageSize int
}

// NewService creates the gallery Service, restoring persisted selections.
func NewService(ctx context.Context, cat *catalog.Service, engine *filter.Engine, lk *likes.Service,
	reg *registry.Registry, store *criteria.Store, bus *event.Bus, logger *zap.Logger, opts Options) *Service {

	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	s := &Service{
		catalog:  cat,
		engine:   engine,
		likes:    lk,
		reg:      reg,
		store:    store,
		bus:      bus,
		logger:   logger,
		locale:   opts.Locale,
		pageSize: opts.PageSize,
	}
	if store != nil {
		s.state = store.Restore(ctx, reg)
	} else {
		s.state = criteria.Default()
	}
	return s
}

// State returns a copy of the current criteria state.
func (s *Service) State() criteria.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Page runs the filter pipeline and slices the requested page. Page numbers
// are 1-based; a zero perPage uses the configured default.
func (s *Service) Page(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.pageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	state := s.State()
	result := s.engine.FilterAndSort(s.catalog.Snapshot(), state, s.likes)

	total := len(result)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]models.PromptItem, end-start)
	copy(items, result[start:end])

	return Page{Items: items, Total: total, Page: page, PerPage: perPage}
}

// Facets derives the selectable options from the current snapshot, with the
// model tree narrowed to the selected model category.
func (s *Service) Facets() Facets {
	snap := s.catalog.Snapshot()
	state := s.State()

	tree := facet.ModelTree(snap.Entries, s.reg)
	return Facets{
		Tags:       facet.Tags(snap.Entries),
		ModelTree:  tree,
		Available:  facet.AvailableModels(tree, state.ModelCategory),
		Categories: s.reg.Categories(),
	}
}

// SetSearch replaces the free-text search term.
func (s *Service) SetSearch(ctx context.Context, term string) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SetSearch(st, term)
	})
}

// SelectCategory applies a category selection; an empty id clears it. An id
// missing from the registry is kept verbatim and degrades to an empty
// result set rather than failing.
func (s *Service) SelectCategory(ctx context.Context, id string) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		if id == "" {
			return criteria.ClearCategory(st)
		}
		cat, ok := s.reg.Category(id)
		if !ok {
			s.logger.Warn("unknown category selected", zap.String("category", id))
			st = criteria.ClearCategory(st)
			st.CategoryID = id
			return st
		}
		allTags := facet.Tags(s.catalog.Snapshot().Entries)
		return criteria.SelectCategory(st, cat, allTags, s.locale)
	})
}

// SelectModel applies a leaf-model or model-category selection.
func (s *Service) SelectModel(ctx context.Context, id string) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SelectModel(st, id, s.reg)
	})
}

// SelectModelCategory applies a coarse model-category selection.
func (s *Service) SelectModelCategory(ctx context.Context, name string) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SelectModelCategory(st, name)
	})
}

// ToggleTag flips one manually selected tag.
func (s *Service) ToggleTag(ctx context.Context, tag string) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.ToggleTag(st, tag)
	})
}

// SetDateFilter switches the date bucketing mode.
func (s *Service) SetDateFilter(ctx context.Context, f criteria.DateFilter, rng criteria.DateRange) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SetDateFilter(st, f, rng)
	})
}

// SetSort replaces the sort key.
func (s *Service) SetSort(ctx context.Context, key criteria.SortKey) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SetSort(st, key)
	})
}

// SetLikedOnly flips the liked-only filter.
func (s *Service) SetLikedOnly(ctx context.Context, v bool) criteria.State {
	return s.apply(ctx, func(st criteria.State) criteria.State {
		return criteria.SetLikedOnly(st, v)
	})
}

// ClearFilters resets search, tags, and model selection.
func (s *Service) ClearFilters(ctx context.Context) criteria.State {
	return s.apply(ctx, criteria.ClearFilters)
}

// ToggleLike flips the liked state of one entry and returns the new state.
func (s *Service) ToggleLike(ctx context.Context, id int64) bool {
	return s.likes.Toggle(ctx, id)
}

// LikedIDs returns the persisted liked ids.
func (s *Service) LikedIDs() []int64 {
	return s.likes.IDs()
}

// Reload refreshes the catalog from disk.
func (s *Service) Reload(ctx context.Context) error {
	return s.catalog.Reload(ctx)
}

// apply runs a reducer under the session lock, persists the resulting
// selection, and publishes the change. Persistence is fire-and-forget.
func (s *Service) apply(ctx context.Context, reduce func(criteria.State) criteria.State) criteria.State {
	s.mu.Lock()
	s.state = reduce(s.state)
	next := s.state
	s.mu.Unlock()

	if s.store != nil {
		s.store.Save(ctx, next)
	}
	if s.bus != nil {
		s.bus.PublishAsync(ctx, event.Event{
			Topic:     event.TopicCriteriaChanged,
			Source:    "gallery",
			Timestamp: time.Now().UTC(),
			Payload:   next,
		})
	}
	return next
}
