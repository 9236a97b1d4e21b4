package criteria

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/settings"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// defaultModelCategory is preselected on a fresh install with no persisted
// state, matching the gallery's historical first-visit behavior.
const defaultModelCategory = "NanoBanana"

// Store persists the category/model selections across restarts through the
// settings repository. The sentinel "ALL" records an explicitly cleared
// selection, distinguishing it from never-saved state.
type Store struct {
	repo   settings.Repository
	logger *zap.Logger
}

// NewStore creates a criteria Store.
func NewStore(repo settings.Repository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Save persists the selection fields of the state. Failures are logged and
// swallowed; persistence is fire-and-forget.
func (st *Store) Save(ctx context.Context, s State) {
	pairs := map[string]string{
		settings.KeyCategory:      orSentinel(s.CategoryID),
		settings.KeyModel:         orSentinel(s.ModelID),
		settings.KeyModelCategory: orSentinel(s.ModelCategory),
	}
	for key, value := range pairs {
		if err := st.repo.Set(ctx, key, value); err != nil {
			st.logger.Warn("persist selection failed",
				zap.String("key", key), zap.Error(err))
		}
	}
}

// Restore builds the initial state from persisted selections. Missing keys
// on a fresh install preselect the default model category; the sentinel
// restores an explicit "no selection". A persisted category id no longer in
// the registry degrades to no selection.
func (st *Store) Restore(ctx context.Context, reg *registry.Registry) State {
	s := Default()

	if cat, found := st.load(ctx, settings.KeyCategory); found && cat != "" {
		if _, ok := reg.Category(cat); ok {
			s.CategoryID = cat
		} else {
			st.logger.Warn("persisted category unknown, ignoring",
				zap.String("category", cat))
		}
	}

	model, modelFound := st.load(ctx, settings.KeyModel)
	modelCat, modelCatFound := st.load(ctx, settings.KeyModelCategory)

	if !modelFound && !modelCatFound {
		// First run: no persisted model state at all.
		s.ModelID = defaultModelCategory
		s.ModelCategory = defaultModelCategory
		return s
	}

	s.ModelID = model
	s.ModelCategory = modelCat
	return s
}

// load fetches one persisted selection. The second return value is false
// when the key has never been written; the sentinel maps to an empty
// selection with found=true.
func (st *Store) load(ctx context.Context, key string) (string, bool) {
	setting, err := st.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			st.logger.Warn("restore selection failed",
				zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if setting.Value == settings.SentinelAll {
		return "", true
	}
	return setting.Value, true
}

func orSentinel(v string) string {
	if v == "" {
		return settings.SentinelAll
	}
	return v
}
