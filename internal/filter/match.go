// Package filter implements the gallery's decision core: evaluating catalog
// entries against the current criteria and ordering the survivors.
package filter

import (
	"strings"
	"time"

	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

const dayMillis = 24 * 60 * 60 * 1000

// LikedSet answers membership queries over the persisted liked-id set. The
// version changes on every mutation so filter passes can be memoized.
type LikedSet interface {
	Contains(id int64) bool
	Version() int64
}

// Match evaluates one entry against the full criteria state. Inclusion is
// the conjunction of the liked, search/category, tag, model, and date
// predicates; each passes by default when its criterion is unset.
func Match(e *models.PromptItem, s criteria.State, liked LikedSet, reg *registry.Registry, now time.Time) bool {
	if s.LikedOnly && (liked == nil || !liked.Contains(e.ID)) {
		return false
	}
	if !matchSearch(e, s, reg) {
		return false
	}
	if !matchTags(e, s, reg) {
		return false
	}
	if !matchModel(e, s, reg) {
		return false
	}
	return matchDate(e, s, now)
}

// matchSearch applies the combined free-text / category predicate.
//
// With a category selected, the category's tags gate the entry outright
// (ALL or ANY logic per the category); a typed search term then additionally
// requires a title match. Without a category, a typed term searches the
// title, tags, source name, prompts, and model display name.
func matchSearch(e *models.PromptItem, s criteria.State, reg *registry.Registry) bool {
	term := strings.ToLower(s.SearchTerm)

	var cat registry.Category
	hasCategory := false
	if s.CategoryID != "" {
		cat, hasCategory = reg.Category(s.CategoryID)
		// An unresolvable category reference matches nothing.
		if !hasCategory {
			return false
		}
	}

	titleMatch := term != "" && strings.Contains(strings.ToLower(e.Title), term)

	if hasCategory {
		if !matchCategoryTags(e, cat) {
			return false
		}
		if term != "" {
			return titleMatch
		}
		return true
	}

	if term == "" {
		return true
	}
	if titleMatch {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(e.Source.Name), term) {
		return true
	}
	for _, p := range e.Prompts {
		if strings.Contains(strings.ToLower(p), term) {
			return true
		}
	}
	return e.Model != "" && strings.Contains(strings.ToLower(e.Model), term)
}

// matchCategoryTags applies the category's tag rule, case-insensitively.
func matchCategoryTags(e *models.PromptItem, cat registry.Category) bool {
	entryTags := lowerSet(e.Tags)

	if cat.Logic == registry.LogicAll {
		for _, t := range cat.Tags {
			if _, ok := entryTags[strings.ToLower(t)]; !ok {
				return false
			}
		}
		return true
	}
	for _, t := range cat.Tags {
		if _, ok := entryTags[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// matchTags applies the manually selected tags with OR semantics. Tags
// already implied by the active category are skipped here since the
// search/category predicate enforced them.
func matchTags(e *models.PromptItem, s criteria.State, reg *registry.Registry) bool {
	if len(s.Tags) == 0 {
		return true
	}

	categoryDefaults := map[string]struct{}{}
	if s.CategoryID != "" {
		if cat, ok := reg.Category(s.CategoryID); ok {
			categoryDefaults = lowerSet(cat.Tags)
		}
	}

	var manual []string
	for _, t := range s.Tags {
		if _, implied := categoryDefaults[strings.ToLower(t)]; !implied {
			manual = append(manual, t)
		}
	}
	if len(manual) == 0 {
		return true
	}

	entryTags := lowerSet(e.Tags)
	for _, t := range manual {
		if _, ok := entryTags[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// matchModel applies the model / model-category predicate. A selected
// identifier naming a model category matches on category membership; a leaf
// identifier matches the entry's raw id, display name, or verbatim model
// string. With only a model category selected, membership decides.
func matchModel(e *models.PromptItem, s criteria.State, reg *registry.Registry) bool {
	if s.ModelID != "" {
		if members, ok := reg.ModelCategory(s.ModelID); ok {
			return memberOf(reg.ResolveModelRef(e.ModelID, e.Model), members)
		}
		return e.ModelID == s.ModelID ||
			e.Model == reg.ModelName(s.ModelID) ||
			e.Model == s.ModelID
	}
	if s.ModelCategory != "" {
		members, ok := reg.ModelCategory(s.ModelCategory)
		if !ok {
			return false
		}
		return memberOf(reg.ResolveModelRef(e.ModelID, e.Model), members)
	}
	return true
}

// matchDate applies the date bucketing. Entries without any timestamp are
// excluded whenever a date filter is active.
func matchDate(e *models.PromptItem, s criteria.State, now time.Time) bool {
	if s.DateFilter == "" || s.DateFilter == criteria.DateAll {
		return true
	}

	t := e.Timestamp()
	if t == 0 {
		return false
	}

	nowMs := now.UnixMilli()
	switch s.DateFilter {
	case criteria.DateToday:
		return nowMs-t < dayMillis
	case criteria.DateWeek:
		return nowMs-t < 7*dayMillis
	case criteria.DateMonth:
		return nowMs-t < 30*dayMillis
	case criteria.DateCustom:
		if s.CustomRange.IsZero() {
			return true
		}
		start := int64(0)
		if s.CustomRange.Start != "" {
			if day, err := time.ParseInLocation("2006-01-02", s.CustomRange.Start, time.UTC); err == nil {
				start = day.UnixMilli()
			}
		}
		end := nowMs
		if s.CustomRange.End != "" {
			if day, err := time.ParseInLocation("2006-01-02", s.CustomRange.End, time.UTC); err == nil {
				end = day.Add(24*time.Hour - time.Millisecond).UnixMilli()
			}
		}
		return t >= start && t <= end
	}
	return true
}

func memberOf(modelID string, members []string) bool {
	if modelID == "" {
		return false
	}
	for _, m := range members {
		if m == modelID {
			return true
		}
	}
	return false
}

func lowerSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}
