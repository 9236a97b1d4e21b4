package criteria

import (
	"strings"

	"github.com/junxiaopang/promptvault/pkg/registry"
)

// SelectCategory applies a category selection: the category's valid tags
// replace the manual tag selection, the localized label is injected into
// the search term when the category asks for it, and the liked-only flag is
// cleared. Re-selecting the active category deselects it. Model selection
// is deliberately untouched.
func SelectCategory(s State, cat registry.Category, allTags []string, locale string) State {
	if s.CategoryID == cat.ID {
		return ClearCategory(s)
	}

	s.CategoryID = cat.ID
	s.Tags = ValidTags(cat, allTags)
	if cat.IncludeLabelInSearch {
		s.SearchTerm = cat.LabelFor(locale)
	} else {
		s.SearchTerm = ""
	}
	s.LikedOnly = false
	return s
}

// ClearCategory removes the category selection along with the tags and
// search term it implied.
func ClearCategory(s State) State {
	s.CategoryID = ""
	s.Tags = []string{}
	s.SearchTerm = ""
	s.LikedOnly = false
	return s
}

// SelectModel applies a leaf-model (or model-category, when the id names
// one) selection. The owning model category is resolved and set alongside
// so a single-select control can display either granularity. Competing
// criteria are cleared. An empty id clears both model fields.
func SelectModel(s State, modelID string, reg *registry.Registry) State {
	s.ModelID = modelID
	if modelID == "" {
		s.ModelCategory = ""
		return s
	}

	cat := modelID
	if !reg.IsModelCategory(cat) {
		cat = reg.CategoryOf(modelID)
	}
	if reg.IsModelCategory(cat) {
		s.ModelCategory = cat
	} else {
		s.ModelCategory = ""
	}

	s.CategoryID = ""
	s.Tags = []string{}
	s.SearchTerm = ""
	s.LikedOnly = false
	return s
}

// SelectModelCategory applies a model-category selection from the coarse
// selector. The model field mirrors the category name. An empty name clears
// both fields.
func SelectModelCategory(s State, name string) State {
	s.ModelCategory = name
	if name == "" {
		s.ModelID = ""
		return s
	}

	s.ModelID = name
	s.CategoryID = ""
	s.Tags = []string{}
	s.SearchTerm = ""
	s.LikedOnly = false
	return s
}

// ToggleTag adds or removes one manually selected tag.
func ToggleTag(s State, tag string) State {
	for i, t := range s.Tags {
		if t == tag {
			s.Tags = append(append([]string{}, s.Tags[:i]...), s.Tags[i+1:]...)
			return s
		}
	}
	s.Tags = append(append([]string{}, s.Tags...), tag)
	return s
}

// SetSearch replaces the free-text search term.
func SetSearch(s State, term string) State {
	s.SearchTerm = term
	return s
}

// SetDateFilter switches the date bucketing mode. Selecting "all" drops any
// custom range; setting either custom bound switches the mode to custom.
func SetDateFilter(s State, f DateFilter, rng DateRange) State {
	if !rng.IsZero() {
		f = DateCustom
	}
	s.DateFilter = f
	if f == DateAll {
		s.CustomRange = DateRange{}
	} else {
		s.CustomRange = rng
	}
	return s
}

// SetSort replaces the sort key.
func SetSort(s State, key SortKey) State {
	s.SortKey = key
	return s
}

// SetLikedOnly flips the liked-only filter.
func SetLikedOnly(s State, v bool) State {
	s.LikedOnly = v
	return s
}

// ClearFilters resets the search term, tags, and model selection. Category
// and date filter are left as they are; this mirrors the gallery's
// "clear filters" affordance, not a full reset.
func ClearFilters(s State) State {
	s.SearchTerm = ""
	s.Tags = []string{}
	s.ModelID = ""
	s.ModelCategory = ""
	return s
}

// ValidTags filters a category's declared tags down to ones actually
// observed in the catalog: a declared tag survives when it appears verbatim
// or as a substring of an observed tag. When nothing survives the declared
// tags are used as-is and the filter's OR logic absorbs the mismatch.
// Called once per category selection, never inside the filter hot path.
func ValidTags(cat registry.Category, allTags []string) []string {
	var valid []string
	for _, declared := range cat.Tags {
		for _, observed := range allTags {
			if observed == declared || strings.Contains(observed, declared) {
				valid = append(valid, declared)
				break
			}
		}
	}
	if len(valid) == 0 {
		valid = append(valid, cat.Tags...)
	}
	return valid
}
