// Package criteria models the user's current filter and sort selection and
// the pure mutation rules that keep it consistent.
package criteria

import (
	"strings"
)

// DateFilter selects the date bucketing mode.
type DateFilter string

const (
	DateAll    DateFilter = "all"
	DateToday  DateFilter = "today"
	DateWeek   DateFilter = "week"
	DateMonth  DateFilter = "month"
	DateCustom DateFilter = "custom"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortLatest SortKey = "latest"
	SortTitle  SortKey = "title"
	SortLikes  SortKey = "likes"
	SortSource SortKey = "source"
)

// DateRange is an optional custom calendar range, both bounds in
// "2006-01-02" form and both optional.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// State is the complete current filter/sort selection. It is a plain value:
// reducers take a State and return a new one, keeping evaluation
// side-effect free.
type State struct {
	SearchTerm    string     `json:"searchTerm"`
	CategoryID    string     `json:"categoryId,omitempty"`
	Tags          []string   `json:"tags"`
	ModelID       string     `json:"modelId,omitempty"`
	ModelCategory string     `json:"modelCategory,omitempty"`
	DateFilter    DateFilter `json:"dateFilter"`
	CustomRange   DateRange  `json:"customRange"`
	LikedOnly     bool       `json:"likedOnly"`
	SortKey       SortKey    `json:"sortKey"`
}

// Default returns the initial criteria state: everything unset, all dates,
// latest-first ordering.
func Default() State {
	return State{
		Tags:       []string{},
		DateFilter: DateAll,
		SortKey:    SortLatest,
	}
}

// Key returns a stable string identifying this exact selection, used as the
// memoization key for filter passes.
func (s State) Key() string {
	var b strings.Builder
	b.WriteString(s.SearchTerm)
	b.WriteByte(0x1f)
	b.WriteString(s.CategoryID)
	b.WriteByte(0x1f)
	b.WriteString(strings.Join(s.Tags, "\x1e"))
	b.WriteByte(0x1f)
	b.WriteString(s.ModelID)
	b.WriteByte(0x1f)
	b.WriteString(s.ModelCategory)
	b.WriteByte(0x1f)
	b.WriteString(string(s.DateFilter))
	b.WriteByte(0x1f)
	b.WriteString(s.CustomRange.Start)
	b.WriteByte(0x1f)
	b.WriteString(s.CustomRange.End)
	b.WriteByte(0x1f)
	if s.LikedOnly {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteByte(0x1f)
	b.WriteString(string(s.SortKey))
	return b.String()
}

// HasTag reports whether tag is among the selected tags (exact match).
func (s State) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
