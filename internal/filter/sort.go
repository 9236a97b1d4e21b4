package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/pkg/models"
)

// newCollator builds the locale-aware collator used for title and source
// ordering. Unparseable locales fall back to English collation.
func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}

// Sort orders entries in place per the sort key. All orderings are stable:
// title and source ties keep their original relative order, and the latest
// ordering breaks update-time ties by descending id.
func Sort(entries []models.PromptItem, key criteria.SortKey, col *collate.Collator) {
	switch key {
	case criteria.SortTitle:
		sort.SliceStable(entries, func(a, b int) bool {
			return col.CompareString(entries[a].Title, entries[b].Title) < 0
		})
	case criteria.SortLikes:
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Likes > entries[b].Likes
		})
	case criteria.SortSource:
		sort.SliceStable(entries, func(a, b int) bool {
			return col.CompareString(entries[a].Source.Name, entries[b].Source.Name) < 0
		})
	default: // latest
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].UpdateTime != entries[b].UpdateTime {
				return entries[a].UpdateTime > entries[b].UpdateTime
			}
			return entries[a].ID > entries[b].ID
		})
	}
}
