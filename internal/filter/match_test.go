package filter

import (
	"testing"
	"time"

	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/internal/testutil"
	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// fakeLiked is a fixed liked-id set for match tests.
type fakeLiked struct {
	ids     map[int64]bool
	version int64
}

func (f *fakeLiked) Contains(id int64) bool { return f.ids[id] }
func (f *fakeLiked) Version() int64         { return f.version }

func mustRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	return reg
}

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestMatch_EmptyCriteriaMatchesAll(t *testing.T) {
	reg := mustRegistry(t)
	e := testutil.NewPrompt(1)
	if !Match(&e, criteria.Default(), nil, reg, testNow) {
		t.Error("default criteria should match any entry")
	}
}

func TestMatch_SearchTerm(t *testing.T) {
	reg := mustRegistry(t)

	entry := testutil.NewPrompt(1,
		testutil.WithTitle("Cat in a Hat Portrait"),
		testutil.WithTags("cute", "animal"),
		testutil.WithSource("PromptHub", "#"),
		testutil.WithPrompts("a tabby cat wearing a striped hat"),
	)

	tests := []struct {
		name string
		term string
		want bool
	}{
		{"title substring case-insensitive", "cat in a hat", true},
		{"tag substring", "anim", true},
		{"source name", "prompthub", true},
		{"prompt text", "striped hat", true},
		{"model display name", "nanobanana", true},
		{"no field matches", "zebra", false},
		{"empty term matches", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := criteria.Default()
			s.SearchTerm = tt.term
			if got := Match(&entry, s, nil, reg, testNow); got != tt.want {
				t.Errorf("Match(term=%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestMatch_CategoryAnyLogic(t *testing.T) {
	reg := mustRegistry(t)

	sticker := testutil.NewPrompt(1, testutil.WithTags("sticker", "cute"))
	plain := testutil.NewPrompt(2, testutil.WithTags("landscape"))

	s := criteria.Default()
	s.CategoryID = "emoji"

	if !Match(&sticker, s, nil, reg, testNow) {
		t.Error("entry with one emoji tag should pass the any-logic gate")
	}
	if Match(&plain, s, nil, reg, testNow) {
		t.Error("entry without any emoji tag should fail the gate")
	}
}

func TestMatch_CategoryAllLogic(t *testing.T) {
	reg := mustRegistry(t)

	tagged := testutil.NewPrompt(1, testutil.WithTags("Avatar", "portrait"))
	missing := testutil.NewPrompt(2, testutil.WithTags("portrait"))

	s := criteria.Default()
	s.CategoryID = "avatar"

	if !Match(&tagged, s, nil, reg, testNow) {
		t.Error("entry carrying the avatar tag should pass, case-insensitively")
	}
	if Match(&missing, s, nil, reg, testNow) {
		t.Error("entry missing a required tag should fail the all-logic gate")
	}
}

func TestMatch_CategoryWithTermRequiresTitle(t *testing.T) {
	reg := mustRegistry(t)

	// Tag gate passes, term appears only in the prompt text.
	entry := testutil.NewPrompt(1,
		testutil.WithTitle("Glossy Sticker Pack"),
		testutil.WithTags("emoji"),
		testutil.WithPrompts("a grumpy walrus emoji"),
	)

	s := criteria.Default()
	s.CategoryID = "emoji"
	s.SearchTerm = "walrus"
	if Match(&entry, s, nil, reg, testNow) {
		t.Error("with a category active the term must match the title")
	}

	s.SearchTerm = "glossy"
	if !Match(&entry, s, nil, reg, testNow) {
		t.Error("title match alongside the category gate should pass")
	}
}

func TestMatch_UnknownCategoryMatchesNothing(t *testing.T) {
	reg := mustRegistry(t)
	e := testutil.NewPrompt(1, testutil.WithTags("emoji"))

	s := criteria.Default()
	s.CategoryID = "no-such-category"
	if Match(&e, s, nil, reg, testNow) {
		t.Error("an unresolvable category reference should match nothing")
	}
}

func TestMatch_ManualTagsOrSemantics(t *testing.T) {
	reg := mustRegistry(t)

	e := testutil.NewPrompt(1, testutil.WithTags("cat", "portrait"))

	s := criteria.Default()
	s.Tags = []string{"cat", "dog"}
	if !Match(&e, s, nil, reg, testNow) {
		t.Error("one matching manual tag should be enough")
	}

	s.Tags = []string{"dog", "bird"}
	if Match(&e, s, nil, reg, testNow) {
		t.Error("no matching manual tag should exclude the entry")
	}
}

func TestMatch_CategoryImpliedTagsSkipped(t *testing.T) {
	reg := mustRegistry(t)

	// Passes the emoji gate via "sticker" but does not carry "emoji" itself.
	e := testutil.NewPrompt(1, testutil.WithTags("sticker"))

	s := criteria.Default()
	s.CategoryID = "emoji"
	s.Tags = []string{"emoji", "sticker", "chibi"}
	if !Match(&e, s, nil, reg, testNow) {
		t.Error("tags implied by the category must not be re-required individually")
	}
}

func TestMatch_ModelLeaf(t *testing.T) {
	reg := mustRegistry(t)

	e := testutil.NewPrompt(1, testutil.WithModel("gpt-4o", "GPT-4o"))

	s := criteria.Default()
	s.ModelID = "gpt-4o"
	if !Match(&e, s, nil, reg, testNow) {
		t.Error("exact model id should match")
	}

	s.ModelID = "gpt-image-1"
	if !Match(&e, s, nil, reg, testNow) {
		t.Error("a selection sharing the display name should match")
	}

	s.ModelID = "midjourney-v6"
	if Match(&e, s, nil, reg, testNow) {
		t.Error("a different model should not match")
	}
}

func TestMatch_ModelCategoryMembership(t *testing.T) {
	reg := mustRegistry(t)

	byID := testutil.NewPrompt(1, testutil.WithModel("high_aes_general_v40", "Seedream4.0"))
	byName := testutil.NewPrompt(2, testutil.WithModel("", "Seedream3.0"))
	outsider := testutil.NewPrompt(3, testutil.WithModel("gpt-4o", "GPT-4o"))
	unresolvable := testutil.NewPrompt(4, testutil.WithModel("", "Homegrown Model"))

	s := criteria.Default()
	s.ModelID = "Seedream"

	if !Match(&byID, s, nil, reg, testNow) {
		t.Error("explicit member id should match the category selection")
	}
	if !Match(&byName, s, nil, reg, testNow) {
		t.Error("display name should resolve to a member id and match")
	}
	if Match(&outsider, s, nil, reg, testNow) {
		t.Error("non-member should not match")
	}
	if Match(&unresolvable, s, nil, reg, testNow) {
		t.Error("entry with no resolvable model id should not match a category")
	}

	s = criteria.Default()
	s.ModelCategory = "Seedream"
	if !Match(&byID, s, nil, reg, testNow) {
		t.Error("model-category selection should match members")
	}
	if Match(&outsider, s, nil, reg, testNow) {
		t.Error("model-category selection should exclude non-members")
	}
}

func TestMatch_LikedOnly(t *testing.T) {
	reg := mustRegistry(t)
	liked := &fakeLiked{ids: map[int64]bool{1: true}}

	yes := testutil.NewPrompt(1)
	no := testutil.NewPrompt(2)

	s := criteria.Default()
	s.LikedOnly = true
	if !Match(&yes, s, liked, reg, testNow) {
		t.Error("liked entry should pass")
	}
	if Match(&no, s, liked, reg, testNow) {
		t.Error("unliked entry should be excluded")
	}
	if Match(&yes, s, nil, reg, testNow) {
		t.Error("liked-only with no liked set should match nothing")
	}
}

func TestMatch_DateWindows(t *testing.T) {
	reg := mustRegistry(t)

	mk := func(age time.Duration) models.PromptItem {
		ts := ms(testNow.Add(-age))
		return testutil.NewPrompt(1, testutil.WithTimes(ts, ts))
	}

	tests := []struct {
		name   string
		filter criteria.DateFilter
		age    time.Duration
		want   bool
	}{
		{"today inside", criteria.DateToday, 23 * time.Hour, true},
		{"today outside", criteria.DateToday, 25 * time.Hour, false},
		{"week inside", criteria.DateWeek, 6 * 24 * time.Hour, true},
		{"week outside", criteria.DateWeek, 8 * 24 * time.Hour, false},
		{"month inside", criteria.DateMonth, 29 * 24 * time.Hour, true},
		{"month outside", criteria.DateMonth, 31 * 24 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mk(tt.age)
			s := criteria.Default()
			s.DateFilter = tt.filter
			if got := Match(&e, s, nil, reg, testNow); got != tt.want {
				t.Errorf("Match(%s, age=%v) = %v, want %v", tt.filter, tt.age, got, tt.want)
			}
		})
	}
}

func TestMatch_DateExcludesMissingTimestamps(t *testing.T) {
	reg := mustRegistry(t)

	e := testutil.NewPrompt(1, testutil.WithTimes(0, 0))

	s := criteria.Default()
	if !Match(&e, s, nil, reg, testNow) {
		t.Error("no date filter: entry without timestamps should pass")
	}

	for _, f := range []criteria.DateFilter{criteria.DateToday, criteria.DateWeek, criteria.DateMonth, criteria.DateCustom} {
		s.DateFilter = f
		s.CustomRange = criteria.DateRange{Start: "2025-08-01"}
		if Match(&e, s, nil, reg, testNow) {
			t.Errorf("filter %s: entry without timestamps should be excluded", f)
		}
	}
}

func TestMatch_CustomRangeBounds(t *testing.T) {
	reg := mustRegistry(t)

	s := criteria.Default()
	s.DateFilter = criteria.DateCustom
	s.CustomRange = criteria.DateRange{Start: "2025-08-10", End: "2025-08-20"}

	endOfDay := time.Date(2025, 8, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	startOfDay := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	inside := testutil.NewPrompt(1, testutil.WithTimes(ms(endOfDay), ms(endOfDay)))
	atStart := testutil.NewPrompt(2, testutil.WithTimes(ms(startOfDay), ms(startOfDay)))
	before := testutil.NewPrompt(3, testutil.WithTimes(ms(startOfDay)-1, ms(startOfDay)-1))
	after := testutil.NewPrompt(4, testutil.WithTimes(ms(endOfDay)+1, ms(endOfDay)+1))

	if !Match(&inside, s, nil, reg, testNow) {
		t.Error("end bound should include the whole end day")
	}
	if !Match(&atStart, s, nil, reg, testNow) {
		t.Error("start bound should include the start of the start day")
	}
	if Match(&before, s, nil, reg, testNow) {
		t.Error("entry before the range should be excluded")
	}
	if Match(&after, s, nil, reg, testNow) {
		t.Error("entry after the range should be excluded")
	}
}
