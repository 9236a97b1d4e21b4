package filter

import (
	"testing"

	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/internal/testutil"
	"github.com/junxiaopang/promptvault/pkg/models"
)

func ids(entries []models.PromptItem) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSort_LatestWithIDTiebreak(t *testing.T) {
	entries := []models.PromptItem{
		testutil.NewPrompt(1, testutil.WithTimes(100, 100)),
		testutil.NewPrompt(2, testutil.WithTimes(300, 300)),
		testutil.NewPrompt(3, testutil.WithTimes(300, 300)),
		testutil.NewPrompt(4, testutil.WithTimes(200, 200)),
	}

	Sort(entries, criteria.SortLatest, newCollator("en"))

	want := []int64{3, 2, 4, 1}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("latest order = %v, want %v", got, want)
	}
}

func TestSort_LikesDescending(t *testing.T) {
	entries := []models.PromptItem{
		testutil.NewPrompt(1, testutil.WithLikes(50)),
		testutil.NewPrompt(2, testutil.WithLikes(900)),
		testutil.NewPrompt(3, testutil.WithLikes(200)),
	}

	Sort(entries, criteria.SortLikes, newCollator("en"))

	want := []int64{2, 3, 1}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("likes order = %v, want %v", got, want)
	}
}

func TestSort_TitleCollation(t *testing.T) {
	entries := []models.PromptItem{
		testutil.NewPrompt(1, testutil.WithTitle("banana")),
		testutil.NewPrompt(2, testutil.WithTitle("Apple")),
		testutil.NewPrompt(3, testutil.WithTitle("cherry")),
	}

	Sort(entries, criteria.SortTitle, newCollator("en"))

	// Collation is case-insensitive at the primary level, unlike a raw
	// byte comparison which would put "Apple" after the lowercase titles.
	want := []int64{2, 1, 3}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("title order = %v, want %v", got, want)
	}
}

func TestSort_TitleStableOnTies(t *testing.T) {
	entries := []models.PromptItem{
		testutil.NewPrompt(1, testutil.WithTitle("Same Title")),
		testutil.NewPrompt(2, testutil.WithTitle("Same Title")),
		testutil.NewPrompt(3, testutil.WithTitle("Same Title")),
	}

	Sort(entries, criteria.SortTitle, newCollator("en"))

	want := []int64{1, 2, 3}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("tied titles should keep input order, got %v", got)
	}
}

func TestSort_SourceName(t *testing.T) {
	entries := []models.PromptItem{
		testutil.NewPrompt(1, testutil.WithSource("Zeta Prompts", "#")),
		testutil.NewPrompt(2, testutil.WithSource("Alpha Studio", "#")),
	}

	Sort(entries, criteria.SortSource, newCollator("en"))

	want := []int64{2, 1}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("source order = %v, want %v", got, want)
	}
}
