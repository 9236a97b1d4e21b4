package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/junxiaopang/promptvault/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoader_MissingDirIsEmpty(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope"), testutil.Logger())
	raw, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("raw = %v, want empty", raw)
	}
}

func TestLoader_ConcatenatesInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of order; load order must follow sorted filenames.
	writeFile(t, dir, "b.json", `[{"id": 2, "title": "Second"}]`)
	writeFile(t, dir, "a.json", `[{"id": 1, "title": "First"}]`)

	l := NewLoader(dir, testutil.Logger())
	raw, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw) != 2 || raw[0].ID != 1 || raw[1].ID != 2 {
		t.Errorf("raw = %+v, want ids [1 2]", raw)
	}
}

func TestLoader_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"not": "an array"}`)
	writeFile(t, dir, "broken.json", `[{"id": 1,`)
	writeFile(t, dir, "good.json", `[{"id": 5, "title": "Survivor"}]`)
	writeFile(t, dir, "notes.txt", `ignored`)

	l := NewLoader(dir, testutil.Logger())
	raw, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw) != 1 || raw[0].ID != 5 {
		t.Errorf("raw = %+v, want the one good record", raw)
	}
}

func TestLoader_ParsesFullRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "full.json", `[{
		"id": 3,
		"slug": "cat-hat",
		"title": "Cat in a Hat",
		"source": {"name": "Hub", "url": "https://hub.example"},
		"prompts": ["a cat"],
		"tags": ["cat", "cute"],
		"coverImage": "https://img.example/cover.png",
		"model": "GPT-4o",
		"modelId": "gpt-4o",
		"create_time": 1700000000000,
		"update_time": 1700000001000,
		"likes": 12,
		"ratio": "3:2"
	}]`)

	l := NewLoader(dir, testutil.Logger())
	raw, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := raw[0]
	if r.Slug != "cat-hat" || r.Title != "Cat in a Hat" {
		t.Errorf("record = %+v", r)
	}
	if r.Source == nil || r.Source.Name != "Hub" {
		t.Errorf("Source = %+v", r.Source)
	}
	if len(r.Tags) != 2 || r.CreateTime != 1700000000000 || r.Likes != 12 {
		t.Errorf("record fields = %+v", r)
	}
}
