package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/junxiaopang/promptvault/internal/event"
	"github.com/junxiaopang/promptvault/internal/testutil"
)

func TestService_ReloadSwapsSnapshot(t *testing.T) {
	reg := mustRegistry(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"id": 1, "title": "One"}, {"id": 2}]`)

	svc := NewService(NewLoader(dir, testutil.Logger()), reg, nil, nil, testutil.Logger())

	initial := svc.Snapshot()
	if len(initial.Entries) != 0 {
		t.Fatalf("initial snapshot should be empty, got %d entries", len(initial.Entries))
	}

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.Entries) != 1 || snap.Entries[0].Title != "One" {
		t.Errorf("entries = %+v", snap.Entries)
	}
	if snap.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", snap.Dropped)
	}
	if snap.Revision == initial.Revision {
		t.Error("reload must produce a new revision")
	}
}

func TestService_ReloadPublishesEvent(t *testing.T) {
	reg := mustRegistry(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"id": 1, "title": "One"}]`)

	rec := testutil.NewBusRecorder()
	svc := NewService(NewLoader(dir, testutil.Logger()), reg, rec.Bus, nil, testutil.Logger())

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	// Delivery is asynchronous.
	deadline := time.Now().Add(2 * time.Second)
	for {
		topics := rec.Topics()
		if len(topics) > 0 {
			if topics[0] != event.TopicCatalogReloaded {
				t.Errorf("topic = %q, want %q", topics[0], event.TopicCatalogReloaded)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no catalog.reloaded event observed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestService_MissingDirDegradesToEmpty(t *testing.T) {
	reg := mustRegistry(t)
	svc := NewService(NewLoader("does/not/exist", testutil.Logger()), reg, nil, nil, testutil.Logger())

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(svc.Snapshot().Entries) != 0 {
		t.Error("expected empty catalog")
	}
}
