package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/artpar/tiger/adapters/memory"
	"github.com/artpar/tiger/domain/run"
)

func TestRunStore_Recent(t *testing.T) {
	store := memory.NewRunStore()
	ctx := context.Background()
	base := time.Now()

	store.Record(ctx, run.Run{ID: "old", StartedAt: base.Add(-time.Hour)})
	store.Record(ctx, run.Run{ID: "new", StartedAt: base})
	store.Record(ctx, run.Run{ID: "oldest", StartedAt: base.Add(-2 * time.Hour)})

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "old" {
		t.Errorf("expected new, old; got %s, %s", runs[0].ID, runs[1].ID)
	}
}
