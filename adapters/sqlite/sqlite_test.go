package sqlite_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/artpar/tiger/adapters/sqlite"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

func setupTestDB(t *testing.T) (*sqlite.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "tiger-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := sqlite.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(path)
	}

	return db, cleanup
}

// -----------------------------------------------------------------------------
// Migrations
// -----------------------------------------------------------------------------

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 2 {
		t.Errorf("applied migrations = %d, want 2", n)
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := sqlite.NewItemStore(db)
	if err := store.ReplaceAll(context.Background(), []item.Item{{Kind: item.Trait, Name: "brave"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	ok, err := store.Exists(context.Background(), item.Trait, "brave")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true", ok, err)
	}
}

// -----------------------------------------------------------------------------
// ItemStore Tests
// -----------------------------------------------------------------------------

func TestItemStore_ReplaceAllAndExists(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewItemStore(db)
	ctx := context.Background()

	err := store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Trait, Name: "brave", Path: "common/traits/00_traits.txt", Line: 10, Vanilla: true},
		{Kind: item.Culture, Name: "norse", Path: "common/culture/cultures/n.txt", Line: 1},
	})
	if err != nil {
		t.Fatalf("replace all: %v", err)
	}

	ok, err := store.Exists(ctx, item.Trait, "brave")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Error("brave should exist")
	}

	ok, _ = store.Exists(ctx, item.Culture, "brave")
	if ok {
		t.Error("brave is not a culture")
	}

	if err := store.ReplaceAll(ctx, []item.Item{{Kind: item.Faith, Name: "catholic"}}); err != nil {
		t.Fatalf("second replace all: %v", err)
	}
	ok, _ = store.Exists(ctx, item.Trait, "brave")
	if ok {
		t.Error("brave should be gone after ReplaceAll")
	}
}

func TestItemStore_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewItemStore(db)
	ctx := context.Background()

	store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Title, Name: "k_italy", Path: "a.txt", Line: 3, Vanilla: true},
		{Kind: item.Title, Name: "k_france", Path: "a.txt", Line: 9},
		{Kind: item.Title, Name: "e_rome", Path: "a.txt", Line: 1},
	})

	items, err := store.List(ctx, item.Title, "k_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "k_france" || items[1].Name != "k_italy" {
		t.Errorf("names = %s, %s; want k_france, k_italy", items[0].Name, items[1].Name)
	}
	if items[1].Line != 3 || !items[1].Vanilla || items[1].Kind != item.Title {
		t.Errorf("k_italy = %+v", items[1])
	}

	all, _ := store.List(ctx, item.Title, "")
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestItemStore_Count(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewItemStore(db)
	ctx := context.Background()

	store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Trait, Name: "brave"},
		{Kind: item.Trait, Name: "craven"},
		{Kind: item.Region, Name: "world_europe"},
	})

	counts, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[item.Trait] != 2 || counts[item.Region] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

// -----------------------------------------------------------------------------
// RunStore Tests
// -----------------------------------------------------------------------------

func TestRunStore_RecordAndRecent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewRunStore(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		err := store.Record(ctx, run.Run{
			ID:        id,
			Mod:       "My Mod",
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Duration:  1500 * time.Millisecond,
			Files:     10 + i,
			Items:     100,
			Counts:    map[report.Severity]int{report.Warning: i, report.Error: 1},
		})
		if err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-3" || runs[1].ID != "run-2" {
		t.Errorf("order = %s, %s; want run-3, run-2", runs[0].ID, runs[1].ID)
	}
	if runs[0].Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", runs[0].Duration)
	}
	if runs[0].Counts[report.Warning] != 2 || runs[0].Counts[report.Error] != 1 {
		t.Errorf("counts = %v", runs[0].Counts)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("started = %v", runs[0].StartedAt)
	}
}
