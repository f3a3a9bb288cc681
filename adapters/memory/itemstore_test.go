package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/artpar/tiger/adapters/memory"
	"github.com/artpar/tiger/domain/item"
)

func TestItemStore_NewItemStore(t *testing.T) {
	store := memory.NewItemStore()
	if store == nil {
		t.Fatal("NewItemStore returned nil")
	}

	counts, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("new store should be empty, got %v", counts)
	}
}

func TestItemStore_ReplaceAll(t *testing.T) {
	store := memory.NewItemStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Trait, Name: "brave"},
		{Kind: item.Trait, Name: "craven"},
	})
	if err := store.ReplaceAll(ctx, []item.Item{{Kind: item.Culture, Name: "norse"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	ok, _ := store.Exists(ctx, item.Trait, "brave")
	if ok {
		t.Error("brave should be gone after ReplaceAll")
	}
	ok, _ = store.Exists(ctx, item.Culture, "norse")
	if !ok {
		t.Error("norse should exist")
	}
}

func TestItemStore_List(t *testing.T) {
	store := memory.NewItemStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Title, Name: "k_italy"},
		{Kind: item.Title, Name: "k_france"},
		{Kind: item.Title, Name: "e_rome"},
		{Kind: item.Culture, Name: "k_not_a_title"},
	})

	items, err := store.List(ctx, item.Title, "k_")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 kingdoms, got %d", len(items))
	}
	if items[0].Name != "k_france" || items[1].Name != "k_italy" {
		t.Errorf("expected sorted kingdoms, got %s, %s", items[0].Name, items[1].Name)
	}

	all, _ := store.List(ctx, item.Title, "")
	if len(all) != 3 {
		t.Errorf("expected 3 titles, got %d", len(all))
	}
}

func TestItemStore_Count(t *testing.T) {
	store := memory.NewItemStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []item.Item{
		{Kind: item.Trait, Name: "brave"},
		{Kind: item.Trait, Name: "craven"},
		{Kind: item.Faith, Name: "catholic"},
	})

	counts, _ := store.Count(ctx)
	if counts[item.Trait] != 2 {
		t.Errorf("expected 2 traits, got %d", counts[item.Trait])
	}
	if counts[item.Faith] != 1 {
		t.Errorf("expected 1 faith, got %d", counts[item.Faith])
	}
}

func TestItemStore_Concurrent(t *testing.T) {
	store := memory.NewItemStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.ReplaceAll(ctx, []item.Item{{Kind: item.Trait, Name: "brave"}})
		}()
		go func() {
			defer wg.Done()
			store.Exists(ctx, item.Trait, "brave")
			store.List(ctx, item.Trait, "")
		}()
	}
	wg.Wait()

	ok, _ := store.Exists(ctx, item.Trait, "brave")
	if !ok {
		t.Error("brave should exist")
	}
}
