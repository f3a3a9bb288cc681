// Package index keeps the names of every item defined by the game and the
// mod, and answers whether a script's references point at something real.
package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/ports"
)

// Index is an in-memory item database. It is safe for concurrent use.
type Index struct {
	mu           sync.RWMutex
	items        map[item.Kind]map[string]item.Item
	eventEffects map[string]item.Item
}

var _ ports.ItemIndex = (*Index)(nil)

// New creates an empty index.
func New() *Index {
	return &Index{
		items:        make(map[item.Kind]map[string]item.Item),
		eventEffects: make(map[string]item.Item),
	}
}

// Add records an item. A mod definition is never replaced by a vanilla one.
func (ix *Index) Add(it item.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.add(it)
}

func (ix *Index) add(it item.Item) {
	byName, ok := ix.items[it.Kind]
	if !ok {
		byName = make(map[string]item.Item)
		ix.items[it.Kind] = byName
	}
	if prev, ok := byName[it.Name]; ok && !prev.Vanilla && it.Vanilla {
		return
	}
	byName[it.Name] = it
}

// AddEventEffect records a `scripted_effect` defined inside an event file.
func (ix *Index) AddEventEffect(it item.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if prev, ok := ix.eventEffects[it.Name]; ok && !prev.Vanilla && it.Vanilla {
		return
	}
	ix.eventEffects[it.Name] = it
}

// ItemExists reports whether kind has an item called name.
func (ix *Index) ItemExists(kind item.Kind, name string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.items[kind][name]
	return ok
}

// EventEffectExists reports whether an event file defines effect name.
func (ix *Index) EventEffectExists(name string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.eventEffects[name]
	return ok
}

// Get returns the definition of kind called name.
func (ix *Index) Get(kind item.Kind, name string) (item.Item, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	it, ok := ix.items[kind][name]
	return it, ok
}

// Items returns the items of kind whose name starts with prefix, sorted
// by name.
func (ix *Index) Items(kind item.Kind, prefix string) []item.Item {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []item.Item
	for name, it := range ix.items[kind] {
		if strings.HasPrefix(name, prefix) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counts returns how many items of each kind are known.
func (ix *Index) Counts() map[item.Kind]int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	counts := make(map[item.Kind]int, len(ix.items))
	for kind, byName := range ix.items {
		counts[kind] = len(byName)
	}
	return counts
}

// Len returns the total number of items, event-local effects excluded.
func (ix *Index) Len() int {
	n := 0
	for _, c := range ix.Counts() {
		n += c
	}
	return n
}

// all returns every item sorted by kind and name.
func (ix *Index) all() []item.Item {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []item.Item
	for _, byName := range ix.items {
		for _, it := range byName {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Persist replaces the contents of store with this index.
func (ix *Index) Persist(ctx context.Context, store ports.ItemStore) error {
	if err := store.ReplaceAll(ctx, ix.all()); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	return nil
}

// Restore creates an index from what store holds.
func Restore(ctx context.Context, store ports.ItemStore) (*Index, error) {
	ix := New()
	for _, kind := range item.Kinds() {
		items, err := store.List(ctx, kind, "")
		if err != nil {
			return nil, fmt.Errorf("restore index: %w", err)
		}
		for _, it := range items {
			ix.Add(it)
		}
	}
	return ix, nil
}
