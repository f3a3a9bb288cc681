// Package memory provides in-memory implementations of the ports, for
// tests and for runs without an index database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/ports"
)

type itemKey struct {
	kind item.Kind
	name string
}

// ItemStore is an in-memory implementation of ports.ItemStore.
type ItemStore struct {
	mu    sync.RWMutex
	items map[itemKey]item.Item
}

var _ ports.ItemStore = (*ItemStore)(nil)

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make(map[itemKey]item.Item),
	}
}

// ReplaceAll discards the stored items and stores items instead.
func (s *ItemStore) ReplaceAll(ctx context.Context, items []item.Item) error {
	fresh := make(map[itemKey]item.Item, len(items))
	for _, it := range items {
		fresh[itemKey{it.Kind, it.Name}] = it
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = fresh
	return nil
}

// Exists reports whether an item is stored.
func (s *ItemStore) Exists(ctx context.Context, kind item.Kind, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[itemKey{kind, name}]
	return ok, nil
}

// List returns the items of kind whose names start with prefix, by name.
func (s *ItemStore) List(ctx context.Context, kind item.Kind, prefix string) ([]item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []item.Item
	for k, it := range s.items {
		if k.kind == kind && strings.HasPrefix(k.name, prefix) {
			result = append(result, it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Count returns the number of stored items per kind.
func (s *ItemStore) Count(ctx context.Context) (map[item.Kind]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[item.Kind]int)
	for k := range s.items {
		counts[k.kind]++
	}
	return counts, nil
}
