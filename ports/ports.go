// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/run"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// ContentHasher fingerprints file contents.
type ContentHasher interface {
	Sum(data []byte) string
}

// -----------------------------------------------------------------------------
// Validation Ports
// -----------------------------------------------------------------------------

// ItemIndex answers whether a named item exists. Lookups happen on the
// hot path of validation and must not block.
type ItemIndex interface {
	// ItemExists reports whether an item of kind is defined as name.
	ItemExists(kind item.Kind, name string) bool

	// EventEffectExists reports whether name is a scripted effect defined
	// inside an event file.
	EventEffectExists(name string) bool
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ItemStore persists the item index between runs.
type ItemStore interface {
	// ReplaceAll discards stored items and stores items instead.
	ReplaceAll(ctx context.Context, items []item.Item) error

	// Exists reports whether an item of kind named name is stored.
	Exists(ctx context.Context, kind item.Kind, name string) (bool, error)

	// List returns stored items of kind whose names start with prefix.
	List(ctx context.Context, kind item.Kind, prefix string) ([]item.Item, error)

	// Count returns how many items of each kind are stored.
	Count(ctx context.Context) (map[item.Kind]int, error)
}

// RunStore keeps a history of validation runs.
type RunStore interface {
	// Record stores a finished run.
	Record(ctx context.Context, r run.Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]run.Run, error)
}
