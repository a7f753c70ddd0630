package storage

import "context"

// Slot names.
const (
	SlotFavorites      = "favorites"
	SlotRecentSearches = "recent_searches"
)

// SlotStore holds named opaque values scoped to one owner. A missing slot
// reads as nil with no error.
type SlotStore interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
	Close() error
}
