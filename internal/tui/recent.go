package tui

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/engine/storage"
	"github.com/rendis/geofind/internal/model"
)

const maxRecent = 10

// Slots is the storage recent searches are kept in.
type Slots interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
}

// LoadRecent returns the saved searches, newest first. Unreadable history
// is treated as empty.
func LoadRecent(ctx context.Context, slots Slots) ([]model.RecentSearch, error) {
	data, err := slots.ReadSlot(ctx, storage.SlotRecentSearches)
	if err != nil {
		return nil, errors.Wrap(err, "loading recent searches")
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []model.RecentSearch
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// SaveRecent records p as the newest search, replacing an earlier entry
// for the same category and location, and returns the updated history.
func SaveRecent(ctx context.Context, slots Slots, p model.SearchParams) ([]model.RecentSearch, error) {
	entry := model.RecentSearch{
		Category:       strings.TrimSpace(p.Category),
		ManualLocation: strings.TrimSpace(p.ManualLocation),
		RadiusKm:       p.RadiusKm,
		SearchedAt:     time.Now(),
	}
	if p.Coords != nil {
		entry.ManualLocation = ""
		entry.Lat = model.Float(p.Coords.Latitude)
		entry.Lng = model.Float(p.Coords.Longitude)
	}

	entries, err := LoadRecent(ctx, slots)
	if err != nil {
		return nil, err
	}

	key := recentKey(entry)
	filtered := make([]model.RecentSearch, 0, len(entries)+1)
	filtered = append(filtered, entry)
	for _, e := range entries {
		if recentKey(e) != key {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return nil, errors.Wrap(err, "encoding recent searches")
	}
	if err := slots.WriteSlot(ctx, storage.SlotRecentSearches, data); err != nil {
		return nil, errors.Wrap(err, "saving recent searches")
	}
	return filtered, nil
}

// recentKey identifies a search by category and location text. Searches at
// the device position share the empty location.
func recentKey(e model.RecentSearch) string {
	return strings.ToLower(e.Category) + "\x00" + strings.ToLower(e.ManualLocation)
}
