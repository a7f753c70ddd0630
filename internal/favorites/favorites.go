// Package favorites keeps the user's saved businesses in a storage slot.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/engine/storage"
	"github.com/rendis/geofind/internal/logging"
	"github.com/rendis/geofind/internal/model"
)

// Slots is the storage the favorites store needs.
type Slots interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
}

// Store is the favorite set. It is not safe for concurrent use.
type Store struct {
	slots   Slots
	log     logrus.FieldLogger
	order   []string
	byID    map[string]model.Business
	warning string
}

func New(slots Slots, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{slots: slots, log: log, byID: make(map[string]model.Business)}
}

// Load replaces the in-memory set with the persisted one. A corrupt slot
// yields an empty set and a warning instead of an error.
func (s *Store) Load(ctx context.Context) error {
	s.order = nil
	s.byID = make(map[string]model.Business)
	s.warning = ""

	raw, err := s.slots.ReadSlot(ctx, storage.SlotFavorites)
	if err != nil {
		return errors.Wrap(err, "loading favorites")
	}
	if len(raw) == 0 {
		return nil
	}

	var list []model.Business
	if err := json.Unmarshal(raw, &list); err != nil {
		s.warning = fmt.Sprintf("saved favorites could not be read and were reset: %v", err)
		s.log.WithError(err).Warn("corrupt favorites slot, starting empty")
		return nil
	}

	for _, b := range list {
		if b.PlaceID == "" {
			continue
		}
		if _, dup := s.byID[b.PlaceID]; dup {
			continue
		}
		s.byID[b.PlaceID] = b
		s.order = append(s.order, b.PlaceID)
	}
	s.log.WithField("favorites", len(s.order)).Debug("favorites loaded")
	return nil
}

// Warning is the message left by the last Load, if any.
func (s *Store) Warning() string {
	return s.warning
}

// Toggle removes b when present and adds it otherwise, then persists the
// whole set. On a write failure the set is left as it was.
func (s *Store) Toggle(ctx context.Context, b model.Business) (bool, error) {
	if b.PlaceID == "" {
		return false, errors.New("business has no place id")
	}

	prevOrder := append([]string(nil), s.order...)
	prev, had := s.byID[b.PlaceID]

	added := !had
	if had {
		delete(s.byID, b.PlaceID)
		for i, id := range s.order {
			if id == b.PlaceID {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	} else {
		s.byID[b.PlaceID] = b
		s.order = append(s.order, b.PlaceID)
	}

	if err := s.persist(ctx); err != nil {
		s.order = prevOrder
		if had {
			s.byID[b.PlaceID] = prev
		} else {
			delete(s.byID, b.PlaceID)
		}
		return false, err
	}

	s.log.WithFields(logrus.Fields{"place_id": b.PlaceID, "favorite": added}).Info("favorite toggled")
	return added, nil
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.List())
	if err != nil {
		return errors.Wrap(err, "encoding favorites")
	}
	if err := s.slots.WriteSlot(ctx, storage.SlotFavorites, raw); err != nil {
		return errors.Wrap(err, "saving favorites")
	}
	return nil
}

func (s *Store) Contains(placeID string) bool {
	_, ok := s.byID[placeID]
	return ok
}

// List returns the favorites in insertion order.
func (s *Store) List() []model.Business {
	out := make([]model.Business, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}
