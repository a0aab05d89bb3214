package watched

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/repository"

	"github.com/rs/zerolog/log"
)

// Store persists the whole watched list
type Store interface {
	Load(ctx context.Context) ([]model.WatchedEntry, error)
	Save(ctx context.Context, entries []model.WatchedEntry) error
}

// SlotStore keeps the list as one JSON array in a repository.Slot
type SlotStore struct {
	slot repository.Slot
}

// NewSlotStore creates a SlotStore on slot
func NewSlotStore(slot repository.Slot) *SlotStore {
	return &SlotStore{slot: slot}
}

// Load reads the list. An empty slot or a value that does not parse loads as an
// empty list; only read failures of the slot itself are errors.
func (s *SlotStore) Load(ctx context.Context) ([]model.WatchedEntry, error) {
	data, err := s.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSlotEmpty) {
			return []model.WatchedEntry{}, nil
		}
		return nil, fmt.Errorf("read watched list: %w", err)
	}

	var entries []model.WatchedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Int("bytes", len(data)).Msg("Stored watched list is unreadable, starting empty")
		return []model.WatchedEntry{}, nil
	}
	if entries == nil {
		entries = []model.WatchedEntry{}
	}
	return entries, nil
}

// Save overwrites the slot with entries
func (s *SlotStore) Save(ctx context.Context, entries []model.WatchedEntry) error {
	if entries == nil {
		entries = []model.WatchedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode watched list: %w", err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("write watched list: %w", err)
	}
	return nil
}
