// Package watched holds the user's watched list and its persisted form.
package watched

import (
	"context"
	"fmt"
	"sync"

	"popcorn-watchlist-service/internal/model"

	"github.com/rs/zerolog/log"
)

// List is the in-memory watched list. Every mutation rewrites the whole list to the store.
type List struct {
	store Store

	mu      sync.Mutex
	entries []model.WatchedEntry
}

// NewList loads the initial value from store once
func NewList(ctx context.Context, store Store) (*List, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("entries", len(entries)).Msg("Watched list loaded")
	return &List{store: store, entries: entries}, nil
}

// Entries returns a copy of the list in insertion order
func (l *List) Entries() []model.WatchedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.WatchedEntry{}, l.entries...)
}

// Len returns the number of entries
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Add appends entry. Duplicate identifiers are not rejected.
func (l *List) Add(ctx context.Context, entry model.WatchedEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	return l.saveLocked(ctx)
}

// Delete removes the entries with identifier id and reports whether any matched
func (l *List) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]model.WatchedEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(l.entries) {
		return false, nil
	}
	l.entries = kept
	return true, l.saveLocked(ctx)
}

// saveLocked writes the current list. On failure the in-memory list keeps the
// mutation and the next successful save persists it.
func (l *List) saveLocked(ctx context.Context) error {
	if err := l.store.Save(ctx, l.entries); err != nil {
		log.Error().Err(err).Int("entries", len(l.entries)).Msg("Failed to persist watched list")
		return fmt.Errorf("persist watched list: %w", err)
	}
	return nil
}
