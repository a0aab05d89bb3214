// Package session is the single-user application state behind the UI: the search
// box, the selected movie with its rating, and the watched list.
package session

import (
	"context"
	"errors"
	"sync"

	"popcorn-watchlist-service/internal/detail"
	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/rating"
	"popcorn-watchlist-service/internal/search"
	"popcorn-watchlist-service/internal/watched"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoSelection is returned when an action needs a selected movie
	ErrNoSelection = errors.New("no movie selected")
	// ErrDetailNotReady is returned when adding before the detail has loaded
	ErrDetailNotReady = errors.New("movie details not loaded")
	// ErrNotRated is returned when adding a movie the user has not rated
	ErrNotRated = errors.New("movie not rated")
)

// Selection is the detail panel plus the rating control state
type Selection struct {
	detail.State
	UserRating int `json:"userRating"`
	Revisions  int `json:"ratingRevisions"`
}

// Session wires the search hook, detail view, rating and watched list together
type Session struct {
	hook    *search.Hook
	fetcher detail.Fetcher
	list    *watched.List

	mu       sync.Mutex
	selected string
	view     *detail.View
	rating   *rating.Control
}

// New creates a Session
func New(hook *search.Hook, fetcher detail.Fetcher, list *watched.List) *Session {
	return &Session{
		hook:    hook,
		fetcher: fetcher,
		list:    list,
	}
}

// SetQuery forwards a change of the search box
func (s *Session) SetQuery(query string) search.State {
	s.hook.SetQuery(query)
	return s.hook.State()
}

// Search returns the current search state
func (s *Session) Search() search.State {
	return s.hook.State()
}

// WaitSearch blocks until the current search settles
func (s *Session) WaitSearch() {
	s.hook.Wait()
}

// Select opens id in the detail panel. Selecting the open movie again closes it.
// It reports whether a movie is selected afterwards.
func (s *Session) Select(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == id {
		s.closeLocked()
		return false
	}

	s.selected = id
	s.view = detail.Open(context.WithoutCancel(ctx), s.fetcher, id)
	s.rating = rating.New()
	log.Debug().Str("id", id).Msg("Movie selected")
	return true
}

// Close clears the selection (back button, escape key)
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.selected = ""
	s.view = nil
	s.rating = nil
}

// Selection returns the open detail panel
func (s *Session) Selection() (Selection, error) {
	s.mu.Lock()
	view, ctl := s.view, s.rating
	s.mu.Unlock()

	if view == nil {
		return Selection{}, ErrNoSelection
	}
	return Selection{
		State:      view.State(),
		UserRating: ctl.Value(),
		Revisions:  ctl.Revisions(),
	}, nil
}

// WaitSelection blocks until the open detail panel has loaded
func (s *Session) WaitSelection() {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()
	if view != nil {
		view.Wait()
	}
}

// Rate records a star rating for the open movie
func (s *Session) Rate(n int) error {
	s.mu.Lock()
	ctl := s.rating
	s.mu.Unlock()

	if ctl == nil {
		return ErrNoSelection
	}
	return ctl.Set(n)
}

// AddSelected appends the open, rated movie to the watched list and closes the panel
func (s *Session) AddSelected(ctx context.Context) (model.WatchedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return model.WatchedEntry{}, ErrNoSelection
	}
	state := s.view.State()
	if state.IsLoading || state.Detail == nil {
		return model.WatchedEntry{}, ErrDetailNotReady
	}
	if s.rating.Value() == 0 {
		return model.WatchedEntry{}, ErrNotRated
	}

	entry := model.NewWatchedEntry(*state.Detail, s.rating.Value(), s.rating.Revisions())
	err := s.list.Add(ctx, entry)
	s.closeLocked()

	log.Info().
		Str("id", entry.ID).
		Int("user_rating", entry.UserRating).
		Int("revisions", entry.RatingRevisionCount).
		Msg("Added to watched list")
	return entry, err
}

// DeleteWatched removes id from the watched list
func (s *Session) DeleteWatched(ctx context.Context, id string) (bool, error) {
	return s.list.Delete(ctx, id)
}

// Watched returns the watched list
func (s *Session) Watched() []model.WatchedEntry {
	return s.list.Entries()
}

// Summary returns the aggregates over the watched list
func (s *Session) Summary() watched.Summary {
	return watched.Summarize(s.list.Entries())
}

// Shutdown cancels the in-flight search
func (s *Session) Shutdown() {
	s.hook.Close()
}
