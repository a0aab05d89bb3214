// Package search keeps the state of the title search box: at most one request is
// current, and only the current request may publish results.
package search

import (
	"context"
	"strings"
	"sync"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/service"

	"github.com/rs/zerolog/log"
)

// MinQueryLength is the shortest trimmed query that triggers a request
const MinQueryLength = 3

// Searcher runs one title search
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// State is what the view renders
type State struct {
	Query     string               `json:"query"`
	Results   []model.SearchResult `json:"results"`
	IsLoading bool                 `json:"isLoading"`
	Error     string               `json:"error"`
}

// Hook runs searches as the query changes
type Hook struct {
	searcher Searcher

	mu        sync.Mutex
	state     State
	gen       uint64
	version   uint64
	cancel    context.CancelFunc
	listeners []func(State)

	// notifyMu serializes delivery; delivered is the newest version handed out.
	notifyMu  sync.Mutex
	delivered uint64

	inflight sync.WaitGroup
}

// NewHook creates an idle Hook
func NewHook(searcher Searcher) *Hook {
	return &Hook{
		searcher: searcher,
		state:    State{Results: []model.SearchResult{}},
	}
}

// SetQuery is called on every change of the query value
func (h *Hook) SetQuery(query string) {
	h.mu.Lock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.gen++

	if len([]rune(strings.TrimSpace(query))) < MinQueryLength {
		h.state = State{Query: query, Results: []model.SearchResult{}}
		version, snapshot := h.commitLocked()
		h.mu.Unlock()
		h.notify(version, snapshot)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	token := h.gen

	h.state.Query = query
	h.state.IsLoading = true
	h.state.Error = ""
	version, snapshot := h.commitLocked()

	h.inflight.Add(1)
	h.mu.Unlock()
	h.notify(version, snapshot)

	go h.run(ctx, token, query)
}

func (h *Hook) run(ctx context.Context, token uint64, query string) {
	defer h.inflight.Done()

	results, err := h.searcher.Search(ctx, query)

	h.mu.Lock()
	// A newer query owns the state now; committing here would show stale results.
	if token != h.gen || ctx.Err() != nil {
		h.mu.Unlock()
		log.Debug().Str("query", query).Msg("Search superseded")
		return
	}
	h.cancel = nil

	h.state.IsLoading = false
	if err != nil {
		h.state.Results = []model.SearchResult{}
		h.state.Error = service.UserMessage(err)
	} else {
		h.state.Results = results
		h.state.Error = ""
	}
	version, snapshot := h.commitLocked()
	h.mu.Unlock()

	h.notify(version, snapshot)
}

// State returns a copy of the current state
func (h *Hook) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hook) snapshotLocked() State {
	s := h.state
	s.Results = append([]model.SearchResult{}, h.state.Results...)
	return s
}

// commitLocked stamps the current state with the next version
func (h *Hook) commitLocked() (uint64, State) {
	h.version++
	return h.version, h.snapshotLocked()
}

// Subscribe registers fn to be called with every new state, in commit order.
// A state that was overtaken by a newer one before delivery is skipped.
// fn must not call SetQuery.
func (h *Hook) Subscribe(fn func(State)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *Hook) notify(version uint64, s State) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()
	if version <= h.delivered {
		return
	}
	h.delivered = version

	h.mu.Lock()
	listeners := append([]func(State){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// Wait blocks until every request started so far has returned
func (h *Hook) Wait() {
	h.inflight.Wait()
}

// Close cancels the current request
func (h *Hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.gen++
	h.state.IsLoading = false
}
