// Package detail loads the full record for the selected movie.
package detail

import (
	"context"
	"sync"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/service"

	"github.com/rs/zerolog/log"
)

// Fetcher looks up one movie by external identifier
type Fetcher interface {
	GetDetail(ctx context.Context, id string) (*model.MovieDetail, error)
}

// State is what the detail panel renders
type State struct {
	ID        string             `json:"id"`
	IsLoading bool               `json:"isLoading"`
	Detail    *model.MovieDetail `json:"detail,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// View is the detail panel for one selection. A new selection gets a new View;
// the request of an abandoned View runs to completion and lands on that View only.
type View struct {
	mu    sync.Mutex
	state State
	done  chan struct{}
}

// Open starts loading id and returns immediately
func Open(ctx context.Context, fetcher Fetcher, id string) *View {
	v := &View{
		state: State{ID: id, IsLoading: true},
		done:  make(chan struct{}),
	}
	go v.load(ctx, fetcher, id)
	return v
}

func (v *View) load(ctx context.Context, fetcher Fetcher, id string) {
	defer close(v.done)

	d, err := fetcher.GetDetail(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.IsLoading = false
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Detail fetch failed")
		v.state.Error = service.UserMessage(err)
		return
	}
	v.state.Detail = d
}

// State returns a copy of the current state
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	if s.Detail != nil {
		d := *s.Detail
		s.Detail = &d
	}
	return s
}

// Wait blocks until the fetch has settled
func (v *View) Wait() {
	<-v.done
}

// Done is closed once the fetch has settled
func (v *View) Done() <-chan struct{} {
	return v.done
}
