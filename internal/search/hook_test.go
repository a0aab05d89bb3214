package search

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher answers each query from a table. Queries listed in block wait
// until released or cancelled.
type fakeSearcher struct {
	mu        sync.Mutex
	calls     []string
	responses map[string][]model.SearchResult
	errs      map[string]error
	block     map[string]chan struct{}
	started   chan string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		responses: map[string][]model.SearchResult{},
		errs:      map[string]error{},
		block:     map[string]chan struct{}{},
		started:   make(chan string, 16),
	}
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	gate := f.block[query]
	res, err := f.responses[query], f.errs[query]
	f.mu.Unlock()

	f.started <- query
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func results(n int) []model.SearchResult {
	out := make([]model.SearchResult, n)
	for i := range out {
		out[i] = model.SearchResult{ID: fmt.Sprintf("tt%07d", i), Title: fmt.Sprintf("Movie %d", i)}
	}
	return out
}

func TestUnit_Hook_ShortQueryDoesNotFetch(t *testing.T) {
	f := newFakeSearcher()
	h := NewHook(f)

	for _, q := range []string{"", "a", "ab", "  ab  "} {
		h.SetQuery(q)
		h.Wait()
		s := h.State()
		assert.Empty(t, s.Results, q)
		assert.NotNil(t, s.Results, q)
		assert.Equal(t, "", s.Error, q)
		assert.False(t, s.IsLoading, q)
	}
	assert.Zero(t, f.callCount())
}

func TestUnit_Hook_ThreeCharQueryFetches(t *testing.T) {
	f := newFakeSearcher()
	f.responses["kal"] = results(2)
	h := NewHook(f)

	h.SetQuery("kal")
	h.Wait()

	s := h.State()
	assert.Len(t, s.Results, 2)
	assert.Equal(t, "", s.Error)
	assert.False(t, s.IsLoading)
	assert.Equal(t, 1, f.callCount())
}

func TestUnit_Hook_LoadingWhileInFlight(t *testing.T) {
	f := newFakeSearcher()
	gate := make(chan struct{})
	f.block["heat"] = gate
	f.responses["heat"] = results(1)
	h := NewHook(f)

	h.SetQuery("heat")
	<-f.started
	s := h.State()
	assert.True(t, s.IsLoading)
	assert.Equal(t, "", s.Error)

	close(gate)
	h.Wait()
	assert.False(t, h.State().IsLoading)
}

func TestUnit_Hook_ErrorMessages(t *testing.T) {
	f := newFakeSearcher()
	f.errs["zzzz"] = service.ErrMovieNotFound
	f.errs["boom"] = fmt.Errorf("%w: HTTP 500", service.ErrRequestFailed)
	f.responses["heat"] = results(3)
	h := NewHook(f)

	h.SetQuery("heat")
	h.Wait()
	require.Len(t, h.State().Results, 3)

	h.SetQuery("zzzz")
	h.Wait()
	s := h.State()
	assert.Equal(t, "Movie not found", s.Error)
	assert.Empty(t, s.Results)
	assert.False(t, s.IsLoading)

	h.SetQuery("boom")
	h.Wait()
	s = h.State()
	assert.Equal(t, "Something went wrong", s.Error)
	assert.Empty(t, s.Results)

	h.SetQuery("heat")
	<-f.started
	h.Wait()
	assert.Equal(t, "", h.State().Error, "a corrected query clears the error")
}

func TestUnit_Hook_SupersededRequestNeverApplies(t *testing.T) {
	f := newFakeSearcher()
	gateA := make(chan struct{})
	f.block["alien"] = gateA
	f.responses["alien"] = results(5)
	f.responses["aliens"] = results(1)
	h := NewHook(f)

	var mu sync.Mutex
	var seen []State
	h.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	h.SetQuery("alien")
	<-f.started
	h.SetQuery("aliens")
	h.Wait()

	s := h.State()
	assert.Equal(t, "aliens", s.Query)
	assert.Len(t, s.Results, 1)
	assert.Equal(t, "", s.Error)

	mu.Lock()
	defer mu.Unlock()
	for _, st := range seen {
		assert.NotEqual(t, 5, len(st.Results), "stale results were published")
		assert.Equal(t, "", st.Error, "cancellation must not surface as an error")
	}
}

func TestUnit_Hook_SupersededEvenWhenTransportIgnoresCancel(t *testing.T) {
	f := newFakeSearcher()
	h := NewHook(&slowIgnoringSearcher{inner: f, release: make(chan struct{})})
	f.responses["matrix"] = results(4)
	f.responses["memento"] = results(2)

	s := h.searcher.(*slowIgnoringSearcher)
	h.SetQuery("matrix")
	<-f.started
	h.SetQuery("memento")
	<-f.started
	close(s.release)
	h.Wait()

	assert.Equal(t, "memento", h.State().Query)
	assert.Len(t, h.State().Results, 2)
}

// slowIgnoringSearcher finishes "matrix" only after release, without looking at ctx.
type slowIgnoringSearcher struct {
	inner   *fakeSearcher
	release chan struct{}
}

func (s *slowIgnoringSearcher) Search(_ context.Context, query string) ([]model.SearchResult, error) {
	res, err := s.inner.Search(context.Background(), query)
	if query == "matrix" {
		<-s.release
	}
	return res, err
}

func TestUnit_Hook_ShortQueryCancelsInFlight(t *testing.T) {
	f := newFakeSearcher()
	f.block["heat"] = make(chan struct{})
	f.responses["heat"] = results(2)
	h := NewHook(f)

	h.SetQuery("heat")
	<-f.started
	h.SetQuery("he")
	h.Wait()

	s := h.State()
	assert.Empty(t, s.Results)
	assert.False(t, s.IsLoading)
	assert.Equal(t, "", s.Error)
}

func TestUnit_Hook_Close(t *testing.T) {
	f := newFakeSearcher()
	f.block["heat"] = make(chan struct{})
	h := NewHook(f)

	h.SetQuery("heat")
	<-f.started
	h.Close()
	h.Wait()
	assert.False(t, h.State().IsLoading)
	assert.Equal(t, "", h.State().Error)
}

func TestUnit_Hook_OvertakenStateIsNotDelivered(t *testing.T) {
	h := NewHook(newFakeSearcher())

	var seen []State
	h.Subscribe(func(s State) { seen = append(seen, s) })

	// A settled first but its delivery lost the race to the next query's loading state.
	h.notify(2, State{Query: "aliens", IsLoading: true})
	h.notify(1, State{Query: "alien", Results: results(5)})

	require.Len(t, seen, 1)
	assert.Equal(t, "aliens", seen[0].Query)
	assert.True(t, seen[0].IsLoading)
}

func TestUnit_Hook_SubscribersSeeCommitOrder(t *testing.T) {
	f := newFakeSearcher()
	f.responses["heat"] = results(2)
	h := NewHook(f)

	var seen []State
	h.Subscribe(func(s State) { seen = append(seen, s) })

	h.SetQuery("heat")
	h.Wait()
	h.SetQuery("he")

	require.Len(t, seen, 3)
	assert.True(t, seen[0].IsLoading)
	assert.Len(t, seen[1].Results, 2)
	assert.Equal(t, "he", seen[2].Query)
	assert.Empty(t, seen[2].Results)
}
