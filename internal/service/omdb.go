package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/repository"
	"popcorn-watchlist-service/pkg/httpclient"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// User-facing messages for the two error kinds the front end distinguishes.
var (
	ErrRequestFailed = errors.New("Something went wrong")
	ErrMovieNotFound = errors.New("Movie not found")
)

const searchCacheSize = 256

// UserMessage converts a lookup error into the text shown to the user
func UserMessage(err error) string {
	if errors.Is(err, ErrMovieNotFound) {
		return ErrMovieNotFound.Error()
	}
	return ErrRequestFailed.Error()
}

// DetailCache is the shared response cache used for detail lookups
type DetailCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrNoDetailCache is returned by cache maintenance when no detail cache is configured
var ErrNoDetailCache = errors.New("detail cache disabled")

// OMDBService handles OMDb API interactions
type OMDBService struct {
	client      *httpclient.Client
	apiKey      string
	baseURL     string
	searchCache *expirable.LRU[string, []model.SearchResult]
	detailCache DetailCache
	detailTTL   time.Duration
}

// OMDBOption configures an OMDBService
type OMDBOption func(*OMDBService)

// WithSearchCacheTTL enables the in-memory search response cache
func WithSearchCacheTTL(ttl time.Duration) OMDBOption {
	return func(s *OMDBService) {
		if ttl > 0 {
			s.searchCache = expirable.NewLRU[string, []model.SearchResult](searchCacheSize, nil, ttl)
		}
	}
}

// WithDetailCache caches detail lookups in cache for ttl
func WithDetailCache(cache DetailCache, ttl time.Duration) OMDBOption {
	return func(s *OMDBService) {
		s.detailCache = cache
		s.detailTTL = ttl
	}
}

// NewOMDBService creates a new OMDBService
func NewOMDBService(client *httpclient.Client, apiKey, baseURL string, opts ...OMDBOption) *OMDBService {
	s := &OMDBService{
		client:  client,
		apiKey:  apiKey,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OMDBService) endpoint(param, value string) string {
	q := url.Values{}
	q.Set("apikey", s.apiKey)
	q.Set(param, value)
	return s.baseURL + "?" + q.Encode()
}

// fetch performs one request and folds transport failures into ErrRequestFailed.
// Context cancellation is passed through untouched so callers can tell it apart.
func (s *OMDBService) fetch(ctx context.Context, target string, dest interface{}) error {
	data, err := s.client.FetchJSON(ctx, target)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: parse response: %v", ErrRequestFailed, err)
	}
	return nil
}

// Search finds movies whose title matches query
func (s *OMDBService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if s.searchCache != nil {
		if cached, ok := s.searchCache.Get(key); ok {
			return cached, nil
		}
	}

	var resp model.OMDBSearchResponse
	if err := s.fetch(ctx, s.endpoint("s", query), &resp); err != nil {
		return nil, err
	}
	if resp.Failed() || len(resp.Search) == 0 {
		log.Debug().Str("query", query).Str("reason", resp.Error).Msg("OMDb: no results")
		return nil, ErrMovieNotFound
	}

	results := make([]model.SearchResult, len(resp.Search))
	for i, item := range resp.Search {
		results[i] = item.SearchResult()
	}

	log.Debug().
		Str("query", query).
		Int("count", len(results)).
		Msg("Fetched search results")

	if s.searchCache != nil {
		s.searchCache.Add(key, results)
	}
	return results, nil
}

func detailCacheKey(id string) string {
	return "detail:" + id
}

// GetDetail looks up full details for an external identifier
func (s *OMDBService) GetDetail(ctx context.Context, id string) (*model.MovieDetail, error) {
	detail, _, err := s.GetDetailCached(ctx, id)
	return detail, err
}

// GetDetailCached is GetDetail that also reports whether the response came from the cache
func (s *OMDBService) GetDetailCached(ctx context.Context, id string) (*model.MovieDetail, bool, error) {
	if s.detailCache != nil {
		var cached model.MovieDetail
		err := s.detailCache.Get(ctx, detailCacheKey(id), &cached)
		if err == nil {
			return &cached, true, nil
		}
		if !repository.IsCacheMiss(err) {
			log.Warn().Err(err).Str("id", id).Msg("Detail cache read failed")
		}
	}

	var resp model.OMDBDetailResponse
	if err := s.fetch(ctx, s.endpoint("i", id), &resp); err != nil {
		return nil, false, err
	}
	if resp.Failed() {
		return nil, false, ErrMovieNotFound
	}

	detail := resp.MovieDetail()
	if detail.ID == "" {
		detail.ID = id
	}

	if s.detailCache != nil {
		if err := s.detailCache.Set(ctx, detailCacheKey(id), detail, s.detailTTL); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("Detail cache write failed")
		}
	}
	return &detail, false, nil
}

// DeleteCachedDetail drops the cached detail of id
func (s *OMDBService) DeleteCachedDetail(ctx context.Context, id string) error {
	if s.detailCache == nil {
		return ErrNoDetailCache
	}
	return s.detailCache.Delete(ctx, detailCacheKey(id))
}

// IsConfigured returns true if an API key is set
func (s *OMDBService) IsConfigured() bool {
	return s.apiKey != ""
}

// SearchCacheLen returns the number of cached search responses
func (s *OMDBService) SearchCacheLen() int {
	if s.searchCache == nil {
		return 0
	}
	return s.searchCache.Len()
}

// PurgeSearchCache drops all cached search responses
func (s *OMDBService) PurgeSearchCache() int {
	if s.searchCache == nil {
		return 0
	}
	n := s.searchCache.Len()
	s.searchCache.Purge()
	return n
}
