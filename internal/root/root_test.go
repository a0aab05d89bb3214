package root

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"popcorn-watchlist-service/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func omdbStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("s") == "kal":
			_, _ = w.Write([]byte(`{"Search":[
				{"Title":"Kalki 2898 AD","Year":"2024","imdbID":"tt12735488","Poster":"N/A"},
				{"Title":"Kal Ho Naa Ho","Year":"2003","imdbID":"tt0347304","Poster":"N/A"}],"Response":"True"}`))
		case q.Get("i") == "tt1375666":
			_, _ = w.Write([]byte(`{"Title":"Inception","Year":"2010","Runtime":"148 min","imdbRating":"7.7",
				"imdbID":"tt1375666","Plot":"Dreams within dreams.","Response":"True"}`))
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Port:           "0",
		GinMode:        "test",
		OMDBAPIKey:     "k",
		OMDBBaseURL:    baseURL,
		HTTPTimeout:    5 * time.Second,
		WatchedStore:   config.StoreFile,
		WatchedKey:     "popcorn:watched",
		WatchedFile:    "data/watched.json",
		CacheTTLSearch: time.Minute,
		CacheTTLDetail: time.Hour,
		LogLevel:       "error",
	}
}

func run(t *testing.T, cfg *config.Config, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd, err := Root(context.Background(), WithConfig(cfg), WithFs(fs), WithLogWriter(io.Discard))
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.Writer = &out
	err = cmd.Run(context.Background(), append([]string{"popcorn"}, args...))
	return out.String(), err
}

func TestUnit_Root_Search(t *testing.T) {
	cfg := testConfig(omdbStub(t).URL)
	fs := afero.NewMemMapFs()

	out, err := run(t, cfg, fs, "search", "kal")
	require.NoError(t, err)
	assert.Contains(t, out, "tt12735488")
	assert.Contains(t, out, "Kal Ho Naa Ho")
	assert.Contains(t, out, "Found 2 results")

	_, err = run(t, cfg, fs, "search", "zzzz")
	require.EqualError(t, err, "Movie not found")

	_, err = run(t, cfg, fs, "search", "ka")
	require.Error(t, err)
}

func TestUnit_Root_Detail(t *testing.T) {
	cfg := testConfig(omdbStub(t).URL)
	fs := afero.NewMemMapFs()

	out, err := run(t, cfg, fs, "detail", "tt1375666")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception (2010)")
	assert.Contains(t, out, "148 min")
	assert.Contains(t, out, "Dreams within dreams.")

	_, err = run(t, cfg, fs, "detail", "tt0000000")
	require.EqualError(t, err, "Movie not found")
}

func TestUnit_Root_WatchedFileStore(t *testing.T) {
	cfg := testConfig(omdbStub(t).URL)
	fs := afero.NewMemMapFs()

	out, err := run(t, cfg, fs, "watched", "add", "--rating", "8", "tt1375666")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Inception (2010), rated 8/10")

	data, err := afero.ReadFile(fs, "data/watched.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"userRating":8`)
	assert.Contains(t, string(data), `"runtime":148`)

	out, err = run(t, cfg, fs, "watched", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 movies")
	assert.Contains(t, out, "tt1375666")

	_, err = run(t, cfg, fs, "watched", "add", "--rating", "11", "tt1375666")
	require.Error(t, err)
	_, err = run(t, cfg, fs, "watched", "add", "--rating", "5", "tt0000000")
	require.EqualError(t, err, "Movie not found")

	out, err = run(t, cfg, fs, "watched", "rm", "tt1375666")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed tt1375666")

	_, err = run(t, cfg, fs, "watched", "rm", "tt1375666")
	require.Error(t, err)
}

func TestUnit_Root_WatchedRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(omdbStub(t).URL)
	cfg.WatchedStore = config.StoreRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	_, err := run(t, cfg, afero.NewMemMapFs(), "watched", "add", "-r", "9", "tt1375666")
	require.NoError(t, err)

	stored, err := mr.Get("popcorn:watched")
	require.NoError(t, err)
	assert.Contains(t, stored, `"userRating":9`)
	assert.True(t, mr.Exists("popcorn:omdb:detail:tt1375666"), "detail lookups go through the redis cache")
}

func TestUnit_Root_RejectsUnknownStore(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.WatchedStore = "postgres"

	_, err := Root(context.Background(), WithConfig(cfg))
	require.Error(t, err)
}
