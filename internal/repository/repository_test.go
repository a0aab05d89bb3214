package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestUnit_Connect_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = Connect(context.Background(), "not a url")
	require.Error(t, err)
}

func TestUnit_Cache_GetSetDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	cache := NewCache(client, "test:", time.Hour)

	var got map[string]string
	require.True(t, IsCacheMiss(cache.Get(ctx, "a", &got)))

	require.NoError(t, cache.Set(ctx, "a", map[string]string{"title": "Heat"}))
	require.NoError(t, cache.Get(ctx, "a", &got))
	assert.Equal(t, "Heat", got["title"])
	assert.True(t, mr.Exists("test:a"), "key is stored under the prefix")

	ttl, err := cache.TTL(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	require.NoError(t, cache.Delete(ctx, "a"))
	require.True(t, IsCacheMiss(cache.Get(ctx, "a", &got)))
}

func TestUnit_Cache_PurgeOnlyTouchesPrefix(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	cache := NewCache(client, "test:", time.Hour)

	require.NoError(t, cache.Set(ctx, "a", 1))
	require.NoError(t, cache.Set(ctx, "b", 2))
	require.NoError(t, mr.Set("other", "keep"))

	deleted, err := cache.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
	assert.True(t, mr.Exists("other"))
}

func TestUnit_Slots_ReadWrite(t *testing.T) {
	_, client := newTestRedis(t)

	slots := map[string]Slot{
		"redis":  NewRedisSlot(client, "popcorn:watched"),
		"file":   NewFileSlot(afero.NewMemMapFs(), "/data/watched.json"),
		"memory": NewMemorySlot(),
	}

	for name, slot := range slots {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := slot.Read(ctx)
			require.ErrorIs(t, err, ErrSlotEmpty)

			require.NoError(t, slot.Write(ctx, []byte(`[1]`)))
			require.NoError(t, slot.Write(ctx, []byte(`[1,2]`)))

			data, err := slot.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(data))
		})
	}
}

func TestUnit_FileSlot_LeavesNoTempFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	slot := NewFileSlot(fs, "/data/watched.json")
	require.NoError(t, slot.Write(context.Background(), []byte(`[]`)))

	exists, err := afero.Exists(fs, "/data/watched.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnit_Metrics_RecordAndAggregate(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()
	m := NewMetrics(client)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	require.NoError(t, m.RecordServerStart(ctx))
	require.NoError(t, m.RecordAPICall(ctx, "/api/v1/movies/:id", 200, 10, true))
	require.NoError(t, m.RecordAPICall(ctx, "/api/v1/movies/:id", 200, 30, false))
	require.NoError(t, m.RecordAPICall(ctx, "/api/v1/search", 500, 20, false))

	path, err := m.GetAPIStats(ctx, "/api/v1/movies/:id")
	require.NoError(t, err)
	assert.EqualValues(t, 2, path.TotalCalls)
	assert.EqualValues(t, 1, path.CacheHits)
	assert.InDelta(t, 20.0, path.AvgLatencyMs, 1e-9)

	overall, err := m.GetOverallStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, overall.TotalAPICalls)
	assert.EqualValues(t, 3, overall.TodayAPICalls)
	require.Len(t, overall.TopEndpoints, 2)
	assert.Equal(t, "/api/v1/movies/:id", overall.TopEndpoints[0].Path)
	assert.InDelta(t, 100.0/3, overall.ErrorRate, 1e-9)
	assert.Len(t, overall.DailyTrend, 7)

	require.NoError(t, m.ResetMetrics(ctx))
	overall, err = m.GetOverallStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, overall.TotalAPICalls)
}
