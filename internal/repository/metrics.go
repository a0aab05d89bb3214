package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const metricsPrefix = "popcorn:metrics:"

// Metrics stores API metrics in Redis
type Metrics struct {
	client *redis.Client
	now    func() time.Time
}

// APIStats represents statistics for an API endpoint
type APIStats struct {
	Path         string  `json:"path"`
	TotalCalls   int64   `json:"total_calls"`
	SuccessCalls int64   `json:"success_calls"`
	ErrorCalls   int64   `json:"error_calls"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	CacheHits    int64   `json:"cache_hits"`
	CacheMisses  int64   `json:"cache_misses"`
}

// DailyStats represents daily API statistics
type DailyStats struct {
	Date       string  `json:"date"`
	TotalCalls int64   `json:"total_calls"`
	AvgLatency float64 `json:"avg_latency"`
}

// OverallStats represents overall system statistics
type OverallStats struct {
	TotalAPICalls int64        `json:"total_api_calls"`
	TodayAPICalls int64        `json:"today_api_calls"`
	AvgLatencyMs  float64      `json:"avg_latency_ms"`
	CacheHitRate  float64      `json:"cache_hit_rate"`
	TopEndpoints  []APIStats   `json:"top_endpoints"`
	DailyTrend    []DailyStats `json:"daily_trend"`
	ErrorRate     float64      `json:"error_rate"`
	Uptime        int64        `json:"uptime_seconds"`
}

// NewMetrics creates a new Metrics instance on an existing client
func NewMetrics(client *redis.Client) *Metrics {
	return &Metrics{client: client, now: time.Now}
}

// RecordAPICall records an API call
func (m *Metrics) RecordAPICall(ctx context.Context, path string, statusCode int, latencyMs float64, cacheHit bool) error {
	today := m.now().Format("2006-01-02")

	pipe := m.client.Pipeline()

	pathKey := metricsPrefix + "path:" + path
	pipe.HIncrBy(ctx, pathKey, "total", 1)
	pipe.HIncrByFloat(ctx, pathKey, "latency_sum", latencyMs)

	if statusCode >= 200 && statusCode < 400 {
		pipe.HIncrBy(ctx, pathKey, "success", 1)
	} else {
		pipe.HIncrBy(ctx, pathKey, "error", 1)
	}

	if cacheHit {
		pipe.HIncrBy(ctx, pathKey, "cache_hits", 1)
	} else {
		pipe.HIncrBy(ctx, pathKey, "cache_misses", 1)
	}

	dailyKey := metricsPrefix + "daily:" + today
	pipe.HIncrBy(ctx, dailyKey, "total", 1)
	pipe.HIncrByFloat(ctx, dailyKey, "latency_sum", latencyMs)
	pipe.Expire(ctx, dailyKey, 30*24*time.Hour) // Keep 30 days

	pipe.Incr(ctx, metricsPrefix+"global:total")
	pipe.IncrByFloat(ctx, metricsPrefix+"global:latency_sum", latencyMs)

	pipe.SAdd(ctx, metricsPrefix+"paths", path)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record metrics: %w", err)
	}
	return nil
}

// GetAPIStats gets statistics for a specific API path
func (m *Metrics) GetAPIStats(ctx context.Context, path string) (*APIStats, error) {
	result, err := m.client.HGetAll(ctx, metricsPrefix+"path:"+path).Result()
	if err != nil {
		return nil, err
	}

	stats := &APIStats{Path: path}
	if len(result) == 0 {
		return stats, nil
	}

	stats.TotalCalls, _ = strconv.ParseInt(result["total"], 10, 64)
	stats.SuccessCalls, _ = strconv.ParseInt(result["success"], 10, 64)
	stats.ErrorCalls, _ = strconv.ParseInt(result["error"], 10, 64)
	stats.CacheHits, _ = strconv.ParseInt(result["cache_hits"], 10, 64)
	stats.CacheMisses, _ = strconv.ParseInt(result["cache_misses"], 10, 64)
	latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)

	if stats.TotalCalls > 0 {
		stats.AvgLatencyMs = latencySum / float64(stats.TotalCalls)
	}
	return stats, nil
}

// GetOverallStats gets overall system statistics
func (m *Metrics) GetOverallStats(ctx context.Context) (*OverallStats, error) {
	stats := &OverallStats{}

	total, err := m.client.Get(ctx, metricsPrefix+"global:total").Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	latencySum, _ := m.client.Get(ctx, metricsPrefix+"global:latency_sum").Float64()
	stats.TotalAPICalls = total
	if total > 0 {
		stats.AvgLatencyMs = latencySum / float64(total)
	}

	todayKey := metricsPrefix + "daily:" + m.now().Format("2006-01-02")
	stats.TodayAPICalls, _ = m.client.HGet(ctx, todayKey, "total").Int64()

	paths, _ := m.client.SMembers(ctx, metricsPrefix+"paths").Result()
	var allStats []APIStats
	var totalCacheHits, totalCacheMisses, totalErrors int64

	for _, path := range paths {
		pathStats, err := m.GetAPIStats(ctx, path)
		if err == nil && pathStats.TotalCalls > 0 {
			allStats = append(allStats, *pathStats)
			totalCacheHits += pathStats.CacheHits
			totalCacheMisses += pathStats.CacheMisses
			totalErrors += pathStats.ErrorCalls
		}
	}

	sort.Slice(allStats, func(i, j int) bool {
		return allStats[i].TotalCalls > allStats[j].TotalCalls
	})
	if len(allStats) > 10 {
		allStats = allStats[:10]
	}
	stats.TopEndpoints = allStats

	if ops := totalCacheHits + totalCacheMisses; ops > 0 {
		stats.CacheHitRate = float64(totalCacheHits) / float64(ops) * 100
	}
	if total > 0 {
		stats.ErrorRate = float64(totalErrors) / float64(total) * 100
	}

	stats.DailyTrend = m.getDailyTrend(ctx, 7)

	startTime, err := m.client.Get(ctx, metricsPrefix+"server:start_time").Int64()
	if err == nil && startTime > 0 {
		stats.Uptime = m.now().Unix() - startTime
	}

	return stats, nil
}

// getDailyTrend gets daily statistics for the last N days
func (m *Metrics) getDailyTrend(ctx context.Context, days int) []DailyStats {
	var trend []DailyStats

	for i := days - 1; i >= 0; i-- {
		date := m.now().AddDate(0, 0, -i).Format("2006-01-02")

		result, err := m.client.HGetAll(ctx, metricsPrefix+"daily:"+date).Result()
		if err != nil {
			continue
		}

		total, _ := strconv.ParseInt(result["total"], 10, 64)
		latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)

		avgLatency := 0.0
		if total > 0 {
			avgLatency = latencySum / float64(total)
		}

		trend = append(trend, DailyStats{
			Date:       date,
			TotalCalls: total,
			AvgLatency: avgLatency,
		})
	}

	return trend
}

// RecordServerStart records server start time
func (m *Metrics) RecordServerStart(ctx context.Context) error {
	return m.client.Set(ctx, metricsPrefix+"server:start_time", m.now().Unix(), 0).Err()
}

// ResetMetrics resets all metrics
func (m *Metrics) ResetMetrics(ctx context.Context) error {
	keys, err := m.client.Keys(ctx, metricsPrefix+"*").Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return m.client.Del(ctx, keys...).Err()
	}

	return nil
}
