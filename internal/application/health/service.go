package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"geobuild-atlas/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// ServiceName is reported by /health/json and the status page.
const ServiceName = "geobuild-atlas-api"

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// DatasetInfo describes the loaded working set.
type DatasetInfo struct {
	Projects  int    `json:"projects"`
	CacheMode string `json:"cacheMode"`
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dataset      DatasetInfo          `json:"dataset"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Status values. Redis is optional: "disabled" does not degrade overall status.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"
	StatusError        = "error"
)

// CollectHealth gathers dependency and traffic data. rdb and db may be nil.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger, dataset DatasetInfo) CollectResult {
	result := CollectResult{
		Dataset:      dataset,
		Dependencies: make(map[string]DepStatus),
	}

	dbDep := DepStatus{Status: StatusDisconnected}
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbDep = DepStatus{Status: StatusConnected, PingMs: &ms}
		} else {
			dbDep.Status = StatusError
		}
	}
	result.Dependencies["database"] = dbDep

	redisDep := DepStatus{Status: StatusDisabled}
	stats := TrafficInfo{AvgResponseTime: "0", SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisDep = DepStatus{Status: StatusConnected, PingMs: &ms}
			startTimeMs = readTraffic(ctx, rdb, &stats, startTimeMs)
		} else {
			redisDep.Status = StatusError
		}
	}
	result.Dependencies["redis"] = redisDep
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	result.Status = "ok"
	if dbDep.Status != StatusConnected || redisDep.Status == StatusError || dataset.Projects == 0 {
		result.Status = "issue"
	}
	return result
}

// readTraffic fills stats from the counters HealthMarker maintains and returns
// the recorded start time, initialising it on first use.
func readTraffic(ctx context.Context, rdb *redis.Client, stats *TrafficInfo, now int64) int64 {
	totalReq, _ := rdb.Get(ctx, middleware.KeyReqTotal).Result()
	totalErr, _ := rdb.Get(ctx, middleware.KeyReqErrors).Result()
	totalTime, _ := rdb.Get(ctx, middleware.KeyResTime).Result()
	resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Result()
	startTimeStr, _ := rdb.Get(ctx, middleware.KeyStartTime).Result()
	lastReqStr, _ := rdb.Get(ctx, middleware.KeyLastReq).Result()

	startTimeMs := now
	if t, err := strconv.ParseInt(startTimeStr, 10, 64); err == nil {
		startTimeMs = t
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, now, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(totalReq)
	stats.FailedCount, _ = strconv.Atoi(totalErr)
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(totalTime, 64)
	if countSum, _ := strconv.Atoi(resCount); countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if lastReqStr != "" {
		var lastReq map[string]interface{}
		if err := json.Unmarshal([]byte(lastReqStr), &lastReq); err == nil {
			stats.LastRequest = lastReq
		}
	}
	return startTimeMs
}

// ResetStats clears the request counters and restarts the uptime clock.
func ResetStats(ctx context.Context, rdb *redis.Client) error {
	keys := []string{
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount,
		middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog,
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}

// RecentErrors returns up to 50 logged 5xx entries, newest first.
func RecentErrors(ctx context.Context, rdb *redis.Client) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0)
	if rdb == nil {
		return out, nil
	}
	entries, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return out, err
	}
	for _, s := range entries {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(s), &m); err == nil && m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}
