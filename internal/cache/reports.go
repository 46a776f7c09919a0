package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
)

// ReportCache keeps each user's latest stored insight report in memory
type ReportCache struct {
	cache *Cache
}

// NewReportCache creates a report cache with the given TTL
func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{cache: NewCache(ttl, ttl)}
}

func reportKey(userID string) string {
	return "report:" + userID
}

// Get returns the cached report for userID
func (rc *ReportCache) Get(userID string) (insights.Report, bool) {
	data, found := rc.cache.Get(reportKey(userID))
	if !found {
		return insights.Report{}, false
	}

	var report insights.Report
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Error("Failed to unmarshal cached report", "error", err, "user_id", userID)
		rc.cache.Delete(reportKey(userID))
		return insights.Report{}, false
	}
	return report, true
}

// Set caches report as userID's latest
func (rc *ReportCache) Set(userID string, report insights.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		slog.Error("Failed to marshal report for cache", "error", err, "user_id", userID)
		return
	}
	rc.cache.Set(reportKey(userID), data)
}

// Invalidate drops userID's cached report
func (rc *ReportCache) Invalidate(userID string) {
	rc.cache.Delete(reportKey(userID))
}

// Stats returns the underlying cache statistics
func (rc *ReportCache) Stats() map[string]interface{} {
	return rc.cache.Stats()
}

// Close stops the cleanup goroutine
func (rc *ReportCache) Close() {
	rc.cache.Close()
}
