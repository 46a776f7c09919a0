package analysis

import (
	"time"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const (
	rollingWindow   = 10
	neutralTemporal = 0.5
)

// dateLayouts are tried in order; time.Parse also accepts fractional seconds
// after any seconds field.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ExtractFeatures converts a log into one FeatureVector per event, in input order.
// Topic diversity and the rolling success rate are computed once over the whole
// log and repeated on every row.
func ExtractFeatures(log types.ActivityLog) FeatureMatrix {
	if len(log) == 0 {
		return FeatureMatrix{}
	}

	topics := make(map[string]struct{}, len(log))
	for _, ev := range log {
		topics[ev.TopicOrDefault()] = struct{}{}
	}
	diversity := float64(len(topics)) / float64(len(log))
	rolling := rollingSuccessRate(log, rollingWindow)

	m := FeatureMatrix{
		Rows:   make([]FeatureVector, len(log)),
		Labels: make([]float64, len(log)),
	}
	for i, ev := range log {
		dow, hour := temporalFeatures(ev.Date)
		m.Rows[i] = FeatureVector{
			ColTimeSpent:      ev.TimeSpent,
			ColSuccess:        ev.Success.Float(),
			ColTopicDiversity: diversity,
			ColRollingSuccess: rolling,
			ColDayOfWeek:      dow,
			ColHourOfDay:      hour,
		}
		m.Labels[i] = ev.Success.Float()
	}
	return m
}

// rollingSuccessRate is the mean success of the last min(window, len) events
func rollingSuccessRate(log types.ActivityLog, window int) float64 {
	start := len(log) - window
	if start < 0 {
		start = 0
	}
	tail := log[start:]
	if len(tail) == 0 {
		return 0
	}
	sum := 0.0
	for _, ev := range tail {
		sum += ev.Success.Float()
	}
	return sum / float64(len(tail))
}

// temporalFeatures maps a timestamp to (weekday/6, hour/23) with Monday as day 0.
// Unparsable dates get the neutral (0.5, 0.5).
func temporalFeatures(date string) (float64, float64) {
	t, ok := parseEventDate(date)
	if !ok {
		return neutralTemporal, neutralTemporal
	}
	weekday := (int(t.Weekday()) + 6) % 7
	return float64(weekday) / 6.0, float64(t.Hour()) / 23.0
}

func parseEventDate(date string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
