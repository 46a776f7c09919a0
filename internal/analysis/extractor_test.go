package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

// event builds an activity event; an empty topic means "no topic recorded"
func event(topic string, success bool, timeSpent float64, date string) types.ActivityEvent {
	ev := types.ActivityEvent{
		Platform:  "leetcode",
		Success:   types.Outcome(success),
		TimeSpent: timeSpent,
		Date:      date,
	}
	if topic != "" {
		ev.Topic = types.StringPtr(topic)
	}
	return ev
}

// dailyLog builds n events on consecutive days at 18:00 UTC
func dailyLog(successes []bool, timeSpent []float64) types.ActivityLog {
	log := make(types.ActivityLog, len(successes))
	for i := range successes {
		date := fmt.Sprintf("2024-03-%02dT18:00:00Z", i+1)
		log[i] = event(fmt.Sprintf("topic-%d", i%3), successes[i], timeSpent[i], date)
	}
	return log
}

func TestExtractFeatures_EmptyLog(t *testing.T) {
	m := ExtractFeatures(nil)
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Labels)

	m = ExtractFeatures(types.ActivityLog{})
	assert.True(t, m.Empty())
}

func TestExtractFeatures_RowPerEventInOrder(t *testing.T) {
	log := types.ActivityLog{
		event("arrays", true, 12, "2024-01-01T09:00:00Z"),
		event("graphs", false, 45, "2024-01-02T10:00:00Z"),
		event("arrays", true, 30, "2024-01-03T11:00:00Z"),
	}

	m := ExtractFeatures(log)
	require.Equal(t, 3, m.Len())
	require.Len(t, m.Labels, 3)

	for i, ev := range log {
		assert.Len(t, m.Rows[i], FeatureWidth)
		assert.Equal(t, ev.TimeSpent, m.Rows[i][ColTimeSpent])
		assert.Equal(t, ev.Success.Float(), m.Rows[i][ColSuccess])
		assert.Equal(t, ev.Success.Float(), m.Labels[i])
	}
}

func TestExtractFeatures_LogWideAggregates(t *testing.T) {
	tests := []struct {
		name              string
		log               types.ActivityLog
		expectedDiversity float64
		expectedRolling   float64
	}{
		{
			name: "missing topics collapse into unknown",
			log: types.ActivityLog{
				event("", true, 10, "2024-01-01T09:00:00Z"),
				event("", false, 10, "2024-01-01T09:00:00Z"),
				event("dp", true, 10, "2024-01-01T09:00:00Z"),
				event("unknown", true, 10, "2024-01-01T09:00:00Z"),
			},
			expectedDiversity: 2.0 / 4.0,
			expectedRolling:   3.0 / 4.0,
		},
		{
			name: "rolling rate only looks at the last ten events",
			log: func() types.ActivityLog {
				log := make(types.ActivityLog, 0, 12)
				// two early failures fall outside the window
				log = append(log, event("a", false, 5, ""), event("b", false, 5, ""))
				for i := 0; i < 10; i++ {
					log = append(log, event("a", true, 5, ""))
				}
				return log
			}(),
			expectedDiversity: 2.0 / 12.0,
			expectedRolling:   1.0,
		},
		{
			name:              "single event",
			log:               types.ActivityLog{event("trees", false, 20, "")},
			expectedDiversity: 1.0,
			expectedRolling:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ExtractFeatures(tt.log)
			require.Equal(t, len(tt.log), m.Len())
			for _, row := range m.Rows {
				assert.InDelta(t, tt.expectedDiversity, row[ColTopicDiversity], 1e-12)
				assert.InDelta(t, tt.expectedRolling, row[ColRollingSuccess], 1e-12)
			}
		})
	}
}

func TestExtractFeatures_TemporalFeatures(t *testing.T) {
	tests := []struct {
		name         string
		date         string
		expectedDow  float64
		expectedHour float64
	}{
		{name: "monday midnight utc", date: "2024-01-01T00:00:00Z", expectedDow: 0, expectedHour: 0},
		{name: "sunday 23h", date: "2024-01-07T23:00:00Z", expectedDow: 1, expectedHour: 1},
		{name: "wednesday with offset keeps local hour", date: "2024-01-03T12:30:00+05:30", expectedDow: 2.0 / 6.0, expectedHour: 12.0 / 23.0},
		{name: "fractional seconds", date: "2024-01-05T06:15:42.123Z", expectedDow: 4.0 / 6.0, expectedHour: 6.0 / 23.0},
		{name: "naive timestamp", date: "2024-01-06T18:00:00", expectedDow: 5.0 / 6.0, expectedHour: 18.0 / 23.0},
		{name: "date only", date: "2024-01-02", expectedDow: 1.0 / 6.0, expectedHour: 0},
		{name: "malformed", date: "yesterday-ish", expectedDow: 0.5, expectedHour: 0.5},
		{name: "empty", date: "", expectedDow: 0.5, expectedHour: 0.5},
		{name: "out of range month", date: "2024-13-01T10:00:00Z", expectedDow: 0.5, expectedHour: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ExtractFeatures(types.ActivityLog{event("x", true, 1, tt.date)})
			require.Equal(t, 1, m.Len())
			assert.InDelta(t, tt.expectedDow, m.Rows[0][ColDayOfWeek], 1e-12)
			assert.InDelta(t, tt.expectedHour, m.Rows[0][ColHourOfDay], 1e-12)
		})
	}
}

func TestExtractFeatures_MalformedDateDoesNotAffectOtherRows(t *testing.T) {
	log := types.ActivityLog{
		event("a", true, 10, "not a date"),
		event("a", true, 10, "2024-01-01T23:00:00Z"),
	}
	m := ExtractFeatures(log)
	assert.Equal(t, 0.5, m.Rows[0][ColDayOfWeek])
	assert.Equal(t, 0.0, m.Rows[1][ColDayOfWeek])
	assert.Equal(t, 1.0, m.Rows[1][ColHourOfDay])
}
