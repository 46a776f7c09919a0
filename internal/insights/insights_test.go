package insights

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/analysis"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

func ev(topic string, success bool, date string) types.ActivityEvent {
	e := types.ActivityEvent{Platform: "leetcode", Success: types.Outcome(success), TimeSpent: 20, Date: date}
	if topic != "" {
		e.Topic = types.StringPtr(topic)
	}
	return e
}

func TestWeakTopics(t *testing.T) {
	tests := []struct {
		name     string
		log      types.ActivityLog
		expected []TopicScore
	}{
		{name: "empty log", log: nil, expected: []TopicScore{}},
		{
			name: "lowest ratios first with name tie break",
			log: types.ActivityLog{
				ev("graphs", false, ""),
				ev("arrays", true, ""),
				ev("dp", false, ""),
				ev("dp", true, ""),
				ev("trees", false, ""),
				ev("arrays", true, ""),
			},
			expected: []TopicScore{
				{Topic: "graphs", Score: 0},
				{Topic: "trees", Score: 0},
				{Topic: "dp", Score: 0.5},
			},
		},
		{
			name: "missing topics are grouped as unknown",
			log: types.ActivityLog{
				ev("", true, ""),
				ev("", false, ""),
				ev("unknown", false, ""),
				ev("math", true, ""),
			},
			expected: []TopicScore{
				{Topic: "unknown", Score: 1.0 / 3.0},
				{Topic: "math", Score: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeakTopics(tt.log))
		})
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name       string
		log        types.ActivityLog
		expectedID []string
	}{
		{name: "empty log", log: nil, expectedID: []string{}},
		{
			name: "heaviest failure weight first",
			log: types.ActivityLog{
				ev("arrays", false, ""),
				ev("graphs", false, ""),
				ev("graphs", false, ""),
				ev("dp", true, ""),
				ev("trees", false, ""),
				ev("trees", false, ""),
				ev("trees", false, ""),
			},
			expectedID: []string{"trees-practice", "graphs-practice", "arrays-practice"},
		},
		{
			name: "ties are reverse alphabetical",
			log: types.ActivityLog{
				ev("arrays", true, ""),
				ev("dp", true, ""),
				ev("math", true, ""),
				ev("graphs", true, ""),
			},
			expectedID: []string{"math-practice", "graphs-practice", "dp-practice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(tt.log)
			require.NotNil(t, recs)
			ids := make([]string, len(recs))
			for i, r := range recs {
				ids[i] = r.ID
				assert.Equal(t, "leetcode", r.Platform)
			}
			assert.Equal(t, tt.expectedID, ids)
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"graphs":              "Practice Graphs",
		"dynamic programming": "Practice Dynamic Programming",
		"two_pointers":        "Practice Two_Pointers",
		"BIT-manipulation":    "Practice Bit-Manipulation",
		"k2sum":               "Practice K2Sum",
		"":                    "Practice ",
	}

	for topic, expected := range tests {
		assert.Equal(t, expected, "Practice "+titleCase(topic), "topic %q", topic)
	}
}

func TestReminderWindow(t *testing.T) {
	tests := []struct {
		name     string
		log      types.ActivityLog
		expected string
	}{
		{name: "empty log", log: nil, expected: "19-21"},
		{
			name: "best success rate wins",
			log: types.ActivityLog{
				ev("a", false, "2024-01-01T08:00:00Z"),
				ev("a", true, "2024-01-02T21:15:00Z"),
				ev("a", true, "2024-01-03T21:45:00Z"),
				ev("a", true, "2024-01-04T08:30:00Z"),
			},
			expected: "21-23",
		},
		{
			name: "window wraps past midnight",
			log: types.ActivityLog{
				ev("a", true, "2024-01-01T23:00:00Z"),
				ev("a", false, "2024-01-01T10:00:00Z"),
			},
			expected: "23-1",
		},
		{
			name: "first hour seen wins ties",
			log: types.ActivityLog{
				ev("a", true, "2024-01-01T07:00:00Z"),
				ev("a", true, "2024-01-01T06:00:00Z"),
			},
			expected: "7-9",
		},
		{
			name: "unreadable dates fall back to the evening",
			log: types.ActivityLog{
				ev("a", true, "2024-01-01"),
				ev("a", false, "2024-01-01Txx:00"),
			},
			expected: "19-21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReminderWindow(tt.log))
		})
	}
}

func TestEventHour(t *testing.T) {
	tests := map[string]int{
		"2024-01-01T09:30:00Z": 9,
		"2024-01-01T9":         9,
		"2024-01-01T9:30":      DefaultReminderHour,
		"2024-01-01":           DefaultReminderHour,
		"":                     DefaultReminderHour,
		"T14":                  14,
	}
	for date, expected := range tests {
		assert.Equal(t, expected, eventHour(date), "date %q", date)
	}
}

type stubPredictor struct {
	perf analysis.PerformanceResult
	ta   analysis.TimeAccuracyResult
	err  error
}

func (s stubPredictor) PredictPerformance(types.ActivityLog) analysis.PerformanceResult {
	return s.perf
}

func (s stubPredictor) PredictTimeAccuracy(types.ActivityLog) (analysis.TimeAccuracyResult, error) {
	return s.ta, s.err
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 14, 5, 9, 0, time.UTC)
}

func TestAggregator_Build(t *testing.T) {
	predictor := stubPredictor{
		perf: analysis.PerformanceResult{SuccessProbability: 0.7, DropRisk: 0.3, Accuracy: 0.8},
		ta:   analysis.TimeAccuracyResult{Slope: 0.4, Insight: analysis.InsightMoreTime, Accuracy: -0.2},
	}
	log := types.ActivityLog{
		ev("graphs", false, "2024-01-01T20:00:00Z"),
		ev("arrays", true, "2024-01-02T20:00:00Z"),
	}

	report, err := NewAggregator(predictor, fixedClock).Build(log)
	require.NoError(t, err)

	assert.Equal(t, Predictions{PotdSuccess: 0.7, RiskOfDrop: 0.3}, report.Predictions)
	assert.Equal(t, TimeInsights{PeakHours: analysis.InsightMoreTime, ReminderWindow: "20-22"}, report.TimeInsights)
	assert.Equal(t, ModelAccuracy{PerformanceAccuracy: 0.8, TimeAccuracyScore: -0.2}, report.ModelAccuracy)
	assert.Equal(t, "2024-06-01 14:05:09", report.LastUpdated)
	assert.Equal(t, WeakTopics(log), report.WeakTopics)
	assert.Equal(t, Recommend(log), report.RecommendedProblems)

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"weakTopics", "predictions", "timeInsights", "recommendedProblems", "modelAccuracy", "lastUpdated"} {
		assert.Contains(t, doc, key)
	}
}

func TestAggregator_BuildPropagatesFitFailure(t *testing.T) {
	cause := errors.New("boom")
	_, err := NewAggregator(stubPredictor{err: cause}, fixedClock).Build(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestAggregator_EmptyLogWithRealAnalyzer(t *testing.T) {
	report, err := NewAggregator(analysis.NewAnalyzer(), fixedClock).Build(nil)
	require.NoError(t, err)

	assert.Empty(t, report.WeakTopics)
	assert.NotNil(t, report.RecommendedProblems)
	assert.Equal(t, Predictions{PotdSuccess: 0.5, RiskOfDrop: 0.5}, report.Predictions)
	assert.Equal(t, TimeInsights{PeakHours: analysis.InsightNotEnoughData, ReminderWindow: "19-21"}, report.TimeInsights)
	assert.Equal(t, ModelAccuracy{PerformanceAccuracy: 0.5, TimeAccuracyScore: 0.5}, report.ModelAccuracy)
}
