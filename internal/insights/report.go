package insights

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/analysis"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

// TimestampLayout formats Report.LastUpdated
const TimestampLayout = "2006-01-02 15:04:05"

// Predictions summarizes the performance predictor
type Predictions struct {
	PotdSuccess float64 `json:"potdSuccess"`
	RiskOfDrop  float64 `json:"riskOfDrop"`
}

// TimeInsights pairs the time-accuracy insight with the reminder window
type TimeInsights struct {
	PeakHours      string `json:"peakHours"`
	ReminderWindow string `json:"reminderWindow"`
}

// ModelAccuracy reports the cross-validated scores behind the predictions
type ModelAccuracy struct {
	PerformanceAccuracy float64 `json:"performanceAccuracy"`
	TimeAccuracyScore   float64 `json:"timeAccuracyScore"`
}

// Report is the combined insight document for one user
type Report struct {
	WeakTopics          []TopicScore     `json:"weakTopics"`
	Predictions         Predictions      `json:"predictions"`
	TimeInsights        TimeInsights     `json:"timeInsights"`
	RecommendedProblems []Recommendation `json:"recommendedProblems"`
	ModelAccuracy       ModelAccuracy    `json:"modelAccuracy"`
	LastUpdated         string           `json:"lastUpdated"`
}

// Predictor is the part of the analysis pipeline the aggregator depends on
type Predictor interface {
	PredictPerformance(log types.ActivityLog) analysis.PerformanceResult
	PredictTimeAccuracy(log types.ActivityLog) (analysis.TimeAccuracyResult, error)
}

// Aggregator builds full insight reports
type Aggregator struct {
	predictor Predictor
	now       func() time.Time
}

// NewAggregator creates an aggregator. A nil clock means time.Now.
func NewAggregator(predictor Predictor, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{predictor: predictor, now: now}
}

// Build runs every signal over the log. A time-accuracy fit failure fails the
// whole report.
func (a *Aggregator) Build(log types.ActivityLog) (Report, error) {
	perf := a.predictor.PredictPerformance(log)
	ta, err := a.predictor.PredictTimeAccuracy(log)
	if err != nil {
		return Report{}, fmt.Errorf("build insights: %w", err)
	}

	return Report{
		WeakTopics: WeakTopics(log),
		Predictions: Predictions{
			PotdSuccess: perf.SuccessProbability,
			RiskOfDrop:  perf.DropRisk,
		},
		TimeInsights: TimeInsights{
			PeakHours:      ta.Insight,
			ReminderWindow: ReminderWindow(log),
		},
		RecommendedProblems: Recommend(log),
		ModelAccuracy: ModelAccuracy{
			PerformanceAccuracy: perf.Accuracy,
			TimeAccuracyScore:   ta.Accuracy,
		},
		LastUpdated: a.now().Format(TimestampLayout),
	}, nil
}
