package analysis

import (
	"fmt"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/model"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const (
	minTimeAccuracyRows = 3
	slopeThreshold      = 0.1
)

func notEnoughData() TimeAccuracyResult {
	return TimeAccuracyResult{Slope: 0, Insight: InsightNotEnoughData, Accuracy: fallbackAccuracy}
}

// predictTimeAccuracy tunes a boosted tree ensemble over all six features and
// reports the importance it gives to time spent alongside the best CV R².
// Fit errors are returned wrapped with the operation name.
func (a *Analyzer) predictTimeAccuracy(log types.ActivityLog) (TimeAccuracyResult, error) {
	if len(log) < minTimeAccuracyRows {
		return notEnoughData(), nil
	}
	raw := ExtractFeatures(log)
	if raw.Empty() {
		return notEnoughData(), nil
	}
	processed := a.preprocessor.Process(raw)
	if processed.Len() < minTimeAccuracyRows {
		return notEnoughData(), nil
	}

	search, err := model.GridSearchGB(a.grid, processed.Dense(), processed.Labels, a.folds, a.seed)
	if err != nil {
		return TimeAccuracyResult{}, fmt.Errorf("predict_time_accuracy: %w", err)
	}

	slope := search.Model.FeatureImportances()[ColTimeSpent]
	return TimeAccuracyResult{
		Slope:    slope,
		Insight:  insightFor(slope),
		Accuracy: search.BestScore,
	}, nil
}

// insightFor applies the fixed threshold: strictly above 0.1 means time helps
func insightFor(slope float64) string {
	if slope > slopeThreshold {
		return InsightMoreTime
	}
	return InsightFocused
}
