package analysis

import (
	"github.com/ZanzyTHEbar/codestreak-ml/internal/model"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const (
	defaultSeed      uint64 = 42
	defaultFolds            = 3
	defaultTreeDepth        = 3
)

// Analyzer holds the fixed settings of the prediction pipeline. It carries no
// fitted state: every call extracts, preprocesses and fits from scratch.
type Analyzer struct {
	preprocessor *Preprocessor
	grid         []model.GBParams
	seed         uint64
	folds        int
	treeDepth    int
}

// NewAnalyzer creates an analyzer with the production settings
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		preprocessor: NewPreprocessor(DefaultMaxTimeSpent),
		grid:         model.GBGrid([]int{50, 100}, []int{3, 5}),
		seed:         defaultSeed,
		folds:        defaultFolds,
		treeDepth:    defaultTreeDepth,
	}
}

// PredictPerformance estimates the probability of success on the next attempt.
// Logs shorter than five events get the neutral {0.5, 0.5, 0.5}. It never fails:
// a classifier that cannot be fit is replaced by its fallback values.
func (a *Analyzer) PredictPerformance(log types.ActivityLog) PerformanceResult {
	return a.predictPerformance(log)
}

// PredictTimeAccuracy estimates how much time spent explains success. Logs
// shorter than three events get {0, "Not enough data", 0.5}. Errors wrap
// model.ErrModelFit.
func (a *Analyzer) PredictTimeAccuracy(log types.ActivityLog) (TimeAccuracyResult, error) {
	return a.predictTimeAccuracy(log)
}

// PredictPerformance runs the performance predictor with default settings
func PredictPerformance(log types.ActivityLog) PerformanceResult {
	return NewAnalyzer().PredictPerformance(log)
}

// PredictTimeAccuracy runs the time-accuracy estimator with default settings
func PredictTimeAccuracy(log types.ActivityLog) (TimeAccuracyResult, error) {
	return NewAnalyzer().PredictTimeAccuracy(log)
}
