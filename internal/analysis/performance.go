package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/model"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const (
	minPerformanceEvents = 5
	fallbackAccuracy     = 0.5
	neutralProbability   = 0.5

	pathLogistic = "logistic"
	pathTree     = "decision_tree"
)

// estimate is one classifier path's contribution to the performance result
type estimate struct {
	probability float64
	accuracy    float64
}

// fitResult holds either an estimate or the failure that prevented one
type fitResult struct {
	estimate estimate
	failure  error
}

func failed(err error) fitResult {
	return fitResult{failure: err}
}

// predictPerformance fits a logistic model and a shallow tree on time spent alone
// and averages their success probabilities and CV accuracies.
func (a *Analyzer) predictPerformance(log types.ActivityLog) PerformanceResult {
	if len(log) < minPerformanceEvents {
		return PerformanceResult{
			SuccessProbability: neutralProbability,
			DropRisk:           neutralProbability,
			Accuracy:           fallbackAccuracy,
		}
	}

	X := make([][]float64, len(log))
	y := make([]float64, len(log))
	timeSpent := make([]float64, len(log))
	for i, ev := range log {
		X[i] = []float64{ev.TimeSpent}
		y[i] = ev.Success.Float()
		timeSpent[i] = ev.TimeSpent
	}

	var fallbacks []string

	lr := a.fitLogistic(X, y, median(timeSpent))
	if lr.failure != nil {
		lr.estimate = estimate{probability: stat.Mean(y, nil), accuracy: fallbackAccuracy}
		fallbacks = append(fallbacks, pathLogistic)
	}

	dt := a.fitTree(X, y)
	if dt.failure != nil {
		dt.estimate = estimate{probability: lr.estimate.probability, accuracy: fallbackAccuracy}
		fallbacks = append(fallbacks, pathTree)
	}

	prob := clip((lr.estimate.probability+dt.estimate.probability)/2, 0, 1)
	return PerformanceResult{
		SuccessProbability: prob,
		DropRisk:           1 - prob,
		Accuracy:           (lr.estimate.accuracy + dt.estimate.accuracy) / 2,
		Fallbacks:          fallbacks,
	}
}

// fitLogistic estimates P(success) at the median time spent
func (a *Analyzer) fitLogistic(X [][]float64, y []float64, at float64) fitResult {
	lr := model.NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		return failed(err)
	}
	probs, err := lr.PredictProba([][]float64{{at}})
	if err != nil {
		return failed(err)
	}
	acc, err := a.classifierAccuracy(func() model.Estimator { return model.NewLogisticRegression() }, X, y)
	if err != nil {
		return failed(err)
	}
	return fitResult{estimate: estimate{probability: probs[0], accuracy: acc}}
}

// fitTree estimates P(success) as the mean predicted probability over all events
func (a *Analyzer) fitTree(X [][]float64, y []float64) fitResult {
	dt := model.NewDecisionTreeClassifier(a.treeDepth, a.seed)
	if err := dt.Fit(X, y); err != nil {
		return failed(err)
	}
	probs, err := dt.PredictProba(X)
	if err != nil {
		return failed(err)
	}
	acc, err := a.classifierAccuracy(func() model.Estimator {
		return model.NewDecisionTreeClassifier(a.treeDepth, a.seed)
	}, X, y)
	if err != nil {
		return failed(err)
	}
	return fitResult{estimate: estimate{probability: stat.Mean(probs, nil), accuracy: acc}}
}

func (a *Analyzer) classifierAccuracy(factory model.Factory, X [][]float64, y []float64) (float64, error) {
	folds, err := model.StratifiedKFold(y, a.folds)
	if err != nil {
		return 0, err
	}
	return model.CrossValScore(factory, X, y, folds, model.Accuracy)
}
