package model

// Estimator is anything that can be fit on rows X with targets y and then predict.
// For classifiers Predict returns class labels (0 or 1).
type Estimator interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// ProbabilisticClassifier additionally reports P(y == 1) per row
type ProbabilisticClassifier interface {
	Estimator
	PredictProba(X [][]float64) ([]float64, error)
}

// Factory builds a fresh, unfitted estimator
type Factory func() Estimator

// countClasses validates binary labels and returns how many of each were seen
func countClasses(model string, y []float64) (neg, pos int, err error) {
	for _, v := range y {
		switch v {
		case 0:
			neg++
		case 1:
			pos++
		default:
			return 0, 0, fitFailure(model, "labels must be 0 or 1", nil)
		}
	}
	return neg, pos, nil
}

func validateShape(model string, X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, fitFailure(model, "no samples", nil)
	}
	if len(X) != len(y) {
		return 0, fitFailure(model, "row and label counts differ", nil)
	}
	width := len(X[0])
	if width == 0 {
		return 0, fitFailure(model, "no features", nil)
	}
	for _, row := range X {
		if len(row) != width {
			return 0, fitFailure(model, "ragged feature matrix", nil)
		}
	}
	return width, nil
}
