package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const logisticName = "logistic_regression"

// LogisticRegression is an L2-regularized binary logistic model fit with L-BFGS.
// The intercept is not penalized.
type LogisticRegression struct {
	C       float64
	MaxIter int

	coef      []float64
	intercept float64
	fitted    bool
}

// NewLogisticRegression returns a model with C=1 and up to 1000 iterations
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 1.0, MaxIter: 1000}
}

// Fit estimates coefficients. Single-class labels are a FitFailure.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	width, err := validateShape(logisticName, X, y)
	if err != nil {
		return err
	}
	neg, pos, err := countClasses(logisticName, y)
	if err != nil {
		return err
	}
	if neg == 0 || pos == 0 {
		return fitFailure(logisticName, "needs samples of at least 2 classes", nil)
	}

	c := m.C
	if c <= 0 {
		c = 1.0
	}

	// params = [w_0 .. w_{width-1}, b]
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := params[:width], params[width]
			loss := 0.5 * floats.Dot(w, w)
			for i, row := range X {
				z := floats.Dot(w, row) + b
				loss += c * (log1pExp(z) - y[i]*z)
			}
			return loss
		},
		Grad: func(grad, params []float64) {
			w, b := params[:width], params[width]
			copy(grad[:width], w)
			grad[width] = 0
			for i, row := range X {
				r := c * (sigmoid(floats.Dot(w, row)+b) - y[i])
				floats.AddScaled(grad[:width], r, row)
				grad[width] += r
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   m.MaxIter,
	}

	result, err := optimize.Minimize(problem, make([]float64, width+1), settings, &optimize.LBFGS{})
	if result == nil || !allFinite(result.X) {
		return fitFailure(logisticName, "optimizer did not produce a solution", err)
	}

	m.coef = append([]float64(nil), result.X[:width]...)
	m.intercept = result.X[width]
	m.fitted = true
	return nil
}

// PredictProba returns P(y == 1) for each row
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, fitFailure(logisticName, "model is not fitted", nil)
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fitFailure(logisticName, "feature width mismatch", nil)
		}
		out[i] = sigmoid(floats.Dot(m.coef, row) + m.intercept)
	}
	return out, nil
}

// Predict returns 1 where the decision function is positive, else 0
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if !m.fitted {
		return out
	}
	for i, row := range X {
		if floats.Dot(m.coef, row)+m.intercept > 0 {
			out[i] = 1
		}
	}
	return out
}

// Coefficients returns the fitted weights and intercept
func (m *LogisticRegression) Coefficients() ([]float64, float64) {
	return append([]float64(nil), m.coef...), m.intercept
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// log1pExp computes log(1 + e^z) without overflow
func log1pExp(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
