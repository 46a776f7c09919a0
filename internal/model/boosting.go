package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const boostingName = "gradient_boosting_regressor"

// GBParams are the tunable hyperparameters of GradientBoostingRegressor
type GBParams struct {
	NEstimators int `json:"n_estimators"`
	MaxDepth    int `json:"max_depth"`
}

// GradientBoostingRegressor fits shallow regression trees to squared-loss
// residuals, starting from the target mean.
type GradientBoostingRegressor struct {
	Params       GBParams
	LearningRate float64
	Seed         uint64

	init  float64
	trees []*RegressionTree
	width int
}

// NewGradientBoostingRegressor returns an unfitted ensemble with learning rate 0.1
func NewGradientBoostingRegressor(params GBParams, seed uint64) *GradientBoostingRegressor {
	return &GradientBoostingRegressor{Params: params, LearningRate: 0.1, Seed: seed}
}

// Fit grows Params.NEstimators trees. Non-finite inputs are a FitFailure.
func (m *GradientBoostingRegressor) Fit(X [][]float64, y []float64) error {
	width, err := validateShape(boostingName, X, y)
	if err != nil {
		return err
	}
	if m.Params.NEstimators <= 0 || m.Params.MaxDepth <= 0 {
		return fitFailure(boostingName, "n_estimators and max_depth must be positive", nil)
	}
	if !allFinite(y) {
		return fitFailure(boostingName, "targets contain NaN or Inf", nil)
	}
	for _, row := range X {
		if !allFinite(row) {
			return fitFailure(boostingName, "features contain NaN or Inf", nil)
		}
	}

	m.width = width
	m.init = stat.Mean(y, nil)
	m.trees = make([]*RegressionTree, 0, m.Params.NEstimators)

	rng := seededRand(m.Seed)
	current := make([]float64, len(y))
	for i := range current {
		current[i] = m.init
	}
	residual := make([]float64, len(y))

	for stage := 0; stage < m.Params.NEstimators; stage++ {
		floats.SubTo(residual, y, current)
		tree := NewRegressionTree(m.Params.MaxDepth, rng)
		if err := tree.Fit(X, residual); err != nil {
			return fitFailure(boostingName, "stage fit failed", err)
		}
		floats.AddScaled(current, m.LearningRate, tree.Predict(X))
		m.trees = append(m.trees, tree)
	}
	return nil
}

// Predict sums the scaled stage predictions on top of the initial mean
func (m *GradientBoostingRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = m.init
	}
	for _, tree := range m.trees {
		floats.AddScaled(out, m.LearningRate, tree.Predict(X))
	}
	return out
}

// FeatureImportances averages each split tree's impurity decrease per feature and
// normalizes the result to sum to 1. All zeros when no tree ever split.
func (m *GradientBoostingRegressor) FeatureImportances() []float64 {
	avg := make([]float64, m.width)
	relevant := 0
	for _, tree := range m.trees {
		if tree.tree.nodeCount() <= 1 {
			continue
		}
		floats.Add(avg, tree.tree.rawImportances())
		relevant++
	}
	if relevant == 0 {
		return avg
	}
	total := floats.Sum(avg)
	if total <= 0 {
		return make([]float64, m.width)
	}
	floats.Scale(1/total, avg)
	return avg
}
