package model

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GridResult is the outcome of a grid search: the winning parameters, their mean
// cross-validated score, and the winner refit on every row.
type GridResult struct {
	Best      GBParams
	BestScore float64
	Scores    []float64
	Model     *GradientBoostingRegressor
}

// GBGrid expands every NEstimators x MaxDepth pair, max depth varying slowest
func GBGrid(nEstimators, maxDepths []int) []GBParams {
	grid := make([]GBParams, 0, len(nEstimators)*len(maxDepths))
	for _, d := range maxDepths {
		for _, n := range nEstimators {
			grid = append(grid, GBParams{NEstimators: n, MaxDepth: d})
		}
	}
	return grid
}

// GridSearchGB scores each candidate with k-fold CV R² and refits the best one.
// Candidates are evaluated concurrently; ties go to the earliest candidate.
func GridSearchGB(grid []GBParams, X [][]float64, y []float64, k int, seed uint64) (*GridResult, error) {
	if len(grid) == 0 {
		return nil, fitFailure(boostingName, "empty parameter grid", nil)
	}
	folds, err := KFold(len(X), k)
	if err != nil {
		return nil, fitFailure(boostingName, "cannot split rows into folds", err)
	}

	scores := make([]float64, len(grid))
	var g errgroup.Group
	for i, params := range grid {
		g.Go(func() error {
			factory := func() Estimator { return NewGradientBoostingRegressor(params, seed) }
			s, err := CrossValScore(factory, X, y, folds, R2)
			if err != nil {
				return fmt.Errorf("candidate %+v: %w", params, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fitFailure(boostingName, "grid search failed", err)
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	refit := NewGradientBoostingRegressor(grid[best], seed)
	if err := refit.Fit(X, y); err != nil {
		return nil, fitFailure(boostingName, "refit failed", err)
	}

	return &GridResult{
		Best:      grid[best],
		BestScore: scores[best],
		Scores:    scores,
		Model:     refit,
	}, nil
}
