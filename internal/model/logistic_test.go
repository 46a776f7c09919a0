package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticRegression_FitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []float64
	}{
		{name: "single class", X: [][]float64{{1}, {2}, {3}}, y: []float64{1, 1, 1}},
		{name: "no samples", X: nil, y: nil},
		{name: "length mismatch", X: [][]float64{{1}, {2}}, y: []float64{1}},
		{name: "non binary labels", X: [][]float64{{1}, {2}}, y: []float64{0, 2}},
		{name: "ragged rows", X: [][]float64{{1}, {2, 3}}, y: []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLogisticRegression().Fit(tt.X, tt.y)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrModelFit)

			var failure *FitFailure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, logisticName, failure.Model)
		})
	}
}

func TestLogisticRegression_PredictBeforeFit(t *testing.T) {
	m := NewLogisticRegression()
	_, err := m.PredictProba([][]float64{{1}})
	assert.ErrorIs(t, err, ErrModelFit)
	assert.Equal(t, []float64{0}, m.Predict([][]float64{{1}}))
}

func TestLogisticRegression_ProbabilitiesFollowTheData(t *testing.T) {
	X := [][]float64{{10}, {20}, {30}, {40}, {50}, {60}}
	y := []float64{0, 0, 0, 1, 1, 1}

	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))

	coef, _ := m.Coefficients()
	require.Len(t, coef, 1)
	assert.Greater(t, coef[0], 0.0)

	probs, err := m.PredictProba([][]float64{{0}, {35}, {70}})
	require.NoError(t, err)
	assert.Less(t, probs[0], probs[1])
	assert.Less(t, probs[1], probs[2])
	assert.InDelta(t, 0.5, probs[1], 0.05)
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}

	assert.Equal(t, []float64{0, 1}, m.Predict([][]float64{{5}, {65}}))
}

func TestLogisticRegression_WidthMismatch(t *testing.T) {
	m := NewLogisticRegression()
	require.NoError(t, m.Fit([][]float64{{0}, {1}, {2}, {3}}, []float64{0, 1, 0, 1}))
	_, err := m.PredictProba([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrModelFit)
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, sigmoid(0))
	assert.InDelta(t, 1.0, sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-800), 1e-12)
	assert.InDelta(t, 800.0, log1pExp(800), 1e-9)
}
