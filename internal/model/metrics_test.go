package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		yTrue    []float64
		yPred    []float64
		expected float64
	}{
		{name: "empty", yTrue: nil, yPred: nil, expected: 0},
		{name: "all correct", yTrue: []float64{0, 1, 1}, yPred: []float64{0, 1, 1}, expected: 1},
		{name: "half correct", yTrue: []float64{0, 1, 1, 0}, yPred: []float64{0, 0, 1, 1}, expected: 0.5},
		{name: "none correct", yTrue: []float64{1}, yPred: []float64{0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Accuracy(tt.yTrue, tt.yPred))
		})
	}
}

func TestR2(t *testing.T) {
	tests := []struct {
		name     string
		yTrue    []float64
		yPred    []float64
		expected float64
	}{
		{name: "perfect fit", yTrue: []float64{0, 1, 0, 1}, yPred: []float64{0, 1, 0, 1}, expected: 1},
		{name: "mean prediction", yTrue: []float64{0, 1, 0, 1}, yPred: []float64{0.5, 0.5, 0.5, 0.5}, expected: 0},
		{name: "worse than the mean", yTrue: []float64{0, 1}, yPred: []float64{1, 0}, expected: -3},
		{name: "single target predicted exactly", yTrue: []float64{1}, yPred: []float64{1}, expected: 1},
		{name: "single target missed", yTrue: []float64{1}, yPred: []float64{0.4}, expected: 0},
		{name: "constant targets missed", yTrue: []float64{0, 0}, yPred: []float64{0.1, 0}, expected: 0},
		{name: "empty", yTrue: nil, yPred: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := R2(tt.yTrue, tt.yPred)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}
