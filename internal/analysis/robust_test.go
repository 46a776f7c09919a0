package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// isFinite checks if a float64 value is finite (not NaN or Inf)
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "median of empty slice", input: []float64{}, expected: 0},
		{name: "median of single element", input: []float64{5.0}, expected: 5.0},
		{name: "median of odd length slice", input: []float64{10, 20, 30, 40, 50}, expected: 30},
		{name: "median of even length slice", input: []float64{10, 20, 30, 40, 50, 60}, expected: 35},
		{name: "median of unsorted slice", input: []float64{45, 5, 30, 12, 90}, expected: 30},
		{name: "median of constant time spent", input: []float64{30, 30, 30, 30, 30, 30}, expected: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, median(tt.input))
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	input := []float64{3, 1, 2}
	median(input)
	assert.Equal(t, []float64{3, 1, 2}, input)
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{name: "inside range", x: 42, expected: 42},
		{name: "below range", x: -5, expected: 0},
		{name: "above range", x: 1000, expected: 300},
		{name: "at upper bound", x: 300, expected: 300},
		{name: "positive infinity", x: math.Inf(1), expected: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clip(tt.x, 0, 300))
		})
	}
}
