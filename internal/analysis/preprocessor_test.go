package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

func TestPreprocessor_Empty(t *testing.T) {
	p := NewPreprocessor(DefaultMaxTimeSpent)
	out := p.Process(FeatureMatrix{})
	assert.True(t, out.Empty())
	assert.Empty(t, out.Labels)
}

func TestPreprocessor_Standardizes(t *testing.T) {
	log := dailyLog(
		[]bool{true, false, true, true, false, true, false},
		[]float64{5, 15, 25, 120, 45, 60, 75},
	)
	raw := ExtractFeatures(log)
	out := NewPreprocessor(DefaultMaxTimeSpent).Process(raw)
	require.Equal(t, raw.Len(), out.Len())

	for _, j := range []int{ColTimeSpent, ColSuccess, ColDayOfWeek} {
		mean, std := stat.PopMeanStdDev(out.Column(j), nil)
		assert.InDelta(t, 0, mean, 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, std, 1e-9, "column %d std", j)
	}
}

func TestPreprocessor_ConstantColumnsBecomeZero(t *testing.T) {
	log := dailyLog(
		[]bool{true, false, true},
		[]float64{30, 30, 30},
	)
	raw := ExtractFeatures(log)
	out := NewPreprocessor(DefaultMaxTimeSpent).Process(raw)

	for _, j := range []int{ColTimeSpent, ColTopicDiversity, ColRollingSuccess, ColHourOfDay} {
		for i := range out.Rows {
			assert.InDelta(t, 0.0, out.Rows[i][j], 1e-12, "row %d column %d", i, j)
		}
	}
	for _, row := range out.Rows {
		for _, v := range row {
			assert.True(t, isFinite(v))
		}
	}
}

func TestPreprocessor_ClipsTimeSpentBeforeScaling(t *testing.T) {
	tests := []struct {
		name    string
		clipped []float64
		raw     []float64
	}{
		{
			name:    "outlier above five hours",
			raw:     []float64{10, 20, 5000},
			clipped: []float64{10, 20, 300},
		},
		{
			name:    "negative time spent",
			raw:     []float64{-40, 20, 50},
			clipped: []float64{0, 20, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := ExtractFeatures(dailyLog([]bool{true, false, true}, tt.raw))
			want := ExtractFeatures(dailyLog([]bool{true, false, true}, tt.clipped))

			p := NewPreprocessor(DefaultMaxTimeSpent)
			got := p.Process(raw)
			expected := p.Process(want)
			for i := range got.Rows {
				assert.InDelta(t, expected.Rows[i][ColTimeSpent], got.Rows[i][ColTimeSpent], 1e-12)
			}
		})
	}
}

func TestPreprocessor_LeavesInputAndLabelsAlone(t *testing.T) {
	raw := ExtractFeatures(types.ActivityLog{
		event("a", true, 400, "2024-01-01T10:00:00Z"),
		event("b", false, 20, "2024-01-02T10:00:00Z"),
		event("c", true, 60, "2024-01-03T10:00:00Z"),
	})
	before := append([]FeatureVector(nil), raw.Rows...)

	out := NewPreprocessor(DefaultMaxTimeSpent).Process(raw)
	assert.Equal(t, before, raw.Rows)
	assert.Equal(t, raw.Labels, out.Labels)
	assert.Equal(t, []float64{1, 0, 1}, out.Labels)
}
