package analysis

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxTimeSpent caps time spent at five hours
const DefaultMaxTimeSpent = 300.0

// Preprocessor clips outliers and standardizes a feature matrix
type Preprocessor struct {
	maxTimeSpent float64
}

// NewPreprocessor creates a new preprocessor
func NewPreprocessor(maxTimeSpent float64) *Preprocessor {
	return &Preprocessor{maxTimeSpent: maxTimeSpent}
}

// Process clips time spent into [0, maxTimeSpent] and rescales every column to
// zero mean and unit population variance. Scale parameters are fit on m itself
// and discarded. Labels are passed through; m is not modified.
func (p *Preprocessor) Process(m FeatureMatrix) FeatureMatrix {
	out := FeatureMatrix{
		Rows:   make([]FeatureVector, len(m.Rows)),
		Labels: append([]float64(nil), m.Labels...),
	}
	if len(m.Rows) == 0 {
		return out
	}
	copy(out.Rows, m.Rows)

	for i := range out.Rows {
		out.Rows[i][ColTimeSpent] = clip(out.Rows[i][ColTimeSpent], 0, p.maxTimeSpent)
	}

	for j := 0; j < FeatureWidth; j++ {
		col := out.Column(j)
		mean, std := stat.PopMeanStdDev(col, nil)
		if isConstantColumn(std*std, mean, len(col)) {
			std = 1
		}
		for i := range out.Rows {
			out.Rows[i][j] = (out.Rows[i][j] - mean) / std
		}
	}
	return out
}

// isConstantColumn flags variances indistinguishable from rounding noise
func isConstantColumn(variance, mean float64, n int) bool {
	nf := float64(n)
	bound := nf*epsilon*variance + (nf*mean*epsilon)*(nf*mean*epsilon)
	return variance <= bound
}

const epsilon = 2.220446049250313e-16
