package model

import "math"

// Scorer compares held-out targets with predictions. Higher is better.
type Scorer func(yTrue, yPred []float64) float64

// Accuracy is the fraction of exact label matches
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// R2 is the coefficient of determination. When the targets have no variance
// (including a single target) it is 1 for an exact prediction and 0 otherwise.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	var ssRes, ssTot float64
	for i := range yTrue {
		r := yTrue[i] - yPred[i]
		ssRes += r * r
		d := yTrue[i] - mean
		ssTot += d * d
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	score := 1 - ssRes/ssTot
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}
