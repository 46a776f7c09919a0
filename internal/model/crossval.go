package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTooFewSamples is returned when a dataset cannot be split into the requested folds
var ErrTooFewSamples = errors.New("too few samples for the requested folds")

// Fold holds the row indices of one train/test partition
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n rows into k contiguous, unshuffled folds. The first n%k folds get
// one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be at least 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: %d rows, %d folds", ErrTooFewSamples, n, k)
	}

	testFold := make([]int, n)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		for i := start; i < start+size; i++ {
			testFold[i] = f
		}
		start += size
	}
	return foldsFromAssignment(testFold, k), nil
}

// StratifiedKFold splits rows into k unshuffled folds that preserve the class
// balance of y as closely as possible. Classes are numbered by first appearance,
// the sorted label sequence is dealt round-robin to determine how many of each
// class every fold receives, and each class fills folds in row order.
func StratifiedKFold(y []float64, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be at least 2, got %d", k)
	}
	n := len(y)
	if n < k {
		return nil, fmt.Errorf("%w: %d rows, %d folds", ErrTooFewSamples, n, k)
	}

	classOf := make(map[float64]int)
	encoded := make([]int, n)
	for i, v := range y {
		c, ok := classOf[v]
		if !ok {
			c = len(classOf)
			classOf[v] = c
		}
		encoded[i] = c
	}
	nClasses := len(classOf)

	counts := make([]int, nClasses)
	for _, c := range encoded {
		counts[c]++
	}
	tooSmall := true
	for _, c := range counts {
		if c >= k {
			tooSmall = false
			break
		}
	}
	if tooSmall {
		return nil, fmt.Errorf("%w: every class has fewer than %d members", ErrTooFewSamples, k)
	}

	order := append([]int(nil), encoded...)
	sort.Ints(order)
	allocation := make([][]int, k)
	for f := 0; f < k; f++ {
		allocation[f] = make([]int, nClasses)
		for i := f; i < n; i += k {
			allocation[f][order[i]]++
		}
	}

	testFold := make([]int, n)
	for c := 0; c < nClasses; c++ {
		var slots []int
		for f := 0; f < k; f++ {
			for j := 0; j < allocation[f][c]; j++ {
				slots = append(slots, f)
			}
		}
		next := 0
		for i, ec := range encoded {
			if ec == c {
				testFold[i] = slots[next]
				next++
			}
		}
	}
	return foldsFromAssignment(testFold, k), nil
}

func foldsFromAssignment(testFold []int, k int) []Fold {
	folds := make([]Fold, k)
	for i, f := range testFold {
		for g := range folds {
			if g == f {
				folds[g].Test = append(folds[g].Test, i)
			} else {
				folds[g].Train = append(folds[g].Train, i)
			}
		}
	}
	return folds
}

// CrossValScore fits a fresh estimator on each fold's training rows and returns the
// mean score on the held-out rows. The first fold fit error aborts the evaluation.
func CrossValScore(factory Factory, X [][]float64, y []float64, folds []Fold, score Scorer) (float64, error) {
	if len(folds) == 0 {
		return 0, errors.New("no folds to evaluate")
	}
	total := 0.0
	for i, fold := range folds {
		trainX, trainY := subset(X, y, fold.Train)
		testX, testY := subset(X, y, fold.Test)

		est := factory()
		if err := est.Fit(trainX, trainY); err != nil {
			return 0, fmt.Errorf("fold %d: %w", i, err)
		}
		total += score(testY, est.Predict(testX))
	}
	return total / float64(len(folds)), nil
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	sx := make([][]float64, len(idx))
	sy := make([]float64, len(idx))
	for j, i := range idx {
		sx[j] = X[i]
		sy[j] = y[i]
	}
	return sx, sy
}
