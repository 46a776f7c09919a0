package model

import (
	"math"
	"math/rand/v2"
	"sort"
)

const (
	classifierName = "decision_tree_classifier"
	regressorName  = "decision_tree_regressor"

	// featureThreshold treats values closer than this as equal when searching splits
	featureThreshold = 1e-7
	epsilon          = 2.220446049250313e-16
)

type criterion int

const (
	criterionGini criterion = iota
	criterionSquaredError
)

type treeNode struct {
	feature   int // -1 marks a leaf
	threshold float64
	left      int
	right     int
	value     float64 // P(y==1) for classification, mean target for regression
	samples   int
	impurity  float64
}

// cart grows a binary tree depth first, choosing at each node the split with the
// lowest weighted child impurity. Features are visited in a seeded random order.
type cart struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	crit            criterion
	rng             *rand.Rand

	nodes     []treeNode
	nFeatures int
}

func newCart(maxDepth int, crit criterion, rng *rand.Rand) *cart {
	return &cart{
		maxDepth:        maxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		crit:            crit,
		rng:             rng,
	}
}

func (t *cart) fit(X [][]float64, y []float64, width int) {
	t.nFeatures = width
	t.nodes = t.nodes[:0]
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.grow(X, y, idx, 0)
}

func (t *cart) grow(X [][]float64, y []float64, idx []int, depth int) int {
	value, impurity := t.nodeStats(y, idx)
	id := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{
		feature:  -1,
		value:    value,
		samples:  len(idx),
		impurity: impurity,
	})

	n := len(idx)
	if depth >= t.maxDepth || n < t.minSamplesSplit || n < 2*t.minSamplesLeaf || impurity <= epsilon {
		return id
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		return id
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	left := t.grow(X, y, leftIdx, depth+1)
	right := t.grow(X, y, rightIdx, depth+1)

	node := &t.nodes[id]
	node.feature = feature
	node.threshold = threshold
	node.left = left
	node.right = right
	return id
}

func (t *cart) nodeStats(y []float64, idx []int) (value, impurity float64) {
	n := float64(len(idx))
	var sum, sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	mean := sum / n
	return mean, t.impurity(sum, sq, n)
}

func (t *cart) impurity(sum, sq, n float64) float64 {
	if n == 0 {
		return 0
	}
	mean := sum / n
	if t.crit == criterionGini {
		// binary gini: 1 - p^2 - (1-p)^2
		return 2 * mean * (1 - mean)
	}
	v := sq/n - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

func (t *cart) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	n := len(idx)
	bestFeature := -1
	bestThreshold := 0.0
	bestProxy := math.Inf(-1)

	sorted := make([]int, n)
	for _, f := range t.rng.Perm(t.nFeatures) {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})
		if X[sorted[n-1]][f] <= X[sorted[0]][f]+featureThreshold {
			continue
		}

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for p := 1; p < n; p++ {
			prev := sorted[p-1]
			leftSum += y[prev]
			leftSq += y[prev] * y[prev]

			lo, hi := X[prev][f], X[sorted[p]][f]
			if hi <= lo+featureThreshold {
				continue
			}
			if p < t.minSamplesLeaf || n-p < t.minSamplesLeaf {
				continue
			}

			nl, nr := float64(p), float64(n-p)
			proxy := -(nl*t.impurity(leftSum, leftSq, nl) +
				nr*t.impurity(totalSum-leftSum, totalSq-leftSq, nr))
			if proxy > bestProxy {
				bestProxy = proxy
				bestFeature = f
				bestThreshold = lo/2 + hi/2
				if bestThreshold == hi || math.IsInf(bestThreshold, 0) {
					bestThreshold = lo
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (t *cart) leaf(row []float64) *treeNode {
	node := &t.nodes[0]
	for node.feature >= 0 {
		if row[node.feature] <= node.threshold {
			node = &t.nodes[node.left]
		} else {
			node = &t.nodes[node.right]
		}
	}
	return node
}

// rawImportances sums the weighted impurity decrease of every split per feature,
// scaled by the root sample count.
func (t *cart) rawImportances() []float64 {
	imp := make([]float64, t.nFeatures)
	if len(t.nodes) == 0 {
		return imp
	}
	for _, node := range t.nodes {
		if node.feature < 0 {
			continue
		}
		l, r := t.nodes[node.left], t.nodes[node.right]
		imp[node.feature] += float64(node.samples)*node.impurity -
			float64(l.samples)*l.impurity -
			float64(r.samples)*r.impurity
	}
	root := float64(t.nodes[0].samples)
	for i := range imp {
		imp[i] /= root
	}
	return imp
}

func (t *cart) nodeCount() int {
	return len(t.nodes)
}

// DecisionTreeClassifier is a gini CART classifier for 0/1 labels
type DecisionTreeClassifier struct {
	MaxDepth int
	Seed     uint64

	tree    *cart
	classes int
}

// NewDecisionTreeClassifier returns an unfitted classifier
func NewDecisionTreeClassifier(maxDepth int, seed uint64) *DecisionTreeClassifier {
	return &DecisionTreeClassifier{MaxDepth: maxDepth, Seed: seed}
}

// Fit grows the tree. Single-class labels are accepted.
func (m *DecisionTreeClassifier) Fit(X [][]float64, y []float64) error {
	width, err := validateShape(classifierName, X, y)
	if err != nil {
		return err
	}
	neg, pos, err := countClasses(classifierName, y)
	if err != nil {
		return err
	}
	m.classes = 0
	if neg > 0 {
		m.classes++
	}
	if pos > 0 {
		m.classes++
	}

	m.tree = newCart(m.MaxDepth, criterionGini, seededRand(m.Seed))
	m.tree.fit(X, y, width)
	return nil
}

// PredictProba returns P(y == 1) per row. A tree trained on one class cannot
// report a success probability and returns a FitFailure.
func (m *DecisionTreeClassifier) PredictProba(X [][]float64) ([]float64, error) {
	if m.tree == nil {
		return nil, fitFailure(classifierName, "model is not fitted", nil)
	}
	if m.classes < 2 {
		return nil, fitFailure(classifierName, "trained on a single class", nil)
	}
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.tree.leaf(row).value
	}
	return out, nil
}

// Predict returns the majority class of each row's leaf; ties go to 0
func (m *DecisionTreeClassifier) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if m.tree == nil {
		return out
	}
	for i, row := range X {
		if m.tree.leaf(row).value > 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Depth returns the depth of the fitted tree
func (m *DecisionTreeClassifier) Depth() int {
	if m.tree == nil {
		return 0
	}
	var walk func(id, d int) int
	walk = func(id, d int) int {
		node := m.tree.nodes[id]
		if node.feature < 0 {
			return d
		}
		return max(walk(node.left, d+1), walk(node.right, d+1))
	}
	return walk(0, 0)
}

// RegressionTree is a squared-error CART regressor
type RegressionTree struct {
	MaxDepth int

	tree *cart
}

// NewRegressionTree returns an unfitted tree that draws its feature order from rng
func NewRegressionTree(maxDepth int, rng *rand.Rand) *RegressionTree {
	return &RegressionTree{MaxDepth: maxDepth, tree: newCart(maxDepth, criterionSquaredError, rng)}
}

// Fit grows the tree on continuous targets
func (m *RegressionTree) Fit(X [][]float64, y []float64) error {
	width, err := validateShape(regressorName, X, y)
	if err != nil {
		return err
	}
	if m.tree == nil {
		m.tree = newCart(m.MaxDepth, criterionSquaredError, seededRand(0))
	}
	m.tree.fit(X, y, width)
	return nil
}

// Predict returns the leaf mean for each row
func (m *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if m.tree == nil || m.tree.nodeCount() == 0 {
		return out
	}
	for i, row := range X {
		out[i] = m.tree.leaf(row).value
	}
	return out
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
