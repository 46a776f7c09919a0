package analysis

// FeatureWidth is the fixed length of every feature vector
const FeatureWidth = 6

// Feature columns, in vector order
const (
	ColTimeSpent = iota
	ColSuccess
	ColTopicDiversity
	ColRollingSuccess
	ColDayOfWeek
	ColHourOfDay
)

// FeatureVector encodes one event plus log-level aggregates
type FeatureVector [FeatureWidth]float64

// FeatureMatrix stacks one FeatureVector per event with the event's success label
type FeatureMatrix struct {
	Rows   []FeatureVector
	Labels []float64
}

// Len returns the number of rows
func (m FeatureMatrix) Len() int {
	return len(m.Rows)
}

// Empty reports whether the matrix has no rows
func (m FeatureMatrix) Empty() bool {
	return len(m.Rows) == 0
}

// Column copies column j out of the matrix
func (m FeatureMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		col[i] = row[j]
	}
	return col
}

// Dense returns the rows as slices, the layout the estimators consume
func (m FeatureMatrix) Dense() [][]float64 {
	out := make([][]float64, len(m.Rows))
	for i := range m.Rows {
		row := m.Rows[i]
		out[i] = row[:]
	}
	return out
}

// PerformanceResult is the success/drop-risk prediction for one activity log
type PerformanceResult struct {
	SuccessProbability float64 `json:"potdSuccessProb"`
	DropRisk           float64 `json:"riskOfDrop"`
	Accuracy           float64 `json:"accuracy"`

	// Fallbacks names the classifier paths that used their fallback values
	Fallbacks []string `json:"-"`
}

// TimeAccuracyResult describes how much time spent explains success
type TimeAccuracyResult struct {
	Slope    float64 `json:"slope"`
	Insight  string  `json:"insight"`
	Accuracy float64 `json:"accuracy"`
}

// Insight texts returned by PredictTimeAccuracy
const (
	InsightNotEnoughData = "Not enough data"
	InsightMoreTime      = "Spending more time improves accuracy"
	InsightFocused       = "Consider focused practice; more time doesn't improve outcomes"
)
