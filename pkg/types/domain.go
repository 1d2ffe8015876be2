package types

// Prediction is one label/probability pair produced by the classifier.
type Prediction struct {
	// Human-readable class label.
	// example: Egyptian cat
	Label string `json:"label" example:"Egyptian cat"`
	// Probability in [0,1].
	// example: 0.82
	Probability float64 `json:"probability" example:"0.82"`
}
