package vision

import (
	"math"
	"sort"
)

// normalize returns a copy of preds sorted by descending probability
// (stable, so runtime order breaks ties), truncated to k, with probabilities
// clamped to [0,1]. NaN probabilities sort last as 0.
func normalize(preds []Prediction, k int) []Prediction {
	out := make([]Prediction, len(preds))
	for i, p := range preds {
		switch {
		case math.IsNaN(p.Probability) || p.Probability < 0:
			p.Probability = 0
		case p.Probability > 1:
			p.Probability = 1
		}
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func clonePredictions(p []Prediction) []Prediction {
	if p == nil {
		return nil
	}
	out := make([]Prediction, len(p))
	copy(out, p)
	return out
}
