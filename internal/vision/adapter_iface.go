package vision

import (
	"context"
	"image"
)

// Runtime abstracts the pretrained classification runtime. Concrete
// implementations (e.g., onnxruntime) satisfy this interface; tests use fakes.
type Runtime interface {
	// Load acquires a model. onProgress receives fractions in [0,1] and may be
	// called from the loading goroutine any number of times.
	Load(ctx context.Context, opts LoadOptions, onProgress func(float64)) (Model, error)
}

// Model is an opaque handle to a loaded classifier.
type Model interface {
	// Classify returns up to k predictions for img.
	Classify(ctx context.Context, img image.Image, k int) ([]Prediction, error)
	// Labels reports how many classes the model distinguishes.
	Labels() int
	// Close releases any resources associated with the model.
	Close() error
}
