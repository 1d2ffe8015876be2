package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// pngBytes encodes a small solid-colour PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// fakeRuntime reports a fixed progress sequence then returns model or err.
type fakeRuntime struct {
	steps  []float64
	model  *fakeModel
	err    error
	panics bool
	// afterStep is invoked after each progress report (test hook).
	afterStep func(p float64)
	gotOpts   LoadOptions
}

func (f *fakeRuntime) Load(ctx context.Context, opts LoadOptions, onProgress func(float64)) (Model, error) {
	f.gotOpts = opts
	for _, p := range f.steps {
		onProgress(p)
		if f.afterStep != nil {
			f.afterStep(p)
		}
	}
	if f.panics {
		panic("runtime exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

// fakeModel returns preds; if gate is set, Classify waits for it first.
type fakeModel struct {
	preds   []Prediction
	err     error
	panics  bool
	gate    chan struct{}
	entered chan struct{}
	mu      sync.Mutex
	gotK    int
	closed  bool
}

func (f *fakeModel) Classify(ctx context.Context, img image.Image, k int) ([]Prediction, error) {
	f.mu.Lock()
	f.gotK = k
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]Prediction(nil), f.preds...), nil
}

func (f *fakeModel) Labels() int  { return 1001 }
func (f *fakeModel) Close() error {
	f.closed = true
	return nil
}

func catPredictions() []Prediction {
	return []Prediction{
		{Label: "tabby", Probability: 0.11},
		{Label: "Egyptian cat", Probability: 0.82},
		{Label: "tiger cat", Probability: 0.04},
		{Label: "lynx", Probability: 0.01},
		{Label: "Persian cat", Probability: 0.015},
		{Label: "carton", Probability: 0.003},
		{Label: "paper towel", Probability: 0.002},
	}
}

// readyManager returns a manager whose model finished loading.
func readyManager(t *testing.T, model *fakeModel) (*Manager, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Runtime: &fakeRuntime{steps: []float64{1}, model: model}, Publisher: pub})
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m, pub
}
