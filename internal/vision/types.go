package vision

import (
	"fmt"
	"strconv"
	"strings"
)

// State represents the lifecycle state of the model.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Prediction is a label with its probability in [0,1].
type Prediction struct {
	Label       string
	Probability float64
}

// Percent formats the probability as a one-decimal percentage, e.g. "82.0%".
func (p Prediction) Percent() string {
	return strconv.FormatFloat(p.Probability*100, 'f', 1, 64) + "%"
}

// String renders the prediction the way the results list shows it.
func (p Prediction) String() string {
	return p.Label + " — " + p.Percent()
}

// LoadOptions is passed to the runtime when the model is loaded.
type LoadOptions struct {
	// Version is the MobileNet architecture version (1 or 2).
	Version int
	// Alpha is the width multiplier (0.25, 0.5, 0.75, 1.0 ...).
	Alpha float64
	// ImageSize is the square input resolution in pixels.
	ImageSize int
	// ModelPath is a local .onnx file. Takes precedence over ModelURL.
	ModelPath string
	// ModelURL is fetched into CacheDir when ModelPath is empty.
	ModelURL   string
	CacheDir   string
	LabelsPath string
	InputName  string
	OutputName string
	// SharedLibrary optionally points at the onnxruntime shared library.
	SharedLibrary string
}

// ModelID names the model variant, e.g. "mobilenet_v2_1.0_224".
func (o LoadOptions) ModelID() string {
	a := strconv.FormatFloat(o.Alpha, 'f', -1, 64)
	if !strings.Contains(a, ".") {
		a += ".0"
	}
	return fmt.Sprintf("mobilenet_v%d_%s_%d", o.Version, a, o.ImageSize)
}

// View is the read-only projection the page renders for one session.
type View struct {
	SessionID   string
	State       State
	Progress    int
	ModelID     string
	ModelError  string
	ImageSource ImageSource
	Predictions []Prediction
	Token       uint64
	// Loading is true while the model loads or a classification for this
	// session is in flight.
	Loading   bool
	LastError string
}

// ModelReady reports whether the model handle is present.
func (v View) ModelReady() bool { return v.State == StateReady }

// UploadEnabled mirrors the upload button: usable only with a ready model
// and nothing in flight.
func (v View) UploadEnabled() bool { return v.ModelReady() && !v.Loading }

// ShowProgress is true while the model handle is absent and not failed.
func (v View) ShowProgress() bool { return v.State == StateIdle || v.State == StateLoading }

func (v View) HasImage() bool { return v.ImageSource != "" }

func (v View) HasPredictions() bool { return len(v.Predictions) > 0 }
