// Package onnx runs MobileNet-style image classifiers with onnxruntime.
//
// Model bytes come from a local file or an HTTP URL cached on disk. Byte
// progress is reported while fetching; session creation completes the load.
// The session itself needs cgo (see session_ort.go); builds without cgo get a
// stub that fails the load with ErrUnavailable.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"visiond/internal/vision"
)

// fetchShare is the slice of overall progress attributed to fetching bytes.
const fetchShare = 0.9

// ErrUnavailable is returned when onnxruntime support is not compiled in.
var ErrUnavailable = errors.New("onnxruntime support not built (requires cgo)")

// Runtime implements vision.Runtime.
type Runtime struct {
	client *http.Client
	log    zerolog.Logger
}

// Option customises a Runtime.
type Option func(*Runtime)

// WithHTTPClient sets the client used to download models.
func WithHTTPClient(c *http.Client) Option { return func(r *Runtime) { r.client = c } }

// WithLogger sets the runtime logger.
func WithLogger(l zerolog.Logger) Option { return func(r *Runtime) { r.log = l } }

// New returns a Runtime. No request timeout is applied to downloads.
func New(opts ...Option) *Runtime {
	r := &Runtime{client: http.DefaultClient, log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load fetches the model, reads labels and creates an inference session.
func (r *Runtime) Load(ctx context.Context, opts vision.LoadOptions, onProgress func(float64)) (vision.Model, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}
	labels, err := LoadLabels(opts.LabelsPath)
	if err != nil {
		return nil, err
	}
	data, err := Fetch(ctx, r.client, opts, func(p float64) { onProgress(p * fetchShare) })
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("model", opts.ModelID()).Int("bytes", len(data)).Int("labels", len(labels)).Msg("model bytes ready")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := newSession(data, opts, labels)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	onProgress(1)
	return m, nil
}

var _ vision.Runtime = (*Runtime)(nil)
