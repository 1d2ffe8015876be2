//go:build !cgo

package onnx

import "visiond/internal/vision"

// newSession fails fast: onnxruntime is loaded through cgo.
func newSession(data []byte, opts vision.LoadOptions, labels []string) (vision.Model, error) {
	return nil, ErrUnavailable
}
