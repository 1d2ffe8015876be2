//go:build cgo

package onnx

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"visiond/internal/vision"
)

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment initialises the process-wide onnxruntime environment once.
func initEnvironment(libPath string) error {
	envOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			envErr = fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	})
	return envErr
}

// ortModel wraps a session with fixed input/output tensors. Run is not safe
// for concurrent use on shared tensors, so Classify serialises on mu.
type ortModel struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	size    int
	labels  labeler
}

func newSession(data []byte, opts vision.LoadOptions, labels []string) (vision.Model, error) {
	if err := initEnvironment(opts.SharedLibrary); err != nil {
		return nil, err
	}
	classes := outputClasses(data, opts.OutputName, len(labels))
	if classes <= 0 {
		return nil, fmt.Errorf("cannot determine number of classes for output %q", opts.OutputName)
	}
	size := int64(opts.ImageSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(classes)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSessionWithONNXData(data,
		[]string{opts.InputName}, []string{opts.OutputName},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return &ortModel{
		session: session,
		input:   input,
		output:  output,
		size:    opts.ImageSize,
		labels:  newLabeler(labels, classes),
	}, nil
}

// outputClasses reads the class count from the model's output metadata,
// falling back to the label count.
func outputClasses(data []byte, outputName string, fallback int) int {
	_, outputs, err := ort.GetInputOutputInfoWithONNXData(data)
	if err != nil {
		return fallback
	}
	for _, o := range outputs {
		if o.Name != outputName {
			continue
		}
		dims := o.Dimensions
		if len(dims) == 0 {
			break
		}
		if n := dims[len(dims)-1]; n > 0 {
			return int(n)
		}
	}
	return fallback
}

func (m *ortModel) Classify(ctx context.Context, img image.Image, k int) ([]vision.Prediction, error) {
	in := Preprocess(img, m.size)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, vision.ErrModelNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	copy(m.input.GetData(), in)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	probs := Probabilities(m.output.GetData())
	return topK(probs, m.labels, k), nil
}

func (m *ortModel) Labels() int { return m.labels.classes }

func (m *ortModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	if m.session != nil {
		err := m.session.Destroy()
		m.session = nil
		return err
	}
	return nil
}
