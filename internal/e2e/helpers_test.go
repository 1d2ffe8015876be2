package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"visiond/internal/httpapi"
	"visiond/internal/vision"
)

// steppedRuntime reports each value sent on steps as load progress and acks
// it, so a test can inspect the page between steps. Closing steps finishes
// the load.
type steppedRuntime struct {
	steps chan float64
	acks  chan struct{}
	model *stubModel
	fail  error
}

func newSteppedRuntime(model *stubModel) *steppedRuntime {
	return &steppedRuntime{steps: make(chan float64), acks: make(chan struct{}), model: model}
}

func (r *steppedRuntime) Load(ctx context.Context, _ vision.LoadOptions, onProgress func(float64)) (vision.Model, error) {
	for p := range r.steps {
		onProgress(p)
		r.acks <- struct{}{}
	}
	if r.fail != nil {
		return nil, r.fail
	}
	return r.model, nil
}

func (r *steppedRuntime) step(p float64) {
	r.steps <- p
	<-r.acks
}

type stubModel struct {
	mu    sync.Mutex
	preds []vision.Prediction
	calls int
}

func (m *stubModel) Classify(ctx context.Context, img image.Image, k int) ([]vision.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return append([]vision.Prediction(nil), m.preds...), nil
}

func (m *stubModel) Labels() int  { return 1001 }
func (m *stubModel) Close() error { return nil }

func catPredictions() []vision.Prediction {
	return []vision.Prediction{
		{Label: "tabby", Probability: 0.09},
		{Label: "Egyptian cat", Probability: 0.82},
		{Label: "tiger cat", Probability: 0.05},
		{Label: "lynx", Probability: 0.02},
		{Label: "Persian cat", Probability: 0.01},
		{Label: "Siamese cat", Probability: 0.005},
	}
}

func newServer(t *testing.T, rt vision.Runtime) (*httptest.Server, *vision.Manager) {
	t.Helper()
	mgr := vision.NewWithConfig(vision.ManagerConfig{
		Runtime:   rt,
		Options:   vision.LoadOptions{Version: 2, Alpha: 1, ImageSize: 224},
		Publisher: vision.MultiPublisher{httpapi.MetricsPublisher{}},
	})
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = mgr.Close() })
	return srv, mgr
}

// browser returns a client that keeps cookies and follows redirects the way
// a browser posting the upload form would.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func imageForm(t *testing.T, filename, contentType string, data []byte) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(b)
}

func upload(t *testing.T, c *http.Client, url, filename, contentType string, data []byte) (*http.Response, string) {
	t.Helper()
	body, ct := imageForm(t, filename, contentType, data)
	resp, err := c.Post(url, ct, body)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(b)
}
