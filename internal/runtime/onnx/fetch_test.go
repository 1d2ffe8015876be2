package onnx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"visiond/internal/vision"
)

func modelServer(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DownloadReportsProgressAndCaches(t *testing.T) {
	body := strings.Repeat("w", 256*1024)
	var hits atomic.Int32
	srv := modelServer(t, body, &hits)
	opts := vision.LoadOptions{Version: 2, Alpha: 1, ImageSize: 224, ModelURL: srv.URL + "/m.onnx", CacheDir: t.TempDir()}

	var seen []float64
	data, err := Fetch(context.Background(), srv.Client(), opts, func(p float64) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(data) != len(body) {
		t.Fatalf("len=%d", len(data))
	}
	if len(seen) == 0 || seen[len(seen)-1] != 1 {
		t.Fatalf("progress=%v", seen)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress decreased: %v", seen)
		}
	}
	cached := filepath.Join(opts.CacheDir, "mobilenet_v2_1.0_224.onnx")
	if _, err := os.Stat(cached); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}
	// second fetch is served from the cache
	if _, err := Fetch(context.Background(), srv.Client(), opts, func(float64) {}); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one download, got %d", hits.Load())
	}
}

func TestFetch_LocalPathWins(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.onnx")
	if err := os.WriteFile(p, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Fetch(context.Background(), http.DefaultClient, vision.LoadOptions{ModelPath: p, ModelURL: "http://127.0.0.1:1/never"}, func(float64) {})
	if err != nil || string(data) != "local" {
		t.Fatalf("data=%q err=%v", data, err)
	}
}

func TestFetch_Errors(t *testing.T) {
	if _, err := Fetch(context.Background(), http.DefaultClient, vision.LoadOptions{}, func(float64) {}); err == nil {
		t.Fatalf("expected error without source")
	}
	if _, err := Fetch(context.Background(), http.DefaultClient, vision.LoadOptions{ModelPath: "/no/such/model.onnx"}, func(float64) {}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := Fetch(context.Background(), srv.Client(), vision.LoadOptions{ModelURL: srv.URL}, func(float64) {})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestFetch_UnknownLengthReportsCompletionOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush() // forces chunked encoding, no Content-Length
		_, _ = w.Write([]byte("abc"))
	}))
	defer srv.Close()
	var seen []float64
	if _, err := Fetch(context.Background(), srv.Client(), vision.LoadOptions{ModelURL: srv.URL}, func(p float64) { seen = append(seen, p) }); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("progress=%v", seen)
	}
}

func TestRuntimeLoad_ScalesFetchProgress(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.onnx")
	if err := os.WriteFile(p, []byte("not really onnx"), 0o644); err != nil {
		t.Fatal(err)
	}
	var max float64
	_, err := New().Load(context.Background(), vision.LoadOptions{ModelPath: p, ImageSize: 224, InputName: "input", OutputName: "output"}, func(f float64) {
		if f > max {
			max = f
		}
	})
	// the bytes are not a valid model, so session creation fails either way
	if err == nil {
		t.Fatalf("expected session error")
	}
	if max > fetchShare+1e-9 {
		t.Fatalf("fetch progress exceeded its share: %v", max)
	}
}

func TestRuntimeLoad_MissingLabels(t *testing.T) {
	_, err := New().Load(context.Background(), vision.LoadOptions{LabelsPath: "/no/labels.txt"}, nil)
	if err == nil {
		t.Fatalf("expected labels error")
	}
}
