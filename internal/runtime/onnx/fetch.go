package onnx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"visiond/internal/common/fsutil"
	"visiond/internal/vision"
)

// Fetch returns the model bytes for opts. ModelPath wins over ModelURL; a
// downloaded model is stored under CacheDir as <model id>.onnx and reused on
// the next start. onProgress receives fractions in [0,1]; with an unknown
// length it is only called at completion.
func Fetch(ctx context.Context, client *http.Client, opts vision.LoadOptions, onProgress func(float64)) ([]byte, error) {
	if opts.ModelPath != "" {
		p, err := fsutil.ExpandHome(opts.ModelPath)
		if err != nil {
			return nil, err
		}
		return readFile(p, onProgress)
	}
	if opts.ModelURL == "" {
		return nil, errors.New("no model_path or model_url configured")
	}
	cacheDir, err := fsutil.ExpandHome(opts.CacheDir)
	if err != nil {
		return nil, err
	}
	cached := ""
	if cacheDir != "" {
		cached = filepath.Join(cacheDir, opts.ModelID()+".onnx")
		if fsutil.PathExists(cached) {
			return readFile(cached, onProgress)
		}
	}
	data, err := download(ctx, client, opts.ModelURL, onProgress)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		// a cache write failure only costs a re-download next time
		_, _ = fsutil.WriteAtomic(cached, bytes.NewReader(data))
	}
	return data, nil
}

func readFile(path string, onProgress func(float64)) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	return readAllProgress(f, size, onProgress)
}

func download(ctx context.Context, client *http.Client, url string, onProgress func(float64)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download model: unexpected status %s", resp.Status)
	}
	return readAllProgress(resp.Body, resp.ContentLength, onProgress)
}

// progressReader reports read/total after every Read.
type progressReader struct {
	r          io.Reader
	read       int64
	total      int64
	onProgress func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if n > 0 && p.total > 0 {
		f := float64(p.read) / float64(p.total)
		if f > 1 {
			f = 1
		}
		p.onProgress(f)
	}
	return n, err
}

func readAllProgress(r io.Reader, total int64, onProgress func(float64)) ([]byte, error) {
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	pr := &progressReader{r: r, total: total, onProgress: onProgress}
	if _, err := io.Copy(&buf, pr); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	onProgress(1)
	return buf.Bytes(), nil
}
