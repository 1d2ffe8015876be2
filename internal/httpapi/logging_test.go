package httpapi

import (
	"bytes"
	"errors"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("shorthand query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
}

func TestLogRequestEnd_UsesStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := zlog
	defer func() { zlog = orig }()
	SetLogger(zerolog.New(&buf))

	r := httptest.NewRequest("POST", "/upload?log=info", nil)
	logRequestEnd(r, "upload end", 303, time.Now(), nil)
	logRequestEnd(r, "upload end", 400, time.Now(), errors.New("no image"))

	out := buf.String()
	if !strings.Contains(out, `"status":303`) || !strings.Contains(out, `"path":"/upload"`) {
		t.Fatalf("missing success line: %q", out)
	}
	if !strings.Contains(out, `"error":"no image"`) {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestLogRequestEnd_OffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	orig := zlog
	defer func() { zlog = orig }()
	SetLogger(zerolog.New(&buf))

	r := httptest.NewRequest("POST", "/upload?log=off", nil)
	logRequestEnd(r, "upload end", 500, time.Now(), errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

// Without SetLogger the HTTP layer logs nowhere rather than through the
// standard library logger.
func TestLogRequestEnd_DefaultLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	orig, origStd := zlog, log.Writer()
	defer func() {
		zlog = orig
		log.SetOutput(origStd)
	}()
	zlog = zerolog.Nop()
	log.SetOutput(&buf)

	r := httptest.NewRequest("POST", "/upload?log=debug", nil)
	logRequestEnd(r, "upload end", 500, time.Now(), errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("standard logger used: %q", buf.String())
	}
}
