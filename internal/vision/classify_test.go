package vision

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestClassify_SortedTopFive(t *testing.T) {
	model := &fakeModel{preds: catPredictions()}
	m, pub := readyManager(t, model)
	id, tok := m.Ingest("", "cat.jpg", "image/png", pngBytes(t))
	preds, err := m.Classify(context.Background(), id, tok)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if model.gotK != 5 {
		t.Fatalf("model asked for k=%d", model.gotK)
	}
	if len(preds) != 5 {
		t.Fatalf("len=%d", len(preds))
	}
	for i := 1; i < len(preds); i++ {
		if preds[i].Probability > preds[i-1].Probability {
			t.Fatalf("not sorted: %+v", preds)
		}
	}
	if got := preds[0].String(); got != "Egyptian cat — 82.0%" {
		t.Fatalf("first row=%q", got)
	}
	v := m.View(id)
	if !v.HasImage() || !v.HasPredictions() || v.Loading || v.Token != tok {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.ImageSource.MIME() != "image/png" {
		t.Fatalf("mime=%q", v.ImageSource.MIME())
	}
	if len(pub.Named(EventClassifyDone)) != 1 {
		t.Fatalf("expected classify_done, got %+v", pub.Events())
	}
}

func TestClassify_NoModelIsNoop(t *testing.T) {
	m := New(&fakeRuntime{model: &fakeModel{}}, LoadOptions{})
	id, tok := m.Ingest("", "a.png", "image/png", pngBytes(t))
	if _, err := m.Classify(context.Background(), id, tok); !IsModelNotReady(err) {
		t.Fatalf("err=%v", err)
	}
	v := m.View(id)
	if !v.HasImage() { t.Fatalf("preview should still be set") }
	if v.HasPredictions() { t.Fatalf("no predictions expected") }
}

func TestClassify_CorruptImageKeepsPreviousPredictions(t *testing.T) {
	model := &fakeModel{preds: catPredictions()}
	m, _ := readyManager(t, model)
	id, tok := m.Ingest("", "cat.png", "image/png", pngBytes(t))
	if _, err := m.Classify(context.Background(), id, tok); err != nil {
		t.Fatalf("classify: %v", err)
	}
	_, tok = m.Ingest(id, "broken.jpg", "image/jpeg", []byte("definitely not a jpeg"))
	_, err := m.Classify(context.Background(), id, tok)
	if !IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	v := m.View(id)
	if len(v.Predictions) != 5 || v.Predictions[0].Label != "Egyptian cat" {
		t.Fatalf("previous predictions lost: %+v", v.Predictions)
	}
	if v.LastError == "" || v.Loading {
		t.Fatalf("unexpected view: %+v", v)
	}
	if st := m.Status(); st.FailuresTotal != 1 || st.ClassificationsTotal != 1 {
		t.Fatalf("counters: %+v", st)
	}
}

func TestClassify_RuntimeErrorAndPanic(t *testing.T) {
	model := &fakeModel{err: errors.New("tensor shape mismatch")}
	m, _ := readyManager(t, model)
	id, tok := m.Ingest("", "a.png", "", pngBytes(t))
	if _, err := m.Classify(context.Background(), id, tok); err == nil || IsDecode(err) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	model.err = nil
	model.panics = true
	if _, err := m.Classify(context.Background(), id, tok); err == nil {
		t.Fatalf("expected error from panic")
	}
	if m.View(id).Loading {
		t.Fatalf("loading flag not cleared")
	}
}

func TestClassify_UnknownSession(t *testing.T) {
	m, _ := readyManager(t, &fakeModel{})
	if _, err := m.Classify(context.Background(), "nope", 1); !IsSessionNotFound(err) {
		t.Fatalf("err=%v", err)
	}
}

// Upload A, then B before A finishes: A's result must be dropped and B's applied.
func TestClassify_SupersededByNewerUpload(t *testing.T) {
	model := &fakeModel{
		preds:   catPredictions(),
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}
	m, pub := readyManager(t, model)
	id, tokA := m.Ingest("", "a.png", "image/png", pngBytes(t))

	var wg sync.WaitGroup
	var errA error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errA = m.Classify(context.Background(), id, tokA)
	}()
	select {
	case <-model.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("classification A never started")
	}
	if !m.View(id).Loading {
		t.Fatalf("expected loading while A is in flight")
	}

	_, tokB := m.Ingest(id, "b.png", "image/png", pngBytes(t))
	if tokB <= tokA {
		t.Fatalf("token not increasing: %d -> %d", tokA, tokB)
	}
	close(model.gate)
	wg.Wait()
	if !IsSuperseded(errA) {
		t.Fatalf("A err=%v", errA)
	}
	if m.View(id).HasPredictions() {
		t.Fatalf("stale result applied")
	}
	preds, err := m.Classify(context.Background(), id, tokB)
	if err != nil || len(preds) == 0 {
		t.Fatalf("B: preds=%v err=%v", preds, err)
	}
	if got := m.View(id); got.Token != tokB || !got.HasPredictions() || got.Loading {
		t.Fatalf("unexpected final view: %+v", got)
	}
	if len(pub.Named(EventClassifySuperseded)) != 1 {
		t.Fatalf("expected one superseded event, got %+v", pub.Events())
	}
	// a request carrying a stale token is rejected before running the model
	if _, err := m.Classify(context.Background(), id, tokA); !IsSuperseded(err) {
		t.Fatalf("stale token err=%v", err)
	}
}

func TestClassifyImage_Stateless(t *testing.T) {
	m, _ := readyManager(t, &fakeModel{preds: catPredictions()})
	preds, err := m.ClassifyImage(context.Background(), pngBytes(t))
	if err != nil { t.Fatalf("classify: %v", err) }
	if len(preds) != 5 || preds[0].Label != "Egyptian cat" { t.Fatalf("preds=%+v", preds) }
	if m.Status().Sessions != 0 { t.Fatalf("stateless call created a session") }
	if _, err := m.ClassifyImage(context.Background(), []byte{0x00, 0x01}); !IsDecode(err) {
		t.Fatalf("err=%v", err)
	}
}

func TestClassify_ConcurrentUploadsDoNotCrash(t *testing.T) {
	m, _ := readyManager(t, &fakeModel{preds: catPredictions()})
	id := m.EnsureSession("")
	img := pngBytes(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tok := m.Ingest(id, "x.png", "image/png", img)
			_, err := m.Classify(context.Background(), id, tok)
			if err != nil && !IsSuperseded(err) {
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()
	v := m.View(id)
	if v.Loading || v.Token != 16 {
		t.Fatalf("unexpected view: %+v", v)
	}
}
