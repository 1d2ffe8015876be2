package vision

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Classify runs the model on the session's current image. token must be the
// value Ingest returned; if a newer upload happened before the result is
// ready the result is discarded and ErrSuperseded returned. On failure the
// session keeps its previous predictions and records the error.
//
// Without a model handle this is a no-op returning ErrModelNotReady.
func (m *Manager) Classify(ctx context.Context, sessionID string, token uint64) ([]Prediction, error) {
	model := m.currentModel()
	if model == nil {
		return nil, ErrModelNotReady
	}
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, sessionNotFoundError{id: sessionID}
	}
	sess.mu.Lock()
	if sess.token != token {
		sess.mu.Unlock()
		m.dropSuperseded(sessionID, token)
		return nil, ErrSuperseded
	}
	src := sess.image
	sess.inflight++
	sess.mu.Unlock()

	m.publish(Event{Name: EventClassifyStart, SessionID: sessionID, Fields: map[string]any{"token": token}})
	preds, err := m.classifySource(ctx, model, src)

	sess.mu.Lock()
	sess.inflight--
	if sess.token != token {
		sess.mu.Unlock()
		m.dropSuperseded(sessionID, token)
		return nil, ErrSuperseded
	}
	if err != nil {
		sess.lastErr = err.Error()
		sess.mu.Unlock()
		m.failures.Add(1)
		m.log.Error().Err(err).Str("session", sessionID).Uint64("token", token).Msg("failed to classify image")
		m.publish(Event{Name: EventClassifyFailed, SessionID: sessionID, Fields: map[string]any{"token": token, "error": err.Error()}})
		return nil, err
	}
	sess.predictions = preds
	sess.lastErr = ""
	sess.mu.Unlock()

	m.classified.Add(1)
	m.publish(Event{Name: EventClassifyDone, SessionID: sessionID, Fields: map[string]any{"token": token, "count": len(preds)}})
	return clonePredictions(preds), nil
}

// ClassifyImage classifies raw image bytes without touching any session.
func (m *Manager) ClassifyImage(ctx context.Context, data []byte) ([]Prediction, error) {
	model := m.currentModel()
	if model == nil {
		return nil, ErrModelNotReady
	}
	preds, err := m.classifyBytes(ctx, model, data)
	if err != nil {
		m.failures.Add(1)
		m.log.Error().Err(err).Msg("failed to classify image")
		m.publish(Event{Name: EventClassifyFailed, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}
	m.classified.Add(1)
	m.publish(Event{Name: EventClassifyDone, Fields: map[string]any{"count": len(preds)}})
	return preds, nil
}

func (m *Manager) dropSuperseded(sessionID string, token uint64) {
	m.superseded.Add(1)
	m.log.Debug().Str("session", sessionID).Uint64("token", token).Msg("classification superseded")
	m.publish(Event{Name: EventClassifySuperseded, SessionID: sessionID, Fields: map[string]any{"token": token}})
}

func (m *Manager) classifySource(ctx context.Context, model Model, src ImageSource) ([]Prediction, error) {
	data, err := src.Bytes()
	if err != nil {
		return nil, decodeError{err: err}
	}
	return m.classifyBytes(ctx, model, data)
}

func (m *Manager) classifyBytes(ctx context.Context, model Model, data []byte) (preds []Prediction, err error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError{err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			preds, err = nil, runtimePanicError{v: r}
		}
	}()
	raw, err := model.Classify(ctx, img, m.topK)
	if err != nil {
		return nil, err
	}
	return normalize(raw, m.topK), nil
}
