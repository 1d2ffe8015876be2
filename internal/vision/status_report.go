package vision

import (
	"time"

	"visiond/pkg/types"
)

// View returns the render state for one session. Unknown ids yield a view
// with no image and no predictions.
func (m *Manager) View(sessionID string) View {
	m.mu.RLock()
	v := View{
		SessionID:  sessionID,
		State:      m.state,
		Progress:   m.progress,
		ModelID:    m.opts.ModelID(),
		ModelError: m.err,
		Loading:    m.state == StateLoading,
	}
	m.mu.RUnlock()

	if sess, ok := m.sessions.Get(sessionID); ok {
		sess.mu.Lock()
		v.ImageSource = sess.image
		v.Predictions = clonePredictions(sess.predictions)
		v.Token = sess.token
		v.LastError = sess.lastErr
		if sess.inflight > 0 {
			v.Loading = true
		}
		sess.mu.Unlock()
	}
	return v
}

// Status builds a detailed status response for /api/status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	resp := types.StatusResponse{
		State:    string(m.state),
		Progress: m.progress,
		Ready:    m.state == StateReady && m.model != nil,
		Loading:  m.state == StateLoading,
		Model:    m.opts.ModelID(),
		Error:    m.err,
	}
	if m.model != nil {
		resp.Labels = m.model.Labels()
	}
	m.mu.RUnlock()
	resp.Sessions = m.sessions.Len()
	resp.ClassificationsTotal = m.classified.Load()
	resp.FailuresTotal = m.failures.Load()
	resp.SupersededTotal = m.superseded.Load()
	resp.UptimeSeconds = int64(time.Since(m.startTime).Seconds())
	resp.ServerTimeUnix = time.Now().Unix()
	return resp
}

// ToAPI converts predictions to their JSON payload form.
func ToAPI(preds []Prediction) []types.Prediction {
	out := make([]types.Prediction, len(preds))
	for i, p := range preds {
		out[i] = types.Prediction{Label: p.Label, Probability: p.Probability}
	}
	return out
}
