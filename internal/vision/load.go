package vision

import (
	"context"
	"math"
)

// Start loads the model in the background. It returns ErrAlreadyLoading if a
// load was already started; the first outcome stays in effect for the life of
// the Manager.
func (m *Manager) Start(ctx context.Context) error {
	if !m.begin() {
		return ErrAlreadyLoading
	}
	go func() { _ = m.run(ctx) }()
	return nil
}

// Done is closed once the load finished, successfully or not.
func (m *Manager) Done() <-chan struct{} { return m.done }

// Load acquires the model synchronously. Concurrent or repeated calls wait
// for the first load and return its outcome. There is no retry.
func (m *Manager) Load(ctx context.Context) error {
	if m.begin() {
		return m.run(ctx)
	}
	select {
	case <-m.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadErr
}

// begin flips the manager into the loading state exactly once.
func (m *Manager) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return false
	}
	m.started = true
	m.state = StateLoading
	m.progress = 0
	m.err = ""
	return true
}

func (m *Manager) run(ctx context.Context) error {
	modelID := m.opts.ModelID()
	m.log.Info().Str("model", modelID).Msg("model load start")
	m.publish(Event{Name: EventLoadStart, Fields: map[string]any{"model": modelID}})

	model, err := m.loadModel(ctx)

	m.mu.Lock()
	if err != nil {
		m.state = StateError
		m.err = err.Error()
		m.loadErr = err
	} else {
		m.model = model
		m.state = StateReady
		m.progress = 100
	}
	close(m.done)
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Str("model", modelID).Msg("failed to load model")
		m.publish(Event{Name: EventLoadFailed, Fields: map[string]any{"model": modelID, "error": err.Error()}})
		return err
	}
	m.log.Info().Str("model", modelID).Int("labels", model.Labels()).Msg("model ready")
	m.publish(Event{Name: EventModelReady, Fields: map[string]any{"model": modelID, "labels": model.Labels()}})
	return nil
}

func (m *Manager) loadModel(ctx context.Context) (model Model, err error) {
	if m.runtime == nil {
		return nil, ErrModelNotReady
	}
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, runtimePanicError{v: r}
		}
	}()
	model, err = m.runtime.Load(ctx, m.opts, m.reportProgress)
	if err == nil && model == nil {
		err = ErrModelNotReady
	}
	return model, err
}

// reportProgress records a runtime progress fraction as a rounded percentage.
// Values never go backwards and are ignored once the load has finished.
func (m *Manager) reportProgress(p float64) {
	if math.IsNaN(p) {
		return
	}
	pct := int(math.Round(p * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	m.mu.Lock()
	if m.state != StateLoading || pct <= m.progress {
		m.mu.Unlock()
		return
	}
	m.progress = pct
	m.mu.Unlock()
	m.publish(Event{Name: EventLoadProgress, Fields: map[string]any{"progress": pct}})
}
