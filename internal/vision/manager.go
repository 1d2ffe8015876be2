package vision

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Manager owns the model handle and every session's view state. All state
// changes go through its methods.
type Manager struct {
	mu       sync.RWMutex
	state    State
	progress int
	model    Model
	err      string
	loadErr  error
	started  bool
	done     chan struct{}

	runtime  Runtime
	opts     LoadOptions
	topK     int
	sessions *Sessions
	pub      EventPublisher
	log      zerolog.Logger

	startTime  time.Time
	classified atomic.Uint64
	failures   atomic.Uint64
	superseded atomic.Uint64
}

// New builds a Manager with default tunables.
func New(rt Runtime, opts LoadOptions) *Manager {
	return NewWithConfig(ManagerConfig{Runtime: rt, Options: opts})
}

// SetEventPublisher replaces the event sink. Nil restores the no-op default.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.pub = noopPublisher{}
		return
	}
	m.pub = p
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	p := m.pub
	m.mu.RUnlock()
	p.Publish(e)
}

// Ready reports whether the model handle is present.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && m.model != nil
}

// ModelID returns the identifier of the configured model variant.
func (m *Manager) ModelID() string { return m.opts.ModelID() }

// TopK returns the number of predictions requested per classification.
func (m *Manager) TopK() int { return m.topK }

func (m *Manager) currentModel() Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

// Close releases the model and drops all sessions.
func (m *Manager) Close() error {
	m.mu.Lock()
	model := m.model
	m.model = nil
	if m.state == StateReady {
		m.state = StateIdle
	}
	m.mu.Unlock()
	m.sessions.Flush()
	if model != nil {
		return model.Close()
	}
	return nil
}
