package vision

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultTopK       = 5
	maxTopK           = 5
	defaultSessionTTL = 30 * time.Minute
	defaultVersion    = 2
	defaultAlpha      = 1.0
	defaultImageSize  = 224
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Runtime    Runtime
	Options    LoadOptions
	TopK       int
	SessionTTL time.Duration
	Publisher  EventPublisher
	// Logger receives load/classification failures. Nil means no logging.
	Logger *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:   StateIdle,
		runtime: cfg.Runtime,
		opts:    cfg.Options,
		done:    make(chan struct{}),
		pub:     cfg.Publisher,
	}
	// Apply defaults if unset
	// Results are never longer than maxTopK.
	switch {
	case cfg.TopK <= 0:
		m.topK = defaultTopK
	case cfg.TopK > maxTopK:
		m.topK = maxTopK
	default:
		m.topK = cfg.TopK
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	m.sessions = NewSessions(ttl)
	if m.opts.Version <= 0 {
		m.opts.Version = defaultVersion
	}
	if m.opts.Alpha <= 0 {
		m.opts.Alpha = defaultAlpha
	}
	if m.opts.ImageSize <= 0 {
		m.opts.ImageSize = defaultImageSize
	}
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	m.startTime = time.Now()
	return m
}
