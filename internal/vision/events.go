package vision

// Event represents a lifecycle event.
// Minimal and stable: name + session ID and optional fields via key/values.
type Event struct {
	Name      string
	SessionID string
	Fields    map[string]any
}

// Event names published by the Manager.
const (
	EventLoadStart          = "model_load_start"
	EventLoadProgress       = "model_load_progress"
	EventModelReady         = "model_ready"
	EventLoadFailed         = "model_load_failed"
	EventImageIngested      = "image_ingested"
	EventClassifyStart      = "classify_start"
	EventClassifyDone       = "classify_done"
	EventClassifyFailed     = "classify_failed"
	EventClassifySuperseded = "classify_superseded"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans an event out to every publisher in order.
type MultiPublisher []EventPublisher

func (mp MultiPublisher) Publish(e Event) {
	for _, p := range mp {
		if p != nil {
			p.Publish(e)
		}
	}
}
