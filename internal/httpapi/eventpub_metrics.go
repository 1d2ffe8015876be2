package httpapi

import "visiond/internal/vision"

// MetricsPublisher turns vision events into Prometheus series.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(e vision.Event) {
	switch e.Name {
	case vision.EventLoadStart:
		modelReady.Set(0)
		modelLoadProgress.Set(0)
	case vision.EventLoadProgress:
		if p, ok := e.Fields["progress"].(int); ok {
			modelLoadProgress.Set(float64(p))
		}
	case vision.EventModelReady:
		modelReady.Set(1)
		modelLoadProgress.Set(100)
	case vision.EventLoadFailed:
		modelReady.Set(0)
		modelLoadFailures.Inc()
	case vision.EventImageIngested:
		if n, ok := e.Fields["bytes"].(int); ok {
			uploadBytes.Observe(float64(n))
		}
	case vision.EventClassifyDone:
		classificationsTotal.WithLabelValues("ok").Inc()
	case vision.EventClassifyFailed:
		classificationsTotal.WithLabelValues("error").Inc()
	case vision.EventClassifySuperseded:
		classificationsTotal.WithLabelValues("superseded").Inc()
	}
}
