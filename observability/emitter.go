package observability

import "veles/core/events"

// MetricsEmitter wraps another Emitter, recording an emitted_total metric
// per event before forwarding to the wrapped emitter (an indexer, a
// subscription hub, or events.NoopEmitter).
type MetricsEmitter struct {
	next events.Emitter
}

// NewMetricsEmitter wraps next with event-emission metrics. A nil next
// discards events after recording them.
func NewMetricsEmitter(next events.Emitter) *MetricsEmitter {
	if next == nil {
		next = events.NoopEmitter{}
	}
	return &MetricsEmitter{next: next}
}

// Emit records the event's type against the events registry, then forwards
// it to the wrapped emitter.
func (m *MetricsEmitter) Emit(event events.Event) {
	Events().RecordEmitted(event.EventType())
	m.next.Emit(event)
}
