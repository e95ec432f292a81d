package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campushq/registrar/internal/redact"
)

// InMemoryEmitter is a simple implementation of the Emitter interface
// that stores registered handlers in memory and dispatches events to them.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "in_memory_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other
// handlers, and the first error encountered will be returned.
func (e *InMemoryEmitter) EmitEvent(ctx context.Context, event *AuditEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting event",
		"event_id", event.ID,
		"event_type", event.Type,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// LoggingHandler is a Handler that writes every received event to the
// structured log. It is the default sink wired in by the server.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler writing to the given logger.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.With("component", "audit_log")}
}

// HandleEvent logs the event at info level. Details pass through redaction
// so contact information never reaches the log output.
func (h *LoggingHandler) HandleEvent(_ context.Context, event *AuditEvent) error {
	h.logger.Info("audit event",
		"event_id", event.ID,
		"event_type", event.Type,
		"occurred_at", event.OccurredAt,
		"details", redact.String(string(event.Details)))
	return nil
}

// CaptureHandler is a Handler that records received events in memory.
// It is intended for tests that assert on emitted events.
type CaptureHandler struct {
	mu     sync.Mutex
	events []*AuditEvent
}

// NewCaptureHandler creates an empty CaptureHandler.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{}
}

// HandleEvent records the event.
func (h *CaptureHandler) HandleEvent(_ context.Context, event *AuditEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

// Events returns a copy of all recorded events in emission order.
func (h *CaptureHandler) Events() []*AuditEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*AuditEvent, len(h.events))
	copy(out, h.events)
	return out
}

// ByType returns the recorded events matching the given type.
func (h *CaptureHandler) ByType(eventType string) []*AuditEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*AuditEvent
	for _, ev := range h.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
