package service

import (
	"context"
	"log/slog"

	"github.com/campushq/registrar/internal/events"
)

// emitAudit builds and publishes an audit event after a committed state
// change. Emission failures are logged and swallowed: the state change has
// already committed, so the operation must not be reported as failed.
func emitAudit(ctx context.Context, emitter events.Emitter, log *slog.Logger, eventType string, details interface{}) {
	ev, err := events.NewAuditEvent(eventType, details)
	if err != nil {
		log.Warn("failed to build audit event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := emitter.EmitEvent(ctx, ev); err != nil {
		log.Warn("failed to emit audit event",
			slog.String("event_type", eventType),
			slog.String("event_id", ev.ID.String()),
			slog.String("error", err.Error()))
	}
}
