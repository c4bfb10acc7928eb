package audit

import (
	"context"
	"log/slog"
)

// Worker drains a buffered channel of events into a store so slow sinks
// (a Kafka broker) never sit on the request path.
type Worker struct {
	store  Store
	inbox  chan Event
	logger *slog.Logger
}

func NewWorker(store Store, buffer int, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: make(chan Event, buffer), logger: logger}
}

// Append enqueues an event. When the buffer is full the event is dropped and
// logged rather than blocking the caller.
func (w *Worker) Append(ctx context.Context, event Event) error {
	select {
	case w.inbox <- event:
	default:
		w.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
	}
	return nil
}

// Run consumes events until ctx is cancelled. Store failures are logged and
// the worker keeps going.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event", "action", event.Action, "error", err)
			}
		}
	}
}
