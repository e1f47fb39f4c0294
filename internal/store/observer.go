package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/fluxcore/internal/ir"
)

// EventType identifies what happened to a dispatched action.
type EventType string

const (
	// EventDispatchApplied: the reducer ran, the new state was published
	// and every subscriber in the snapshot was notified.
	EventDispatchApplied EventType = "dispatch.applied"

	// EventDispatchIgnored: the reducer does not bind the identifier.
	EventDispatchIgnored EventType = "dispatch.ignored"

	// EventDispatchFailed: the reducer returned an error or a reducer or
	// listener panicked.
	EventDispatchFailed EventType = "dispatch.failed"

	// EventDispatchRejected: reentrant dispatch from the reducer or a
	// listener of the same Store.
	EventDispatchRejected EventType = "dispatch.rejected"
)

// Event describes one Dispatch outcome.
type Event struct {
	Type      EventType
	StoreID   string
	StoreName string
	Action    ir.Action

	// Version is the version of the state after the dispatch
	// (unchanged unless Type is EventDispatchApplied).
	Version int64

	Err       error
	Timestamp time.Time
	Duration  time.Duration
}

// Observer receives dispatch events on the dispatching goroutine, after the
// store's write lock is released, so a slow observer such as a trace writer
// delays only its own caller. Events of concurrent dispatches may arrive out
// of version order. dispatch.rejected is the exception: it is reported to the
// reentrant caller while the outer dispatch still holds the lock.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// MultiObserver fans out events to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver forwards to all non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// SlogObserver logs events: Debug for applied and ignored dispatches,
// Warn for failures and rejections.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver writing to logger.
// A nil logger means slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := slog.LevelDebug
	if event.Err != nil {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("store", event.StoreID),
		slog.String("action", event.Action.Type),
		slog.Int64("version", event.Version),
		slog.Duration("duration", event.Duration),
	}
	if event.StoreName != "" {
		attrs = append(attrs, slog.String("name", event.StoreName))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
