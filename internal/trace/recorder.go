package trace

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/fluxcore/internal/store"
)

// Recorder is a store.Observer that writes every event to a DB.
//
// Observers cannot fail a dispatch, so write errors are logged and kept;
// Err returns the first one.
type Recorder struct {
	db     *DB
	logger *slog.Logger

	// skip holds event types that are not recorded.
	skip map[store.EventType]bool

	mu       sync.Mutex
	firstErr error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets where write failures are logged.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// SkipIgnored drops dispatch.ignored events, which can dominate the log
// when many stores share an action stream.
func SkipIgnored() RecorderOption {
	return func(r *Recorder) {
		r.skip[store.EventDispatchIgnored] = true
	}
}

// NewRecorder creates a Recorder writing to db.
func NewRecorder(db *DB, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		db:     db,
		logger: slog.Default(),
		skip:   map[store.EventType]bool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnEvent writes e. The write is not cancelled with ctx, so the trace stays
// complete even when the dispatching caller gives up.
func (r *Recorder) OnEvent(ctx context.Context, e store.Event) {
	if r.skip[e.Type] {
		return
	}
	if _, err := r.db.Write(context.WithoutCancel(ctx), e); err != nil {
		r.logger.WarnContext(ctx, "trace write failed",
			slog.String("store", e.StoreID),
			slog.String("action", e.Action.Type),
			slog.String("error", err.Error()),
		)
		r.mu.Lock()
		if r.firstErr == nil {
			r.firstErr = err
		}
		r.mu.Unlock()
	}
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}
