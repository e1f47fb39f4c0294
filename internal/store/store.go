package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/reducer"
)

// Listener is notified after each applied dispatch with the new state.
//
// ctx is marked as belonging to this Store's in-flight dispatch; passing it
// (or a context derived from it) back to Dispatch on the same Store fails
// with ErrReentrantDispatch. A listener that dispatches to the same Store
// with an unrelated context waits for the write lock it is itself holding,
// so that Dispatch returns only once the unrelated context is done.
type Listener[S any] func(ctx context.Context, state S)

// Store is a single-writer container for one state value of type S.
type Store[S any] struct {
	id      string
	name    string
	reducer reducer.Reducer[S]
	clock   Clock

	observer Observer

	// sem is the write lock: a single token held across reduce, publish
	// and notify. A channel lets waiting callers give up with their ctx.
	sem     chan struct{}
	current atomic.Pointer[snapshot[S]]

	// subs is a copy-on-write list; subMu only guards writers.
	subMu   sync.Mutex
	subs    atomic.Pointer[[]*subscriber[S]]
	nextSub uint64
}

type snapshot[S any] struct {
	state   S
	version int64
}

type subscriber[S any] struct {
	id       uint64
	listener Listener[S]
}

// inflightKey marks a ctx as inside the reduce or notify phase of one Store.
type inflightKey struct {
	store any
}

// New creates an idle Store holding initial at version 0.
func New[S any](r reducer.Reducer[S], initial S, opts ...Option) *Store[S] {
	if r == nil {
		panic("store: nil reducer")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var observers []Observer
	if cfg.logger != nil {
		observers = append(observers, NewSlogObserver(cfg.logger))
	}
	if cfg.observer != nil {
		observers = append(observers, cfg.observer)
	}

	s := &Store[S]{
		id:       cfg.ids.Generate(),
		name:     cfg.name,
		reducer:  r,
		clock:    cfg.clock,
		observer: NewMultiObserver(observers...),
		sem:      make(chan struct{}, 1),
	}
	s.current.Store(&snapshot[S]{state: initial})
	s.subs.Store(&[]*subscriber[S]{})
	return s
}

// ID returns the store instance id.
func (s *Store[S]) ID() string {
	return s.id
}

// State returns the current state. It never blocks and never recomputes.
func (s *Store[S]) State() S {
	return s.current.Load().state
}

// Version returns the logical version of the current state.
// It is 0 until the first applied dispatch.
func (s *Store[S]) Version() int64 {
	return s.current.Load().version
}

// Dispatch applies a to the current state and notifies subscribers.
//
// Calls from different goroutines are serialized. A call waiting for an
// in-flight dispatch gives up with ctx.Err() once ctx is done. Otherwise the
// call returns once the new state is published and every listener in the
// subscriber snapshot has returned. A reducer error is returned as a
// *DispatchError and leaves the state untouched.
//
// The reducer and the listeners receive ctx marked with this Store; a
// Dispatch made with it fails with *ReentrantDispatchError and the in-flight
// dispatch carries on. Observers hear the outcome after the write lock is
// released. Panics from the reducer or a listener propagate to the caller
// after the lock is released and a dispatch.failed event is emitted.
func (s *Store[S]) Dispatch(ctx context.Context, a ir.Action) error {
	if ctx.Value(inflightKey{store: s}) != nil {
		err := &ReentrantDispatchError{StoreID: s.id, Action: a.Type}
		s.emit(ctx, EventDispatchRejected, a, s.Version(), err, 0)
		return err
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}

	start := time.Now()
	held := true
	defer func() {
		if !held {
			return
		}
		s.release()
		if r := recover(); r != nil {
			s.emit(ctx, EventDispatchFailed, a, s.Version(), fmt.Errorf("panic: %v", r), time.Since(start))
			panic(r)
		}
	}()

	typ, version, err := s.apply(ctx, a)
	held = false
	s.release()

	s.emit(ctx, typ, a, version, err, time.Since(start))
	return err
}

// apply runs one dispatch while the write lock is held.
func (s *Store[S]) apply(ctx context.Context, a ir.Action) (EventType, int64, error) {
	cur := s.current.Load()
	if !reducer.Handles(s.reducer, a.Type) {
		return EventDispatchIgnored, cur.version, nil
	}

	mctx := context.WithValue(ctx, inflightKey{store: s}, a.Type)

	next, err := s.reducer.Reduce(mctx, cur.state, a)
	if err != nil {
		return EventDispatchFailed, cur.version, &DispatchError{StoreID: s.id, Action: a.Type, Err: err}
	}

	published := &snapshot[S]{state: next, version: s.clock.Next()}
	s.current.Store(published)

	for _, sub := range *s.subs.Load() {
		sub.listener(mctx, published.state)
	}
	return EventDispatchApplied, published.version, nil
}

func (s *Store[S]) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store[S]) release() {
	<-s.sem
}

// Subscribe registers l to be called after every applied dispatch.
//
// A subscription added while a notification pass is running is not part of
// that pass; it first hears about the next applied dispatch.
func (s *Store[S]) Subscribe(l Listener[S]) *Subscription {
	if l == nil {
		panic("store: nil listener")
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	sub := &subscriber[S]{id: s.nextSub, listener: l}

	next := append(slices.Clip(*s.subs.Load()), sub)
	s.subs.Store(&next)

	return &Subscription{cancel: func() { s.unsubscribe(sub.id) }}
}

// Subscribers returns the number of active subscriptions.
func (s *Store[S]) Subscribers() int {
	return len(*s.subs.Load())
}

func (s *Store[S]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	next := slices.DeleteFunc(slices.Clone(*s.subs.Load()), func(sub *subscriber[S]) bool {
		return sub.id == id
	})
	s.subs.Store(&next)
}

func (s *Store[S]) emit(ctx context.Context, typ EventType, a ir.Action, version int64, err error, d time.Duration) {
	s.observer.OnEvent(ctx, Event{
		Type:      typ,
		StoreID:   s.id,
		StoreName: s.name,
		Action:    a,
		Version:   version,
		Err:       err,
		Timestamp: time.Now(),
		Duration:  d,
	})
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel removes the listener. Idempotent and safe to call from inside the
// listener itself. A listener cancelled mid-pass may still receive the
// notification of that pass; it receives none from later dispatches.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
