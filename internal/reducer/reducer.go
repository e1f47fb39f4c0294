package reducer

import (
	"context"

	"github.com/roach88/fluxcore/internal/ir"
)

// Reducer computes the next state from the current state and an action.
//
// Implementations must be pure and total. An unrecognized action identifier
// returns state unchanged with a nil error. A non-nil error (payload decode
// failure, contract violation) leaves the caller's state untouched.
//
// ctx belongs to the dispatch being reduced. It carries no deadline the
// reducer should honor; a store marks it so that a Dispatch made with it
// back onto the same store is rejected instead of blocking.
type Reducer[S any] interface {
	Reduce(ctx context.Context, state S, a ir.Action) (S, error)
}

// Matcher is implemented by reducers that know their handled identifiers.
// The store uses it to skip reduction and notification for unbound actions.
type Matcher interface {
	Handles(actionType string) bool
}

// Func adapts a plain function to the Reducer interface.
type Func[S any] func(ctx context.Context, state S, a ir.Action) (S, error)

// Reduce calls f(ctx, state, a).
func (f Func[S]) Reduce(ctx context.Context, state S, a ir.Action) (S, error) {
	return f(ctx, state, a)
}

// matched pairs a reduce function with the set of identifiers it handles.
type matched[S any] struct {
	reduce  Func[S]
	handles func(string) bool
}

func (m matched[S]) Reduce(ctx context.Context, state S, a ir.Action) (S, error) {
	return m.reduce(ctx, state, a)
}

func (m matched[S]) Handles(actionType string) bool {
	return m.handles(actionType)
}

// Match returns a Reducer that also implements Matcher.
// Generated reducers are exposed through it.
func Match[S any](reduce Func[S], handles func(actionType string) bool) Reducer[S] {
	return matched[S]{reduce: reduce, handles: handles}
}

// Handles reports whether r handles actionType.
// Reducers that do not implement Matcher are assumed to handle everything.
func Handles[S any](r Reducer[S], actionType string) bool {
	if m, ok := r.(Matcher); ok {
		return m.Handles(actionType)
	}
	return true
}
