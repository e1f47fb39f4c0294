package reducer

import (
	"context"
	"errors"

	"github.com/roach88/fluxcore/internal/ir"
)

// Binding attaches one typed handler to an action identifier.
// Build bindings with Bind0..Bind4; the zero Binding is invalid.
type Binding[S any] struct {
	action string
	arity  int
	apply  func(state S, a ir.Action) (S, error)
}

// Action returns the bound identifier.
func (b Binding[S]) Action() string { return b.action }

// Arity returns the number of payload arguments the handler takes.
func (b Binding[S]) Arity() int { return b.arity }

// Bind0 binds a handler that takes no arguments.
func Bind0[S any](action string, fn func(S) S) Binding[S] {
	b := Binding[S]{action: action, arity: 0}
	if fn != nil {
		b.apply = func(state S, a ir.Action) (S, error) {
			if err := Decode0(a); err != nil {
				return state, err
			}
			return fn(state), nil
		}
	}
	return b
}

// Bind1 binds a single-argument handler.
func Bind1[S, A any](action string, fn func(S, A) S) Binding[S] {
	b := Binding[S]{action: action, arity: 1}
	if fn != nil {
		b.apply = func(state S, a ir.Action) (S, error) {
			va, err := Decode1[A](a)
			if err != nil {
				return state, err
			}
			return fn(state, va), nil
		}
	}
	return b
}

// Bind2 binds a two-argument handler.
func Bind2[S, A, B any](action string, fn func(S, A, B) S) Binding[S] {
	b := Binding[S]{action: action, arity: 2}
	if fn != nil {
		b.apply = func(state S, a ir.Action) (S, error) {
			va, vb, err := Decode2[A, B](a)
			if err != nil {
				return state, err
			}
			return fn(state, va, vb), nil
		}
	}
	return b
}

// Bind3 binds a three-argument handler.
func Bind3[S, A, B, C any](action string, fn func(S, A, B, C) S) Binding[S] {
	b := Binding[S]{action: action, arity: 3}
	if fn != nil {
		b.apply = func(state S, a ir.Action) (S, error) {
			va, vb, vc, err := Decode3[A, B, C](a)
			if err != nil {
				return state, err
			}
			return fn(state, va, vb, vc), nil
		}
	}
	return b
}

// Bind4 binds a four-argument handler.
func Bind4[S, A, B, C, D any](action string, fn func(S, A, B, C, D) S) Binding[S] {
	b := Binding[S]{action: action, arity: 4}
	if fn != nil {
		b.apply = func(state S, a ir.Action) (S, error) {
			va, vb, vc, vd, err := Decode4[A, B, C, D](a)
			if err != nil {
				return state, err
			}
			return fn(state, va, vb, vc, vd), nil
		}
	}
	return b
}

// Table is a reducer built from a fixed set of bindings.
//
// The table is validated once by NewTable and never changes afterwards, so
// it is safe for concurrent use. Unbound identifiers are a no-op.
type Table[S any] struct {
	handlers map[string]Binding[S]
	order    []string // declaration order
}

// NewTable validates bindings and builds a Table.
// Every problem is reported (joined), not just the first.
func NewTable[S any](bindings ...Binding[S]) (*Table[S], error) {
	t := &Table[S]{
		handlers: make(map[string]Binding[S], len(bindings)),
		order:    make([]string, 0, len(bindings)),
	}

	var errs []error
	for _, b := range bindings {
		switch {
		case b.action == "":
			errs = append(errs, &InvalidBindingError{Message: "empty action identifier"})
			continue
		case b.apply == nil:
			errs = append(errs, &InvalidBindingError{Action: b.action, Message: "nil handler"})
			continue
		}
		if _, dup := t.handlers[b.action]; dup {
			errs = append(errs, &DuplicateBindingError{Action: b.action})
			continue
		}
		t.handlers[b.action] = b
		t.order = append(t.order, b.action)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
// Use for package-level tables whose bindings are fixed in source.
func MustTable[S any](bindings ...Binding[S]) *Table[S] {
	t, err := NewTable(bindings...)
	if err != nil {
		panic(err)
	}
	return t
}

// Reduce dispatches a to its bound handler.
// Unbound identifiers return state unchanged with a nil error.
// Handlers are pure functions of state and payload and never see ctx.
func (t *Table[S]) Reduce(_ context.Context, state S, a ir.Action) (S, error) {
	b, ok := t.handlers[a.Type]
	if !ok {
		return state, nil
	}
	return b.apply(state, a)
}

// Handles reports whether actionType is bound.
func (t *Table[S]) Handles(actionType string) bool {
	_, ok := t.handlers[actionType]
	return ok
}

// Actions returns the bound identifiers in declaration order.
func (t *Table[S]) Actions() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
