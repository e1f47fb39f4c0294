package store

import (
	"errors"
	"fmt"
)

// ErrReentrantDispatch is matched (errors.Is) by every ReentrantDispatchError.
var ErrReentrantDispatch = errors.New("reentrant dispatch")

// ReentrantDispatchError reports a Dispatch issued from within the reducer
// or a listener of the same Store while that Store's dispatch is in flight.
// The in-flight dispatch is unaffected; the rejected action is dropped.
type ReentrantDispatchError struct {
	StoreID string
	Action  string
}

func (e *ReentrantDispatchError) Error() string {
	return fmt.Sprintf("store %s: reentrant dispatch of %q rejected", e.StoreID, e.Action)
}

// Is makes errors.Is(err, ErrReentrantDispatch) succeed.
func (e *ReentrantDispatchError) Is(target error) bool {
	return target == ErrReentrantDispatch
}

// DispatchError wraps a reducer failure with the action that caused it.
// The store state is unchanged when it is returned.
type DispatchError struct {
	StoreID string
	Action  string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("store %s: dispatch %s: %v", e.StoreID, e.Action, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// IsReentrantDispatch returns true if err is or wraps a ReentrantDispatchError.
func IsReentrantDispatch(err error) bool {
	return errors.Is(err, ErrReentrantDispatch)
}

// IsDispatchError returns true if err is or wraps a DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}
