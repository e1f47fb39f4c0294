// Package store implements the single-writer state container.
//
// A Store holds exactly one current state value and an ordered set of
// subscribers. State advances only through Dispatch, which runs the reducer,
// publishes the result atomically and then notifies a snapshot of the
// subscribers, in subscription order, on the dispatching goroutine.
//
// # Guarantees
//
//   - Dispatches are serialized: at most one reduce+notify pass per Store.
//   - State never blocks and never observes a partially applied transition.
//   - A listener runs after State already returns the new value.
//   - Unbound action identifiers change nothing and notify nobody.
//   - Dispatch from inside the reducer or a listener (using the ctx it was
//     given) is rejected with ErrReentrantDispatch instead of deadlocking.
//   - Observers run after the write lock is released.
//
// Every Store is an explicit instance; there is no package-level default.
package store
