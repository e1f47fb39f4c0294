// Package reducer provides the reducer runtime shared by hand-written and
// generated reducers.
//
// A reducer is a pure, total function from (state, action) to the next
// state. It performs no I/O, never mutates its inputs and returns the input
// state unchanged for identifiers it does not handle.
//
// Reducers are usually decomposed into one handler per action identifier,
// with the signature (state, args...) -> state. Two ways to wire them:
//
//	// Runtime table, typed at compile time through generics:
//	table, err := reducer.NewTable(
//	    reducer.Bind1("ADD_ITEM", addItem),
//	    reducer.Bind2("CHANGE_STATE", changeState),
//	)
//
//	// Generated by fluxgen from a reducer description:
//	//go:generate fluxgen generate todo.cue
//
// Both paths share the payload codec in codec.go: a single argument travels
// as the payload itself, several arguments as an ir.Tuple in parameter order,
// and no arguments as a nil payload. Decoding a payload built by the matching
// Encode function never fails.
package reducer
