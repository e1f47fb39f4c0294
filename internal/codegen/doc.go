// Package codegen turns a validated reducer description into Go source.
//
// For a reducer named Todo over state type State the output holds:
//
//   - one Action* constant per identifier
//   - TodoReduce(ctx context.Context, state State, a ir.Action) (State, error),
//     a switch that decodes each payload with reducer.DecodeN and calls the
//     handler. Handlers are pure and never see ctx.
//   - TodoHandles(actionType string) bool
//   - TodoReducer, a reducer.Reducer[State] that also implements
//     reducer.Matcher
//   - one creator per identifier taking the handler's parameters and
//     returning the action, encoded with reducer.EncodeN
//
// Creators and dispatch share the reducer codec, so a payload built by a
// creator always decodes in the matching case.
package codegen
