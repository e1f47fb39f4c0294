package ir

import "fmt"

// Action is the unit of state-change intent: an identifier plus a payload.
//
// Type is unique within the handled set of one reducer, not globally.
// Payload shape depends on the number of handler arguments:
//   - zero arguments: nil
//   - one argument: the argument itself
//   - several arguments: a Tuple holding them by position
//
// Actions are values. Once built they are never modified; a Tuple payload is
// owned by the action and must not be mutated by the caller after NewAction.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Tuple is the positional payload of an action whose handler takes more than
// one argument.
type Tuple []any

// NewAction creates an Action with the given identifier and payload.
func NewAction(actionType string, payload any) Action {
	return Action{Type: actionType, Payload: payload}
}

// Arity reports how many handler arguments the payload carries.
// A nil payload has arity 0 and a Tuple has its length; anything else is 1.
func (a Action) Arity() int {
	switch p := a.Payload.(type) {
	case nil:
		return 0
	case Tuple:
		return len(p)
	default:
		return 1
	}
}

// String renders the action for logs.
func (a Action) String() string {
	if a.Payload == nil {
		return a.Type
	}
	return fmt.Sprintf("%s(%v)", a.Type, a.Payload)
}
