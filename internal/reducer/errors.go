package reducer

import (
	"errors"
	"fmt"
)

// PayloadDecodeError reports a payload whose shape does not match the
// parameters of the handler bound to its identifier. It only arises for
// hand-built actions; payloads from the matching Encode function always decode.
type PayloadDecodeError struct {
	// Action is the identifier being dispatched.
	Action string

	// Index is the tuple position that failed, or -1 for the payload as a whole.
	Index int

	// Want describes the expected type or shape.
	Want string

	// Got describes what the payload held.
	Got string
}

func (e *PayloadDecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode %s payload: argument %d: want %s, got %s", e.Action, e.Index, e.Want, e.Got)
	}
	return fmt.Sprintf("decode %s payload: want %s, got %s", e.Action, e.Want, e.Got)
}

// DuplicateBindingError reports an action identifier bound twice in one
// reducer, or two bindings that would generate the same creator or constant
// name. NewTable returns it at construction; the generator returns it from
// validation, before any code is written.
type DuplicateBindingError struct {
	// Reducer names the reducer description, when there is one.
	Reducer string
	Action  string

	// Name is set when the clash is between generated names rather than
	// identical identifiers.
	Name string

	Line      int
	FirstLine int
}

func (e *DuplicateBindingError) Error() string {
	var prefix string
	if e.Reducer != "" {
		prefix = "reducer " + e.Reducer + ": "
	}
	if e.Name != "" {
		return fmt.Sprintf("%saction %q generates %s, already generated for another action", prefix, e.Action, e.Name)
	}
	return fmt.Sprintf("%saction %q is bound more than once", prefix, e.Action)
}

// InvalidBindingError reports a binding that cannot be dispatched
// (empty identifier or nil handler).
type InvalidBindingError struct {
	Action  string
	Message string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding %q: %s", e.Action, e.Message)
}

// IsPayloadDecodeError returns true if err is or wraps a PayloadDecodeError.
func IsPayloadDecodeError(err error) bool {
	var pe *PayloadDecodeError
	return errors.As(err, &pe)
}

// IsDuplicateBindingError returns true if err is or wraps a DuplicateBindingError.
func IsDuplicateBindingError(err error) bool {
	var de *DuplicateBindingError
	return errors.As(err, &de)
}
