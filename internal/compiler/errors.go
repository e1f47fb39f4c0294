package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fluxcore/internal/reducer"
)

// CompileError represents a malformed description with its source position.
// CUE inputs carry Pos; YAML and Go inputs carry Source and Line.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Source  string
	Line    int
}

func (e *CompileError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.Source, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

// DuplicateBindingError is the runtime table's error, so errors.As matches
// whether the duplicate came from a description or from reducer.NewTable.
type DuplicateBindingError = reducer.DuplicateBindingError

// UnsupportedSignatureError reports a handler that dispatch cannot be
// generated for.
type UnsupportedSignatureError struct {
	Reducer string
	Action  string
	Handler string
	Reason  string
	Line    int
}

func (e *UnsupportedSignatureError) Error() string {
	return fmt.Sprintf("reducer %s: handler %s for %q: %s", e.Reducer, e.Handler, e.Action, e.Reason)
}

// ValidationErrors is a collected set of problems reported as one error.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes each entry to errors.Is and errors.As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// AsError returns nil for an empty set, otherwise es as an error.
func AsError(es []ValidationError) error {
	if len(es) == 0 {
		return nil
	}
	return ValidationErrors(es)
}
