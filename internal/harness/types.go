package harness

import (
	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/reducer"
	"github.com/roach88/fluxcore/internal/store"
)

// Scenario is a reducer, its initial state and the actions to dispatch.
type Scenario[S any] struct {
	// Name identifies the scenario; it is also the golden file name.
	Name    string
	Reducer reducer.Reducer[S]
	Initial S
	Steps   []Step
}

// Step is one dispatch with optional expectations.
type Step struct {
	Name   string
	Action ir.Action

	// WantErr expects Dispatch to return an error.
	WantErr bool

	// WantEvent, when set, is the event type the store must emit.
	WantEvent store.EventType
}

// StepResult records what one step did.
type StepResult struct {
	Seq      int
	Name     string
	Action   string
	Payload  ir.IRValue
	Event    store.EventType
	Version  int64
	Notified int // listener calls caused by the step
	State    ir.IRValue
	Err      error
}

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every step met its expectations.
	Pass   bool
	Steps  []StepResult
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Steps: []StepResult{}, Errors: []string{}}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many steps produced an event of type typ.
func (r *Result) Count(typ store.EventType) int {
	n := 0
	for _, s := range r.Steps {
		if s.Event == typ {
			n++
		}
	}
	return n
}

// Events returns the event type of every step in order.
func (r *Result) Events() []store.EventType {
	out := make([]store.EventType, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Event
	}
	return out
}
