package harness

import (
	"context"
	"fmt"

	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/store"
	"github.com/roach88/fluxcore/internal/testutil"
)

// Run dispatches every step of sc on a fresh store.
//
// Expectation mismatches are collected in Result.Errors and do not stop
// the run. An error is returned only when a payload or state has no
// canonical JSON form (floats, funcs, channels), since the step cannot be
// recorded.
func Run[S any](ctx context.Context, sc Scenario[S]) (*Result, error) {
	events := &testutil.Collector[store.Event]{}
	s := store.New[S](sc.Reducer, sc.Initial,
		store.WithName(sc.Name),
		store.WithLogger(nil),
		store.WithIDGenerator(testutil.NewSequenceIDs(sc.Name)),
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithObserver(store.ObserverFunc(func(_ context.Context, e store.Event) {
			events.Add(e)
		})),
	)

	notified := 0
	s.Subscribe(func(context.Context, S) { notified++ })

	result := NewResult()
	for i, step := range sc.Steps {
		seen, before := events.Len(), notified
		err := s.Dispatch(ctx, step.Action)

		sr := StepResult{
			Seq:      i + 1,
			Name:     step.Name,
			Action:   step.Action.Type,
			Version:  s.Version(),
			Notified: notified - before,
			Err:      err,
		}
		if all := events.All(); len(all) > seen {
			sr.Event = all[len(all)-1].Type
		}

		if sr.Payload, err = ir.FromPayload(step.Action.Payload); err != nil {
			return nil, fmt.Errorf("step %d (%s): payload: %w", sr.Seq, sr.Action, err)
		}
		if sr.State, err = ir.FromPayload(s.State()); err != nil {
			return nil, fmt.Errorf("step %d (%s): state: %w", sr.Seq, sr.Action, err)
		}

		checkStep(result, step, sr)
		result.Steps = append(result.Steps, sr)
	}
	return result, nil
}

func checkStep(result *Result, step Step, sr StepResult) {
	label := fmt.Sprintf("step %d (%s)", sr.Seq, sr.Action)
	if step.Name != "" {
		label = fmt.Sprintf("step %d %q (%s)", sr.Seq, step.Name, sr.Action)
	}

	switch {
	case step.WantErr && sr.Err == nil:
		result.AddError(label + ": expected an error, dispatch succeeded")
	case !step.WantErr && sr.Err != nil:
		result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, sr.Err))
	}
	if step.WantEvent != "" && step.WantEvent != sr.Event {
		result.AddError(fmt.Sprintf("%s: expected event %s, got %s", label, step.WantEvent, sr.Event))
	}
}
