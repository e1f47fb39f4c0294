package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/reducer"
	"github.com/roach88/fluxcore/internal/store"
)

type counter struct {
	N int `json:"n"`
}

var counterReducer = reducer.MustTable(
	reducer.Bind0("INC", func(c counter) counter { return counter{N: c.N + 1} }),
	reducer.Bind1("ADD", func(c counter, n int) counter { return counter{N: c.N + n} }),
)

func counterScenario() Scenario[counter] {
	return Scenario[counter]{
		Name:    "counter_scenario",
		Reducer: counterReducer,
		Steps: []Step{
			{Name: "bump", Action: ir.NewAction("INC", reducer.Encode0())},
			{Action: ir.NewAction("ADD", reducer.Encode1(5))},
			{Action: ir.NewAction("ADD", "x"), WantErr: true, WantEvent: store.EventDispatchFailed},
			{Action: ir.NewAction("NOPE", nil), WantEvent: store.EventDispatchIgnored},
		},
	}
}

func TestRunWithGolden(t *testing.T) {
	result := RunWithGolden(t, counterScenario())

	assert.True(t, result.Pass)
	assert.Equal(t, 2, result.Count(store.EventDispatchApplied))
	assert.Equal(t, []store.EventType{
		store.EventDispatchApplied,
		store.EventDispatchApplied,
		store.EventDispatchFailed,
		store.EventDispatchIgnored,
	}, result.Events())
}

func TestRunRecordsSteps(t *testing.T) {
	result, err := Run(context.Background(), counterScenario())
	require.NoError(t, err)
	require.Len(t, result.Steps, 4)

	second := result.Steps[1]
	assert.Equal(t, 2, second.Seq)
	assert.Equal(t, "ADD", second.Action)
	assert.Equal(t, ir.IRInt(5), second.Payload)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, 1, second.Notified)
	assert.Equal(t, ir.IRObject{"n": ir.IRInt(6)}, second.State)

	failed := result.Steps[2]
	assert.True(t, store.IsDispatchError(failed.Err))
	assert.True(t, reducer.IsPayloadDecodeError(failed.Err))
	assert.Equal(t, 0, failed.Notified)
}

func TestRunCollectsUnmetExpectations(t *testing.T) {
	sc := counterScenario()
	sc.Steps = []Step{
		{Name: "should fail", Action: ir.NewAction("INC", nil), WantErr: true},
		{Action: ir.NewAction("ADD", "x")},
		{Action: ir.NewAction("INC", nil), WantEvent: store.EventDispatchIgnored},
	}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, `step 1 "should fail" (INC): expected an error, dispatch succeeded`, result.Errors[0])
	assert.Contains(t, result.Errors[1], "step 2 (ADD): unexpected error:")
	assert.Equal(t, "step 3 (INC): expected event dispatch.ignored, got dispatch.applied", result.Errors[2])
}

func TestRunRejectsFloatPayload(t *testing.T) {
	sc := counterScenario()
	sc.Steps = []Step{{Action: ir.NewAction("NOPE", 1.5)}}

	_, err := Run(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (NOPE): payload")
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := Run(context.Background(), counterScenario())
	require.NoError(t, err)
	b, err := Run(context.Background(), counterScenario())
	require.NoError(t, err)

	sa, err := Snapshot("x", a)
	require.NoError(t, err)
	sb, err := Snapshot("x", b)
	require.NoError(t, err)
	assert.Equal(t, string(sa), string(sb))
}
