// Package harness runs reducer scenarios through a store and snapshots
// what happened.
//
// A scenario is an initial state plus a list of actions. Run dispatches
// them in order on a fresh store with a deterministic clock and ids, and
// records for each step the event the store emitted, how many listener
// calls it caused, the resulting version and the state in canonical JSON:
//
//	res := harness.RunWithGolden(t, harness.Scenario[todo.List]{
//		Name:    "todo_scenario",
//		Reducer: todo.TodoReducer,
//		Initial: pseq.Empty[todo.Item](),
//		Steps: []harness.Step{
//			{Action: todo.AddItem(todo.Item{ID: 1, Text: "a"})},
//			{Action: ir.NewAction("REMOVE_ALL", nil), WantEvent: store.EventDispatchIgnored},
//		},
//	})
//
// Golden files live in testdata/golden/<name>.golden of the calling
// package. Regenerate them with
//
//	go test ./... -update
package harness
