package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectYAML(t *testing.T) {
	out, err := execute(t, "inspect", filepath.Join("testdata", "todo.yaml"))
	require.NoError(t, err)
	newGoldie(t).Assert(t, "inspect_todo_yaml", []byte(out))
}

func TestInspectJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "inspect", filepath.Join("testdata", "cue"))
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   InspectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, KindCUE, resp.Data.Kind)
	require.Len(t, resp.Data.Reducers, 2)

	counter := resp.Data.Reducers[0]
	assert.Equal(t, "Counter", counter.Spec.Name)
	assert.Equal(t, "demo", counter.Package)
	assert.Equal(t, "counter_reducer_gen.go", counter.Output)
	assert.Len(t, counter.Fingerprint, 64)
	require.Len(t, counter.Spec.Bindings, 2)
	assert.Equal(t, "ADD", counter.Spec.Bindings[1].Action)
}

func TestInspectGoPackage(t *testing.T) {
	out, err := execute(t, "inspect", filepath.Join("testdata", "gopkg"))
	require.NoError(t, err)
	assert.Contains(t, out, "Counter\n  package:     counter\n  state:       State\n")
	assert.Contains(t, out, "    ADD -> add(n int) as Add\n")
}
