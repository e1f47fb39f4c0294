package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateYAML(t *testing.T) {
	dir := copyFixture(t, "todo.yaml")

	out, err := execute(t, "generate", filepath.Join(dir, "todo.yaml"))
	require.NoError(t, err)

	path := filepath.Join(dir, "zz_generated.go")
	assert.Contains(t, out, "✓ Generated "+path+" (Todo, 3 binding(s))")

	code, err := os.ReadFile(path)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "generate_todo_yaml", code)
}

func TestGenerateLeavesCurrentFileAlone(t *testing.T) {
	dir := copyFixture(t, "todo.yaml")
	input := filepath.Join(dir, "todo.yaml")
	path := filepath.Join(dir, "zz_generated.go")

	_, err := execute(t, "generate", input)
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)

	out, err := execute(t, "generate", input)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+path+" is up to date\n", out)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestGenerateCheck(t *testing.T) {
	dir := copyFixture(t, "todo.yaml")
	input := filepath.Join(dir, "todo.yaml")
	path := filepath.Join(dir, "zz_generated.go")

	out, err := execute(t, "generate", "--check", input)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeStale)
	assert.Contains(t, out, "✗ "+path+" is stale")
	assert.NoFileExists(t, path)

	_, err = execute(t, "generate", input)
	require.NoError(t, err)
	_, err = execute(t, "generate", "--check", input)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package todo\n"), 0o644))
	_, err = execute(t, "generate", "--check", input)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGenerateCUEDirectory(t *testing.T) {
	dir := copyFixture(t, "cue/reducers.cue")

	_, err := execute(t, "generate", dir)
	require.NoError(t, err)

	counter, err := os.ReadFile(filepath.Join(dir, "counter_reducer_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(counter), "// Source: reducers.cue\n")
	assert.Contains(t, string(counter), "package demo\n")
	assert.Contains(t, string(counter), "func CounterReduce(_ context.Context, state Counter, a ir.Action) (Counter, error) {")

	notes, err := os.ReadFile(filepath.Join(dir, "notes_reducer_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(notes), "func AddNote(text string) ir.Action {")
}

func TestGenerateGoPackage(t *testing.T) {
	dir := copyFixture(t, "gopkg/counter.go")

	_, err := execute(t, "generate", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "counter_reducer_gen.go")
	code, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package counter\n")
	assert.Contains(t, string(code), "case ActionInc, ActionAdd:")
	assert.Contains(t, string(code), "return add(state, v0), nil")

	// The generated file is skipped when the package is read again.
	out, err := execute(t, "generate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")
}

func TestGeneratePackageFlag(t *testing.T) {
	dir := copyFixture(t, "todo.yaml")
	out := filepath.Join(dir, "gen", "todo_gen.go")

	_, err := execute(t, "generate", "--package", "todogen", "--build-tags", "!nogen", "-o", out, filepath.Join(dir, "todo.yaml"))
	require.NoError(t, err)

	code, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(code), "//go:build !nogen\n\npackage todogen\n")
}

func TestGenerateOutputNeedsSingleReducer(t *testing.T) {
	dir := copyFixture(t, "cue/reducers.cue")

	_, err := execute(t, "generate", "-o", filepath.Join(dir, "x.go"), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeUsage)
}

func TestGenerateJSON(t *testing.T) {
	dir := copyFixture(t, "todo.yaml")

	out, err := execute(t, "--format", "json", "generate", filepath.Join(dir, "todo.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Files, 1)

	f := resp.Data.Files[0]
	assert.Equal(t, "Todo", f.Reducer)
	assert.Equal(t, StatusWritten, f.Status)
	assert.Equal(t, 3, f.Bindings)
	assert.Equal(t, "5e4e304e091b6c9b1f38822b8e8f30a42baf827b2e71032cb52b9000b9b22069", f.Fingerprint)
}

func TestGenerateInvalidDescription(t *testing.T) {
	dir := copyFixture(t, "invalid.yaml")

	out, err := execute(t, "generate", filepath.Join(dir, "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E105")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing is generated for an invalid description")
}

func TestGenerateMissingInput(t *testing.T) {
	out, err := execute(t, "generate", "/nonexistent/todo.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestGenerateUnsupportedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := execute(t, "generate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeUnsupported)
}

func TestPackageFromDir(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/src/todo", "todo"},
		{"/src/my-reducers", "my_reducers"},
		{"/src/Store.v2", "store_v2"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := packageFromDir(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := packageFromDir("/src/1st")
	require.Error(t, err)
}
