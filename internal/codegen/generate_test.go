package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluxcore/internal/compiler"
	"github.com/roach88/fluxcore/internal/ir"
)

func todoSpec() *ir.ReducerSpec {
	return &ir.ReducerSpec{
		Name:      "Todo",
		Package:   "todo",
		StateType: "pseq.Seq[Item]",
		Source:    "/work/specs/todo.cue",
		Imports: []ir.Import{
			{Path: "github.com/roach88/fluxcore/internal/pseq"},
			{Path: "time"},
		},
		Bindings: []ir.Binding{
			{Action: "ADD_ITEM", Handler: "addItem", Params: []ir.Param{{Name: "item", Type: "Item"}}},
			{Action: "CHANGE_STATE", Handler: "changeState", Params: []ir.Param{{Name: "id", Type: "int"}, {Name: "checked", Type: "bool"}}},
			{Action: "CLEAR_CHECKED", Handler: "clearChecked", Creator: "ClearDone"},
		},
	}
}

func generate(t *testing.T, spec *ir.ReducerSpec, overrides Options) (string, *ast.File) {
	t.Helper()
	src, err := Generate(spec, Resolve(spec, overrides))
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))
	return string(src), f
}

func funcDecls(f *ast.File) map[string]*ast.FuncDecl {
	out := make(map[string]*ast.FuncDecl)
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			out[fn.Name.Name] = fn
		}
	}
	return out
}

func importPaths(f *ast.File) []string {
	var out []string
	for _, imp := range f.Imports {
		out = append(out, strings.Trim(imp.Path.Value, `"`))
	}
	return out
}

func TestGenerate_Declarations(t *testing.T) {
	src, f := generate(t, todoSpec(), Options{})

	assert.Equal(t, "todo", f.Name.Name)
	assert.True(t, ast.IsGenerated(f))
	assert.True(t, strings.HasPrefix(src, "// Code generated by fluxgen. DO NOT EDIT.\n// Source: todo.cue\n// Fingerprint: "))

	funcs := funcDecls(f)
	for _, name := range []string{"TodoReduce", "TodoHandles", "AddItem", "ChangeState", "ClearDone"} {
		assert.Contains(t, funcs, name)
	}
	assert.Len(t, funcs, 5)

	assert.Contains(t, src, `ActionAddItem      = "ADD_ITEM"`)
	assert.Contains(t, src, `ActionChangeState  = "CHANGE_STATE"`)
	assert.Contains(t, src, `ActionClearChecked = "CLEAR_CHECKED"`)
	assert.Contains(t, src, "var TodoReducer = reducer.Match[pseq.Seq[Item]](TodoReduce, TodoHandles)")
}

func TestGenerate_DispatchCases(t *testing.T) {
	src, _ := generate(t, todoSpec(), Options{})

	assert.Contains(t, src, "func TodoReduce(_ context.Context, state pseq.Seq[Item], a ir.Action) (pseq.Seq[Item], error) {")
	assert.Contains(t, src, "\t\tv0, err := reducer.Decode1[Item](a)\n")
	assert.Contains(t, src, "\t\treturn addItem(state, v0), nil\n")
	assert.Contains(t, src, "\t\tv0, v1, err := reducer.Decode2[int, bool](a)\n")
	assert.Contains(t, src, "\t\treturn changeState(state, v0, v1), nil\n")
	assert.Contains(t, src, "\t\tif err := reducer.Decode0(a); err != nil {\n")
	assert.Contains(t, src, "\t\treturn clearChecked(state), nil\n")
	assert.Contains(t, src, "\tcase ActionAddItem, ActionChangeState, ActionClearChecked:\n")
}

func TestGenerate_Creators(t *testing.T) {
	src, f := generate(t, todoSpec(), Options{})

	assert.Contains(t, src, "func AddItem(item Item) ir.Action {\n\treturn ir.NewAction(ActionAddItem, reducer.Encode1(item))\n}")
	assert.Contains(t, src, "func ChangeState(id int, checked bool) ir.Action {\n\treturn ir.NewAction(ActionChangeState, reducer.Encode2(id, checked))\n}")
	assert.Contains(t, src, "func ClearDone() ir.Action {\n\treturn ir.NewAction(ActionClearChecked, reducer.Encode0())\n}")

	fn := funcDecls(f)["ChangeState"]
	require.NotNil(t, fn.Doc)
	assert.Equal(t, "ChangeState builds the CHANGE_STATE action handled by changeState.\n", fn.Doc.Text())
}

func TestGenerate_ImportsOnlyWhatIsUsed(t *testing.T) {
	_, f := generate(t, todoSpec(), Options{})
	assert.Equal(t, []string{
		"context",
		"github.com/roach88/fluxcore/internal/ir",
		"github.com/roach88/fluxcore/internal/pseq",
		"github.com/roach88/fluxcore/internal/reducer",
	}, importPaths(f))
}

func TestGenerate_ImportAlias(t *testing.T) {
	spec := todoSpec()
	spec.Imports = append(spec.Imports, ir.Import{Path: "github.com/acme/model/v2", Alias: "mdl"})
	spec.Bindings[0].Params[0].Type = "mdl.Item"

	src, f := generate(t, spec, Options{})
	assert.Contains(t, src, `mdl "github.com/acme/model/v2"`)
	assert.Contains(t, importPaths(f), "github.com/acme/model/v2")
}

func TestGenerate_MissingImport(t *testing.T) {
	spec := todoSpec()
	spec.Bindings[0].Params[0].Type = "model.Item"

	_, err := Generate(spec, Resolve(spec, Options{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no import declared for package qualifier(s): model")
}

func TestGenerate_BuildTagsAndRuntimePath(t *testing.T) {
	src, f := generate(t, todoSpec(), Options{BuildTags: "!wasm", RuntimePath: "example.com/flux", Package: "other"})

	assert.Contains(t, src, "\n\n//go:build !wasm\n\npackage other\n")
	assert.Equal(t, "other", f.Name.Name)
	assert.Contains(t, importPaths(f), "example.com/flux/ir")
	assert.Contains(t, importPaths(f), "example.com/flux/reducer")
}

func TestGenerate_Deterministic(t *testing.T) {
	a, _ := generate(t, todoSpec(), Options{})
	b, _ := generate(t, todoSpec(), Options{})
	assert.Equal(t, a, b)
}

func TestGenerate_FingerprintTracksBindings(t *testing.T) {
	a, _ := generate(t, todoSpec(), Options{})

	moved := todoSpec()
	moved.Source = "/elsewhere/todo.cue"
	b, _ := generate(t, moved, Options{})

	changed := todoSpec()
	changed.Bindings[1].Params[1].Type = "int"
	c, _ := generate(t, changed, Options{})

	fingerprint := func(src string) string {
		for _, line := range strings.Split(src, "\n") {
			if v, ok := strings.CutPrefix(line, "// Fingerprint: "); ok {
				return v
			}
		}
		return ""
	}

	assert.Len(t, fingerprint(a), 64)
	assert.Equal(t, fingerprint(a), fingerprint(b))
	assert.NotEqual(t, fingerprint(a), fingerprint(c))
}

func TestGenerate_RejectsInvalidSpec(t *testing.T) {
	spec := todoSpec()
	spec.Bindings = append(spec.Bindings, ir.Binding{Action: "ADD_ITEM", Handler: "again"})
	spec.Bindings[1].Params = append(spec.Bindings[1].Params,
		ir.Param{Name: "c", Type: "int"}, ir.Param{Name: "d", Type: "int"}, ir.Param{Name: "e", Type: "int"})

	out, err := Generate(spec, Resolve(spec, Options{}))
	require.Error(t, err)
	assert.Nil(t, out)

	var dup *compiler.DuplicateBindingError
	assert.ErrorAs(t, err, &dup)
	var sig *compiler.UnsupportedSignatureError
	assert.ErrorAs(t, err, &sig)
}

func TestGenerate_RequiresPackage(t *testing.T) {
	spec := todoSpec()
	spec.Package = ""

	_, err := Generate(spec, Resolve(spec, Options{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package name is required")
}

func TestGenerate_NoSourceLine(t *testing.T) {
	spec := todoSpec()
	spec.Source = ""
	src, _ := generate(t, spec, Options{})
	assert.True(t, strings.HasPrefix(src, "// Code generated by fluxgen. DO NOT EDIT.\n// Fingerprint: "))
}
