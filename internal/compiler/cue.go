package compiler

import (
	_ "embed"

	"cuelang.org/go/cue"

	"github.com/roach88/fluxcore/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

// cueReducer mirrors #Reducer for Value.Decode.
type cueReducer struct {
	Package  string       `json:"package"`
	State    string       `json:"state"`
	Output   string       `json:"output"`
	Imports  []ir.Import  `json:"imports"`
	Bindings []ir.Binding `json:"bindings"`
}

// CompileReducer parses a CUE value into a ReducerSpec.
// Uses the CUE SDK's Go API directly (not the CLI).
//
// The value is the reducer struct itself; its label is the reducer name:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`reducer: Todo: { state: "State", bindings: [...] }`)
//	spec, err := CompileReducer(v.LookupPath(cue.ParsePath("reducer.Todo")))
//
// The struct is unified with the closed #Reducer schema first, so unknown
// fields and wrongly typed values fail with their CUE position.
func CompileReducer(v cue.Value) (*ir.ReducerSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ReducerSpec{
		Source: v.Pos().Filename(),
		Line:   v.Pos().Line(),
	}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	def, err := reducerSchema(v.Context())
	if err != nil {
		return nil, err
	}

	checked := def.Unify(v)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var raw cueReducer
	if err := checked.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}

	spec.Package = raw.Package
	spec.StateType = raw.State
	spec.Output = raw.Output
	spec.Imports = raw.Imports
	spec.Bindings = raw.Bindings

	// Lines come from the original value; the unified one points into the schema.
	if iter, err := v.LookupPath(cue.ParsePath("bindings")).List(); err == nil {
		for i := 0; iter.Next() && i < len(spec.Bindings); i++ {
			spec.Bindings[i].Line = iter.Value().Pos().Line()
		}
	}

	return spec, nil
}

// CompileReducers compiles every field of a `reducer:` struct.
// All reducers are attempted; the errors of the failing ones are returned
// alongside the specs that compiled.
func CompileReducers(v cue.Value) ([]*ir.ReducerSpec, []error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var (
		specs []*ir.ReducerSpec
		errs  []error
	)
	for iter.Next() {
		spec, err := CompileReducer(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

func reducerSchema(ctx *cue.Context) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("fluxcore/schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return schema.LookupPath(cue.ParsePath("#Reducer")), nil
}
