package codegen

const fileTemplate = `// Code generated by fluxgen. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}
// Fingerprint: {{.Fingerprint}}
{{- if .BuildTags}}

//go:build {{.BuildTags}}
{{- end}}

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// Action identifiers bound by {{.Name}}Reduce.
const (
{{- range .Bindings}}
	{{.Const}} = {{printf "%q" .Action}}
{{- end}}
)

// {{.Name}}Reduce applies a to state through the handler bound to its
// identifier. Unbound identifiers return state unchanged.
func {{.Name}}Reduce(_ context.Context, state {{.State}}, a ir.Action) ({{.State}}, error) {
	switch a.Type {
{{- range .Bindings}}
	case {{.Const}}:
{{- if eq .Arity 0}}
		if err := reducer.Decode0(a); err != nil {
			return state, err
		}
		return {{.Handler}}(state), nil
{{- else}}
		{{.Vars}}, err := reducer.Decode{{.Arity}}[{{.TypeArgs}}](a)
		if err != nil {
			return state, err
		}
		return {{.Handler}}(state, {{.Vars}}), nil
{{- end}}
{{- end}}
	}
	return state, nil
}

// {{.Name}}Handles reports whether {{.Name}}Reduce binds actionType.
func {{.Name}}Handles(actionType string) bool {
	switch actionType {
	case {{range $i, $b := .Bindings}}{{if $i}}, {{end}}{{$b.Const}}{{end}}:
		return true
	}
	return false
}

// {{.Name}}Reducer is {{.Name}}Reduce as a reducer.Reducer. It implements
// reducer.Matcher, so stores skip identifiers it does not bind.
var {{.Name}}Reducer = reducer.Match[{{.State}}]({{.Name}}Reduce, {{.Name}}Handles)
{{range .Bindings}}
// {{.Creator}} builds the {{.Action}} action handled by {{.Handler}}.
func {{.Creator}}({{.Params}}) ir.Action {
	return ir.NewAction({{.Const}}, reducer.Encode{{.Arity}}({{.Args}}))
}
{{end}}`
