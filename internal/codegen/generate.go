package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/roach88/fluxcore/internal/compiler"
	"github.com/roach88/fluxcore/internal/ir"
)

var tmpl = template.Must(template.New("reducer").Parse(fileTemplate))

type fileData struct {
	Source      string
	Fingerprint string
	BuildTags   string
	Package     string
	Imports     []importLine
	Name        string
	State       string
	Bindings    []bindingData
}

type bindingData struct {
	Action   string
	Const    string
	Handler  string
	Creator  string
	Arity    int
	TypeArgs string // "int, bool"
	Vars     string // "v0, v1"
	Params   string // "id int, checked bool"
	Args     string // "id, checked"
}

// Generate validates spec and renders it as a gofmt-formatted Go file.
// opts should come from Resolve. Validation problems are returned as
// compiler.ValidationErrors and nothing is generated.
func Generate(spec *ir.ReducerSpec, opts Options) ([]byte, error) {
	if err := compiler.AsError(compiler.Validate(spec)); err != nil {
		return nil, err
	}
	if opts.Package == "" {
		return nil, fmt.Errorf("generate %s: package name is required", spec.Name)
	}
	if opts.RuntimePath == "" {
		opts.RuntimePath = DefaultRuntimePath
	}

	data, err := buildData(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", spec.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("generate %s: execute template: %w", spec.Name, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generate %s: format output: %w", spec.Name, err)
	}
	return formatted, nil
}

func buildData(spec *ir.ReducerSpec, opts Options) (*fileData, error) {
	fingerprint, err := ir.SpecFingerprint(spec)
	if err != nil {
		return nil, err
	}

	imports, err := resolveImports(spec, opts.RuntimePath)
	if err != nil {
		return nil, err
	}

	data := &fileData{
		Fingerprint: fingerprint,
		BuildTags:   opts.BuildTags,
		Package:     opts.Package,
		Imports:     imports,
		Name:        spec.Name,
		State:       spec.StateType,
	}
	if spec.Source != "" {
		data.Source = filepath.Base(spec.Source)
	}

	for _, b := range spec.Bindings {
		bd := bindingData{
			Action:  b.Action,
			Const:   b.ConstName(),
			Handler: b.Handler,
			Creator: b.CreatorName(),
			Arity:   b.Arity(),
		}

		var typeArgs, vars, params, args []string
		for i, p := range b.Params {
			typeArgs = append(typeArgs, p.Type)
			vars = append(vars, fmt.Sprintf("v%d", i))
			params = append(params, p.Name+" "+p.Type)
			args = append(args, p.Name)
		}
		bd.TypeArgs = strings.Join(typeArgs, ", ")
		bd.Vars = strings.Join(vars, ", ")
		bd.Params = strings.Join(params, ", ")
		bd.Args = strings.Join(args, ", ")

		data.Bindings = append(data.Bindings, bd)
	}
	return data, nil
}
