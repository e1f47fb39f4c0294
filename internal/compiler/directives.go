package compiler

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/fluxcore/internal/ir"
)

const (
	reducerDirective = "//fluxcore:reducer"
	onDirective      = "//fluxcore:on"
)

// ErrNoDirectives is returned when a package has no //fluxcore:reducer
// directive.
var ErrNoDirectives = errors.New("no //fluxcore:reducer directive found")

// LoadGoDir reads the reducer description from the Go files of one package
// directory. Test files and generated files are skipped.
//
// The package doc comment (in any file) names the reducer and its state:
//
//	//fluxcore:reducer Todo state=State
//	package todo
//
// Each handler is a top-level function marked with the identifier it
// reduces. Its first parameter and only result are the state; the
// remaining parameters become the action payload:
//
//	//fluxcore:on ADD_ITEM
//	func addItem(s State, item Item) State
//
// An optional creator=Name overrides the generated creator name.
func LoadGoDir(dir string) (*ir.ReducerSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if ast.IsGenerated(f) {
			continue
		}
		files = append(files, f)
	}

	return ParseGoFiles(fset, files)
}

// ParseGoFiles builds a ReducerSpec from parsed files of one package.
// Handler problems found while reading signatures are returned together
// as ValidationErrors, along with the partial spec.
func ParseGoFiles(fset *token.FileSet, files []*ast.File) (*ir.ReducerSpec, error) {
	sort.Slice(files, func(i, j int) bool {
		return fset.Position(files[i].Package).Filename < fset.Position(files[j].Package).Filename
	})

	spec, problems := findReducerDirective(fset, files)
	if spec == nil {
		if len(problems) > 0 {
			return nil, ValidationErrors(problems)
		}
		return nil, ErrNoDirectives
	}

	imports := make(map[string]ir.Import)
	for _, f := range files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Doc == nil {
				continue
			}
			for _, c := range fn.Doc.List {
				if !isDirective(c.Text, onDirective) {
					continue
				}
				b, errs := bindHandler(fset, spec, fn, c)
				problems = append(problems, errs...)
				if b != nil {
					spec.Bindings = append(spec.Bindings, *b)
					collectImports(f, imports)
				}
			}
		}
	}

	spec.Imports = sortedImports(imports)

	if len(problems) > 0 {
		return spec, ValidationErrors(problems)
	}
	return spec, nil
}

func findReducerDirective(fset *token.FileSet, files []*ast.File) (*ir.ReducerSpec, []ValidationError) {
	var (
		spec     *ir.ReducerSpec
		problems []ValidationError
	)
	for _, f := range files {
		if f.Doc == nil {
			continue
		}
		for _, c := range f.Doc.List {
			if !isDirective(c.Text, reducerDirective) {
				continue
			}
			pos := fset.Position(c.Slash)
			if spec != nil {
				problems = append(problems, ValidationError{
					Field:   "directive",
					Message: fmt.Sprintf("%s: second %s directive; one reducer per package", pos.Filename, reducerDirective),
					Code:    ErrDirective,
					Line:    pos.Line,
				})
				continue
			}

			name, opts, err := parseDirective(c.Text, reducerDirective)
			if err != nil {
				problems = append(problems, ValidationError{Field: "directive", Message: err.Error(), Code: ErrDirective, Line: pos.Line})
				continue
			}
			spec = &ir.ReducerSpec{
				Name:      name,
				Package:   f.Name.Name,
				StateType: opts["state"],
				Output:    opts["output"],
				Source:    pos.Filename,
				Line:      pos.Line,
			}
			for k := range opts {
				if k != "state" && k != "output" {
					problems = append(problems, ValidationError{
						Field:   "directive",
						Message: fmt.Sprintf("unknown option %q", k),
						Code:    ErrDirective,
						Line:    pos.Line,
					})
				}
			}
		}
	}
	return spec, problems
}

// bindHandler reads one //fluxcore:on directive and the function it marks.
func bindHandler(fset *token.FileSet, spec *ir.ReducerSpec, fn *ast.FuncDecl, c *ast.Comment) (*ir.Binding, []ValidationError) {
	line := fset.Position(c.Slash).Line
	action, opts, err := parseDirective(c.Text, onDirective)
	if err != nil {
		return nil, []ValidationError{{Field: "directive", Message: err.Error(), Code: ErrDirective, Line: line}}
	}

	var problems []ValidationError
	for k := range opts {
		if k != "creator" {
			problems = append(problems, ValidationError{
				Field:   "directive",
				Message: fmt.Sprintf("unknown option %q", k),
				Code:    ErrDirective,
				Line:    line,
			})
		}
	}

	unsupported := func(reason string) {
		cause := &UnsupportedSignatureError{
			Reducer: spec.Name,
			Action:  action,
			Handler: fn.Name.Name,
			Reason:  reason,
			Line:    line,
		}
		problems = append(problems, ValidationError{
			Field:   "handler",
			Message: cause.Error(),
			Code:    ErrUnsupportedSig,
			Line:    line,
			Cause:   cause,
		})
	}

	if fn.Recv != nil {
		unsupported("methods cannot be handlers")
		return nil, problems
	}
	if fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0 {
		unsupported("generic functions cannot be handlers")
		return nil, problems
	}

	var params []ir.Param
	for _, field := range fn.Type.Params.List {
		typ := types.ExprString(field.Type) // "...T" for variadics
		if len(field.Names) == 0 {
			params = append(params, ir.Param{Type: typ})
			continue
		}
		for _, n := range field.Names {
			params = append(params, ir.Param{Name: n.Name, Type: typ})
		}
	}

	if len(params) == 0 || params[0].Type != spec.StateType {
		unsupported(fmt.Sprintf("first parameter must be the state type %s", spec.StateType))
		return nil, problems
	}

	results := fn.Type.Results
	if results == nil || results.NumFields() != 1 || types.ExprString(results.List[0].Type) != spec.StateType {
		unsupported(fmt.Sprintf("must return exactly one %s", spec.StateType))
		return nil, problems
	}

	return &ir.Binding{
		Action:  action,
		Handler: fn.Name.Name,
		Creator: opts["creator"],
		Params:  params[1:],
		Line:    line,
	}, problems
}

// parseDirective splits "//fluxcore:x ARG key=value ..." into ARG and options.
func parseDirective(text, directive string) (string, map[string]string, error) {
	fields := strings.Fields(strings.TrimPrefix(text, directive))
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%s needs an argument", directive)
	}

	opts := make(map[string]string)
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return "", nil, fmt.Errorf("%s: malformed option %q, want key=value", directive, f)
		}
		opts[k] = v
	}
	return fields[0], opts, nil
}

func isDirective(text, directive string) bool {
	rest, ok := strings.CutPrefix(text, directive)
	return ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t')
}

func collectImports(f *ast.File, into map[string]ir.Import) {
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := ir.Import{Path: p}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			if spec.Name.Name != path.Base(p) {
				imp.Alias = spec.Name.Name
			}
		}
		into[p] = imp
	}
}

func sortedImports(m map[string]ir.Import) []ir.Import {
	if len(m) == 0 {
		return nil
	}
	out := make([]ir.Import, 0, len(m))
	for _, imp := range m {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
