package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/fluxcore/internal/ir"
)

type importLine struct {
	Alias string
	Path  string
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// packageName guesses the package name an import path declares:
// the last element, skipping a /vN suffix, minus a gopkg.in ".vN"
// suffix and anything up to the last '-'.
func packageName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}
	if i := strings.LastIndex(base, "-"); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// qualifiers returns the package qualifiers used by Go type expressions.
func qualifiers(typeExprs ...string) (map[string]bool, error) {
	used := make(map[string]bool)
	for _, s := range typeExprs {
		expr, err := parser.ParseExpr(s)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", s, err)
		}
		ast.Inspect(expr, func(n ast.Node) bool {
			if sel, ok := n.(*ast.SelectorExpr); ok {
				if id, ok := sel.X.(*ast.Ident); ok {
					used[id.Name] = true
				}
				return false
			}
			return true
		})
	}
	return used, nil
}

// resolveImports keeps the declared imports that the state and parameter
// types reference, and adds context and the runtime packages. A qualifier with no
// matching import is an error, since the output would not compile.
func resolveImports(spec *ir.ReducerSpec, runtimePath string) ([]importLine, error) {
	exprs := []string{spec.StateType}
	for _, b := range spec.Bindings {
		for _, p := range b.Params {
			exprs = append(exprs, p.Type)
		}
	}
	used, err := qualifiers(exprs...)
	if err != nil {
		return nil, err
	}

	lines := []importLine{
		{Path: "context"},
		{Path: runtimePath + "/ir"},
		{Path: runtimePath + "/reducer"},
	}
	provided := map[string]bool{"context": true, "ir": true, "reducer": true}

	for _, imp := range spec.Imports {
		name := imp.Alias
		if name == "" {
			name = packageName(imp.Path)
		}
		if !used[name] || provided[name] {
			continue
		}
		provided[name] = true

		line := importLine{Path: imp.Path}
		if imp.Alias != "" && imp.Alias != path.Base(imp.Path) {
			line.Alias = imp.Alias
		}
		lines = append(lines, line)
	}

	var missing []string
	for q := range used {
		if !provided[q] {
			missing = append(missing, q)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("no import declared for package qualifier(s): %s", strings.Join(missing, ", "))
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Path < lines[j].Path })
	return lines, nil
}
