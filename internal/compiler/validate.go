package compiler

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/reducer"
)

// Validation error codes (E100-E199)
const (
	ErrUnsupportedIRType = "E100" // unsupported input type for validation

	ErrReducerName        = "E101" // reducer name missing or not an identifier
	ErrStateType          = "E102" // state type missing or not a type expression
	ErrNoBindings         = "E103" // at least one binding required
	ErrActionEmpty        = "E104" // empty or unusable action identifier
	ErrDuplicateBinding   = "E105" // identifier bound twice
	ErrUnsupportedSig     = "E106" // handler signature cannot be generated
	ErrPackageName        = "E107" // package is not an identifier
	ErrImportPath         = "E108" // import path empty or malformed
	ErrDuplicateGenerated = "E109" // two bindings generate the same name
	ErrDirective          = "E110" // malformed //fluxcore: directive
)

// reservedParamNames would shadow identifiers used by generated creators.
var reservedParamNames = map[string]bool{
	"ir":      true,
	"reducer": true,
}

// reservedHandlerNames collide with locals of the generated dispatch switch.
var reservedHandlerNames = map[string]bool{
	"state": true,
	"a":     true,
	"err":   true,
}

// ValidationError represents one problem in a reducer description.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`

	// Cause is a *DuplicateBindingError or *UnsupportedSignatureError
	// when the problem is one of those.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Unwrap returns the typed cause, if any.
func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks a reducer description before generation.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.ReducerSpec:
		return validateReducerSpec(spec)
	case ir.ReducerSpec:
		return validateReducerSpec(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported input type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateReducerSpec(spec *ir.ReducerSpec) []ValidationError {
	var errs []ValidationError

	if !token.IsIdentifier(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("reducer name %q is not a Go identifier", spec.Name),
			Code:    ErrReducerName,
			Line:    spec.Line,
		})
	}

	if spec.Package != "" && !token.IsIdentifier(spec.Package) {
		errs = append(errs, ValidationError{
			Field:   "package",
			Message: fmt.Sprintf("package %q is not a Go identifier", spec.Package),
			Code:    ErrPackageName,
			Line:    spec.Line,
		})
	}

	if strings.TrimSpace(spec.StateType) == "" {
		errs = append(errs, ValidationError{
			Field:   "state",
			Message: "state type is required",
			Code:    ErrStateType,
			Line:    spec.Line,
		})
	} else if reason := checkTypeExpr(spec.StateType); reason != "" {
		errs = append(errs, ValidationError{
			Field:   "state",
			Message: fmt.Sprintf("state type %q: %s", spec.StateType, reason),
			Code:    ErrStateType,
			Line:    spec.Line,
		})
	}

	for i, imp := range spec.Imports {
		if strings.TrimSpace(imp.Path) == "" || strings.ContainsAny(imp.Path, " \t\"\\`") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("imports[%d].path", i),
				Message: fmt.Sprintf("invalid import path %q", imp.Path),
				Code:    ErrImportPath,
			})
		}
		if imp.Alias != "" && !token.IsIdentifier(imp.Alias) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("imports[%d].alias", i),
				Message: fmt.Sprintf("import alias %q is not a Go identifier", imp.Alias),
				Code:    ErrImportPath,
			})
		}
	}

	if len(spec.Bindings) == 0 {
		errs = append(errs, ValidationError{
			Field:   "bindings",
			Message: "at least one binding is required",
			Code:    ErrNoBindings,
			Line:    spec.Line,
		})
	}

	seenAction := make(map[string]int)    // identifier -> line
	seenGenerated := make(map[string]int) // generated name -> binding index

	for i, b := range spec.Bindings {
		field := fmt.Sprintf("bindings[%d]", i)

		if b.Action == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".action",
				Message: "action identifier is required",
				Code:    ErrActionEmpty,
				Line:    b.Line,
			})
			continue
		}

		if first, dup := seenAction[b.Action]; dup {
			cause := &DuplicateBindingError{Reducer: spec.Name, Action: b.Action, Line: b.Line, FirstLine: first}
			errs = append(errs, ValidationError{
				Field:   field + ".action",
				Message: cause.Error(),
				Code:    ErrDuplicateBinding,
				Line:    b.Line,
				Cause:   cause,
			})
			continue
		}
		seenAction[b.Action] = b.Line

		errs = append(errs, validateGeneratedNames(spec, b, field, i, seenGenerated)...)
		errs = append(errs, validateSignature(spec, b, field)...)
	}

	return errs
}

// validateGeneratedNames checks the constant and creator names a binding
// produces against each other and earlier bindings.
func validateGeneratedNames(spec *ir.ReducerSpec, b ir.Binding, field string, index int, seen map[string]int) []ValidationError {
	var errs []ValidationError

	names := []struct {
		field string
		name  string
	}{
		{field + ".action", b.ConstName()},
		{field + ".creator", b.CreatorName()},
	}

	for _, n := range names {
		if !token.IsIdentifier(n.name) || n.name == "Action" {
			errs = append(errs, ValidationError{
				Field:   n.field,
				Message: fmt.Sprintf("action %q does not yield a valid Go name (got %q)", b.Action, n.name),
				Code:    ErrActionEmpty,
				Line:    b.Line,
			})
			continue
		}
		if prev, dup := seen[n.name]; dup && prev != index {
			cause := &DuplicateBindingError{Reducer: spec.Name, Action: b.Action, Name: n.name, Line: b.Line}
			errs = append(errs, ValidationError{
				Field:   n.field,
				Message: cause.Error(),
				Code:    ErrDuplicateGenerated,
				Line:    b.Line,
				Cause:   cause,
			})
			continue
		}
		seen[n.name] = index
	}
	return errs
}

// validateSignature checks that dispatch and a creator can be generated
// for the handler and its parameters.
func validateSignature(spec *ir.ReducerSpec, b ir.Binding, field string) []ValidationError {
	var errs []ValidationError

	unsupported := func(f, reason string) {
		cause := &UnsupportedSignatureError{
			Reducer: spec.Name,
			Action:  b.Action,
			Handler: b.Handler,
			Reason:  reason,
			Line:    b.Line,
		}
		errs = append(errs, ValidationError{
			Field:   f,
			Message: cause.Error(),
			Code:    ErrUnsupportedSig,
			Line:    b.Line,
			Cause:   cause,
		})
	}

	switch {
	case !token.IsIdentifier(b.Handler):
		unsupported(field+".handler", fmt.Sprintf("handler name %q is not a Go identifier", b.Handler))
	case reservedHandlerNames[b.Handler] || isLocalName(b.Handler):
		unsupported(field+".handler", fmt.Sprintf("handler name %q collides with a generated local", b.Handler))
	}

	if len(b.Params) > reducer.MaxParams {
		unsupported(field+".params", fmt.Sprintf("%d parameters exceed the maximum of %d; pass a struct instead", len(b.Params), reducer.MaxParams))
	}

	seen := make(map[string]bool)
	for j, p := range b.Params {
		pf := fmt.Sprintf("%s.params[%d]", field, j)

		switch {
		case p.Name == "" || p.Name == "_":
			unsupported(pf+".name", fmt.Sprintf("parameter %d needs a name", j))
		case !token.IsIdentifier(p.Name):
			unsupported(pf+".name", fmt.Sprintf("parameter name %q is not a Go identifier", p.Name))
		case reservedParamNames[p.Name]:
			unsupported(pf+".name", fmt.Sprintf("parameter name %q shadows a generated import", p.Name))
		case seen[p.Name]:
			unsupported(pf+".name", fmt.Sprintf("parameter name %q is repeated", p.Name))
		}
		seen[p.Name] = true

		if strings.HasPrefix(strings.TrimSpace(p.Type), "...") {
			unsupported(pf+".type", fmt.Sprintf("variadic parameter %s %s is not supported", p.Name, p.Type))
			continue
		}
		if reason := checkTypeExpr(p.Type); reason != "" {
			unsupported(pf+".type", fmt.Sprintf("parameter %s type %q: %s", p.Name, p.Type, reason))
		}
	}

	return errs
}

// isLocalName matches the v0..vN names generated for decoded arguments.
func isLocalName(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkTypeExpr returns why s is not a usable Go type expression, or "".
func checkTypeExpr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "type is required"
	}
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return "does not parse as a Go type"
	}
	if !isTypeExpr(expr) {
		return "not a type expression"
	}
	return ""
}

func isTypeExpr(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType:
		return isTypeExpr(t.Elt)
	case *ast.MapType:
		return isTypeExpr(t.Key) && isTypeExpr(t.Value)
	case *ast.ChanType:
		return isTypeExpr(t.Value)
	case *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		return isTypeExpr(t.X) && isTypeExpr(t.Index)
	case *ast.IndexListExpr:
		if !isTypeExpr(t.X) {
			return false
		}
		for _, idx := range t.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
