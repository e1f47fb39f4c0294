package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fluxcore/internal/compiler"
	"github.com/roach88/fluxcore/internal/ir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Input kinds accepted by LoadSpecs.
const (
	KindCUE  = "cue"
	KindYAML = "yaml"
	KindGo   = "go"
)

// LoadResult contains the reducer descriptions read from one input.
type LoadResult struct {
	Specs []*ir.ReducerSpec
	Kind  string
	Dir   string // directory of the input; generated files go here by default
	Files []string
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Source  string
	Line    int
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.Source, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// line returns the best line number available, or 0.
func (e *LoadError) line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return e.Line
}

// LoadSpecs reads reducer descriptions from path, which may be:
//   - a .cue file or a directory of .cue files with a top-level
//     `reducer:` struct, one field per reducer
//   - a .yaml or .yml file, one reducer per document
//   - a .go file or a directory of Go files carrying //fluxcore: directives
//
// A directory holding both CUE and Go files is read as CUE.
// A nil result means nothing could be read; otherwise the result holds
// whatever compiled, and the errors describe the rest.
func LoadSpecs(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing input: %v", err)}}
	}

	if !info.IsDir() {
		dir := filepath.Dir(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".cue":
			return loadCUE(dir, []string{filepath.Base(path)}, mode)
		case ".yaml", ".yml":
			return loadYAML(path)
		case ".go":
			return loadGo(dir)
		default:
			return nil, []error{&LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported input %s: want .cue, .yaml, .yml or .go", path)}}
		}
	}

	cueFiles, goFiles, err := scanDir(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	switch {
	case len(cueFiles) > 0:
		return loadCUE(path, []string{"."}, mode)
	case len(goFiles) > 0:
		return loadGo(path)
	}
	return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or Go files found in %s", path)}}
}

// scanDir lists the .cue and non-test .go files directly inside dir.
func scanDir(dir string) (cueFiles, goFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case filepath.Ext(name) == ".cue":
			cueFiles = append(cueFiles, filepath.Join(dir, name))
		case filepath.Ext(name) == ".go" && !strings.HasSuffix(name, "_test.go"):
			goFiles = append(goFiles, filepath.Join(dir, name))
		}
	}
	return cueFiles, goFiles, nil
}

func loadCUE(dir string, args []string, mode LoadMode) (*LoadResult, []error) {
	ctx := cuecontext.New()
	instances := load.Instances(args, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{Kind: KindCUE, Dir: dir}
	for _, f := range inst.BuildFiles {
		result.Files = append(result.Files, f.Filename)
	}

	reducers := value.LookupPath(cue.ParsePath("reducer"))
	if !reducers.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeNoReducers, Message: "no reducer field found in CUE input"}}
	}

	specs, errs := compiler.CompileReducers(reducers)
	result.Specs = specs

	var out []error
	for _, err := range errs {
		out = append(out, convertCompileError(err, "reducer"))
		if mode == LoadModeFailFast {
			return result, out
		}
	}

	if len(result.Specs) == 0 && len(out) == 0 {
		out = append(out, &LoadError{Code: ErrCodeNoReducers, Message: "reducer struct is empty"})
	}
	return result, out
}

func loadYAML(path string) (*LoadResult, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}

	result := &LoadResult{Kind: KindYAML, Dir: filepath.Dir(path), Files: []string{path}}
	specs, err := compiler.LoadYAML(data, path)
	if err != nil {
		return result, []error{convertCompileError(err, "yaml")}
	}
	result.Specs = specs
	return result, nil
}

// loadGo reads a directive-annotated package. Handler problems come back
// as compiler.ValidationError values next to the partial spec.
func loadGo(dir string) (*LoadResult, []error) {
	result := &LoadResult{Kind: KindGo, Dir: dir}

	spec, err := compiler.LoadGoDir(dir)
	if errors.Is(err, compiler.ErrNoDirectives) {
		return nil, []error{&LoadError{Code: ErrCodeNoReducers, Message: fmt.Sprintf("%s: %v", dir, err)}}
	}

	var problems compiler.ValidationErrors
	switch {
	case errors.As(err, &problems):
		var out []error
		for _, p := range problems {
			out = append(out, p)
		}
		if spec != nil {
			result.Specs = []*ir.ReducerSpec{spec}
			result.Files = []string{spec.Source}
		}
		return result, out
	case err != nil:
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}}
	}

	result.Specs = []*ir.ReducerSpec{spec}
	result.Files = []string{spec.Source}
	return result, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
			Source:  compileErr.Source,
			Line:    compileErr.Line,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE or Go files found
	ErrCodeLoadFailed  = "E004" // Input could not be read or parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeSchema      = "E006" // Input does not match the description schema
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeUnsupported = "E008" // Unsupported input file
	ErrCodeNoReducers  = "E009" // Input holds no reducer description
	ErrCodeGenerate    = "E010" // Generation failed
	ErrCodeStale       = "E011" // Generated file out of date
	ErrCodeUsage       = "E012" // Invalid flag combination
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "":
		return ErrCodeGeneric
	case "yaml":
		return ErrCodeLoadFailed
	default:
		// "cue" and YAML field paths such as "bindings[0].handlr"
		return ErrCodeSchema
	}
}
