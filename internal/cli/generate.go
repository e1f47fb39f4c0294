package cli

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fluxcore/internal/codegen"
	"github.com/roach88/fluxcore/internal/compiler"
	"github.com/roach88/fluxcore/internal/ir"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output      string // output file path; single reducer only
	Package     string
	BuildTags   string
	RuntimePath string
	Check       bool // report stale files instead of writing
}

// Status values of a GeneratedFile.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusStale     = "stale"
)

// GeneratedFile describes the outcome for one reducer.
type GeneratedFile struct {
	Reducer     string `json:"reducer"`
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	Bindings    int    `json:"bindings"`
	Status      string `json:"status"`
}

// GenerateResult holds one entry per generated reducer.
type GenerateResult struct {
	Files []GeneratedFile `json:"files"`
}

// WriteText renders the result for the text format.
func (r GenerateResult) WriteText(w io.Writer) error {
	for _, f := range r.Files {
		var err error
		switch f.Status {
		case StatusWritten:
			_, err = fmt.Fprintf(w, "✓ Generated %s (%s, %d binding(s))\n", f.Path, f.Reducer, f.Bindings)
		case StatusUnchanged:
			_, err = fmt.Fprintf(w, "✓ %s is up to date\n", f.Path)
		case StatusStale:
			_, err = fmt.Fprintf(w, "✗ %s is stale\n", f.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r GenerateResult) stale() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusStale {
			n++
		}
	}
	return n
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate reducer dispatch and action creators",
		Long: `Generate one Go file per reducer description.

Each file holds the action identifier constants, a dispatch function
switching over them, a Handles predicate and one typed creator per binding.
Files are written next to the input unless the description or --output
names another location. Unchanged files are left untouched.

Examples:
  fluxgen generate todo.cue
  fluxgen generate ./internal/todo --build-tags '!nogen'
  fluxgen generate reducers.yaml --check`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (single reducer only)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "package clause of the generated file")
	cmd.Flags().StringVar(&opts.BuildTags, "build-tags", "", "emit a //go:build constraint")
	cmd.Flags().StringVar(&opts.RuntimePath, "runtime-path", "", "import prefix of the ir and reducer packages")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "fail if a generated file is missing or out of date instead of writing it")

	return cmd
}

func runGenerate(opts *GenerateOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, loadErrors := LoadSpecs(input, LoadModeFailFast)
	if loaded == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputGenerateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputGenerateError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	if len(loadErrors) > 0 {
		return outputValidationErrors(formatter, collectValidationErrors(loaded, loadErrors, formatter))
	}

	if opts.Output != "" && len(loaded.Specs) > 1 {
		return outputGenerateError(formatter, ErrCodeUsage,
			fmt.Sprintf("--output names one file but %s describes %d reducers", input, len(loaded.Specs)))
	}

	var result GenerateResult
	for _, spec := range loaded.Specs {
		file, err := generateOne(opts, loaded.Dir, spec, formatter)
		if err != nil {
			var problems compiler.ValidationErrors
			if errors.As(err, &problems) {
				return outputValidationErrors(formatter, problems)
			}
			return err
		}
		result.Files = append(result.Files, file)
	}

	if n := result.stale(); n > 0 {
		msg := fmt.Sprintf("%d generated file(s) out of date", n)
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeStale, msg, result.Files)
		} else if err := result.WriteText(formatter.Writer); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeStale, msg))
	}

	return formatter.Success(result)
}

func generateOne(opts *GenerateOptions, dir string, spec *ir.ReducerSpec, formatter *OutputFormatter) (GeneratedFile, error) {
	resolved := codegen.Resolve(spec, codegen.Options{
		Package:     opts.Package,
		Output:      opts.Output,
		BuildTags:   opts.BuildTags,
		RuntimePath: opts.RuntimePath,
	})

	path := resolved.Output
	if opts.Output == "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	if resolved.Package == "" {
		pkg, err := packageFromDir(filepath.Dir(path))
		if err != nil {
			return GeneratedFile{}, outputGenerateError(formatter, ErrCodeUsage, err.Error())
		}
		resolved.Package = pkg
	}

	formatter.VerboseLog("Generating reducer %s -> %s (package %s)", spec.Name, path, resolved.Package)

	code, err := codegen.Generate(spec, resolved)
	if err != nil {
		var problems compiler.ValidationErrors
		if errors.As(err, &problems) {
			return GeneratedFile{}, problems
		}
		return GeneratedFile{}, outputGenerateError(formatter, ErrCodeGenerate, err.Error())
	}

	fingerprint, err := ir.SpecFingerprint(spec)
	if err != nil {
		return GeneratedFile{}, outputGenerateError(formatter, ErrCodeGenerate, err.Error())
	}

	file := GeneratedFile{
		Reducer:     spec.Name,
		Path:        path,
		Fingerprint: fingerprint,
		Bindings:    len(spec.Bindings),
	}

	existing, readErr := os.ReadFile(path)
	switch {
	case readErr == nil && bytes.Equal(existing, code):
		file.Status = StatusUnchanged
	case opts.Check:
		file.Status = StatusStale
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return GeneratedFile{}, outputGenerateError(formatter, ErrCodeWriteFailed, err.Error())
		}
		if err := os.WriteFile(path, code, 0o644); err != nil {
			return GeneratedFile{}, outputGenerateError(formatter, ErrCodeWriteFailed, fmt.Sprintf("failed to write output file: %v", err))
		}
		file.Status = StatusWritten
	}
	return file, nil
}

// packageFromDir derives a package name from the directory the generated
// file lands in, for descriptions that name none.
func packageFromDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(filepath.Base(abs))
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	if !token.IsIdentifier(name) {
		return "", fmt.Errorf("cannot derive a package name from directory %s; pass --package", dir)
	}
	return name, nil
}

// outputGenerateError outputs a command-level error (exit code 2).
func outputGenerateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
