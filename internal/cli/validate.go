package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fluxcore/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Reducers []string                   `json:"reducers,omitempty"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Validate reducer descriptions without generating code",
		Long: `Validate reducer descriptions without generating code.

Reports every problem found (duplicate bindings, unsupported handler
signatures, malformed type expressions) rather than stopping at the first.
The input is a .cue, .yaml or .go file, or a directory of CUE or Go files.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result, loadErrors := LoadSpecs(input, LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Loaded %d reducer(s) from %s input %s", len(result.Specs), result.Kind, input)

	validationErrors := collectValidationErrors(result, loadErrors, formatter)
	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, result)
}

// collectValidationErrors merges load problems with Validate's findings
// for every spec that loaded.
func collectValidationErrors(result *LoadResult, loadErrors []error, formatter *OutputFormatter) []compiler.ValidationError {
	var all []compiler.ValidationError
	seen := make(map[string]bool)
	add := func(e compiler.ValidationError) {
		key := fmt.Sprintf("%s|%s|%d|%s", e.Code, e.Field, e.Line, e.Message)
		if seen[key] {
			return
		}
		seen[key] = true
		all = append(all, e)
	}

	for _, err := range loadErrors {
		var loadErr *LoadError
		var valErr compiler.ValidationError
		switch {
		case errors.As(err, &loadErr):
			add(compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    loadErr.line(),
			})
		case errors.As(err, &valErr):
			add(valErr)
		default:
			add(compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric})
		}
	}

	for _, spec := range result.Specs {
		formatter.VerboseLog("Validating reducer: %s", spec.Name)
		for _, e := range compiler.Validate(spec) {
			add(e)
		}
	}
	return all
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result *LoadResult) error {
	if formatter.Format == "json" {
		names := make([]string, len(result.Specs))
		for i, spec := range result.Specs {
			names[i] = spec.Name
		}
		return formatter.Success(ValidationResult{Valid: true, Reducers: names})
	}

	fmt.Fprintf(formatter.Writer, "✓ All reducer descriptions valid (%d reducer(s))\n", len(result.Specs))
	return nil
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// ValidateInput loads and validates the descriptions at path.
// The error is non-nil only when nothing could be loaded.
func ValidateInput(path string) ([]compiler.ValidationError, error) {
	result, loadErrors := LoadSpecs(path, LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		return nil, loadErrors[0]
	}

	silent := &OutputFormatter{Format: "text"}
	return collectValidationErrors(result, loadErrors, silent), nil
}
