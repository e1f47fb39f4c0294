package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fluxcore/internal/codegen"
	"github.com/roach88/fluxcore/internal/ir"
)

// InspectedReducer is one loaded description with its resolved settings.
type InspectedReducer struct {
	Spec        *ir.ReducerSpec `json:"spec"`
	Package     string          `json:"package"`
	Output      string          `json:"output"`
	Fingerprint string          `json:"fingerprint"`
}

// InspectResult lists every reducer found in an input.
type InspectResult struct {
	Kind     string             `json:"kind"`
	Reducers []InspectedReducer `json:"reducers"`
}

// WriteText renders the result for the text format.
func (r InspectResult) WriteText(w io.Writer) error {
	var b strings.Builder
	for i, red := range r.Reducers {
		if i > 0 {
			b.WriteString("\n")
		}
		pkg := red.Package
		if pkg == "" {
			pkg = "(from output directory)"
		}
		fmt.Fprintf(&b, "%s\n", red.Spec.Name)
		fmt.Fprintf(&b, "  package:     %s\n", pkg)
		fmt.Fprintf(&b, "  state:       %s\n", red.Spec.StateType)
		fmt.Fprintf(&b, "  output:      %s\n", red.Output)
		fmt.Fprintf(&b, "  fingerprint: %s\n", red.Fingerprint)
		b.WriteString("  bindings:\n")
		for _, bind := range red.Spec.Bindings {
			params := make([]string, len(bind.Params))
			for j, p := range bind.Params {
				params[j] = p.Name + " " + p.Type
			}
			fmt.Fprintf(&b, "    %s -> %s(%s) as %s\n",
				bind.Action, bind.Handler, strings.Join(params, ", "), bind.CreatorName())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Show the reducers an input describes",
		Long: `Show each reducer an input describes: its state type, resolved
package and output file, fingerprint and bindings in declaration order.

Descriptions are shown as loaded; run validate to check them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, loadErrors := LoadSpecs(input, LoadModeCollectAll)
	if loaded == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputGenerateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputGenerateError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	for _, err := range loadErrors {
		formatter.VerboseLog("skipped: %v", err)
	}

	result := InspectResult{Kind: loaded.Kind, Reducers: []InspectedReducer{}}
	for _, spec := range loaded.Specs {
		fingerprint, err := ir.SpecFingerprint(spec)
		if err != nil {
			return outputGenerateError(formatter, ErrCodeGeneric, err.Error())
		}
		resolved := codegen.Resolve(spec, codegen.Options{})
		result.Reducers = append(result.Reducers, InspectedReducer{
			Spec:        spec,
			Package:     resolved.Package,
			Output:      resolved.Output,
			Fingerprint: fingerprint,
		})
	}

	return formatter.Success(result)
}
