package codegen

import (
	"strings"

	"github.com/roach88/fluxcore/internal/ir"
)

// DefaultRuntimePath is the import prefix of the ir and reducer packages.
const DefaultRuntimePath = "github.com/roach88/fluxcore/internal"

// Options controls generation. Zero fields fall back to the description
// and then to DefaultOptions.
type Options struct {
	// Package overrides the package clause of the generated file.
	Package string `json:"package,omitempty"`

	// Output is the generated file name.
	Output string `json:"output,omitempty"`

	// BuildTags, when set, is emitted as a //go:build constraint.
	BuildTags string `json:"build_tags,omitempty"`

	// RuntimePath is the import prefix of the ir and reducer packages.
	RuntimePath string `json:"runtime_path,omitempty"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		RuntimePath: DefaultRuntimePath,
	}
}

// Merge overwrites o's fields with the non-zero fields of source.
func (o *Options) Merge(source *Options) {
	if source == nil {
		return
	}
	if source.Package != "" {
		o.Package = source.Package
	}
	if source.Output != "" {
		o.Output = source.Output
	}
	if source.BuildTags != "" {
		o.BuildTags = source.BuildTags
	}
	if source.RuntimePath != "" {
		o.RuntimePath = source.RuntimePath
	}
}

// Resolve layers defaults, the description's own settings and overrides,
// in that order of increasing precedence. The output name defaults to
// "<name>_reducer_gen.go".
func Resolve(spec *ir.ReducerSpec, overrides Options) Options {
	opts := DefaultOptions()
	opts.Merge(&Options{Package: spec.Package, Output: spec.Output})
	opts.Merge(&overrides)
	if opts.Output == "" {
		opts.Output = strings.ToLower(spec.Name) + "_reducer_gen.go"
	}
	return opts
}
