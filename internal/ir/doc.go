// Package ir provides the foundational types shared by the store runtime and
// the reducer generator.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps it the bottom layer
// with no circular dependencies.
//
// It holds three groups of types:
//   - Action and Tuple, the runtime unit of state-change intent
//   - ReducerSpec, Binding and Param, the declarative reducer description
//     consumed by the generator
//   - IRValue and canonical JSON, used to fingerprint reducer descriptions
//     and to record action payloads in traces
//
// Key constraints:
//   - NO float types in IRValue - use int64 for numbers
//   - All JSON and YAML tags use snake_case
//   - Canonical JSON is the only encoding used for hashing
package ir
