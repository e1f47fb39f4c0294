package ir

// Version constants for the reducer description schema and generator.
const (
	// SpecVersion is the reducer description schema version.
	SpecVersion = "1"

	// GeneratorVersion is the fluxgen version stamped into generated files.
	GeneratorVersion = "0.1.0"
)
