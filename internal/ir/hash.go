package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainReducer = "fluxcore/reducer/v1"
	DomainPayload = "fluxcore/payload/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// specObject converts a ReducerSpec to its canonical object form.
// Source and line numbers are excluded: moving a description between files
// does not change the generated code.
func specObject(spec *ReducerSpec) IRObject {
	imports := make(IRArray, len(spec.Imports))
	for i, imp := range spec.Imports {
		imports[i] = IRObject{"path": IRString(imp.Path), "alias": IRString(imp.Alias)}
	}

	bindings := make(IRArray, len(spec.Bindings))
	for i, b := range spec.Bindings {
		params := make(IRArray, len(b.Params))
		for j, p := range b.Params {
			params[j] = IRObject{"name": IRString(p.Name), "type": IRString(p.Type)}
		}
		bindings[i] = IRObject{
			"action":  IRString(b.Action),
			"handler": IRString(b.Handler),
			"creator": IRString(b.Creator),
			"params":  params,
		}
	}

	return IRObject{
		"name":       IRString(spec.Name),
		"package":    IRString(spec.Package),
		"state_type": IRString(spec.StateType),
		"imports":    imports,
		"bindings":   bindings,
		"version":    IRString(SpecVersion),
	}
}

// SpecFingerprint computes the content-addressed identity of a reducer
// description. Generated files carry it so stale output can be detected.
func SpecFingerprint(spec *ReducerSpec) (string, error) {
	canonical, err := MarshalCanonical(specObject(spec))
	if err != nil {
		return "", fmt.Errorf("SpecFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReducer, canonical), nil
}

// PayloadHash computes a stable hash of an action payload for traces.
func PayloadHash(payload IRValue) (string, error) {
	canonical, err := MarshalCanonical(payload)
	if err != nil {
		return "", fmt.Errorf("PayloadHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPayload, canonical), nil
}
