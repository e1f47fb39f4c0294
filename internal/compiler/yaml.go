package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fluxcore/internal/ir"
)

var (
	reducerKeys = fieldSet("name", "package", "state", "output", "imports", "bindings")
	bindingKeys = fieldSet("action", "handler", "creator", "params")
)

// LoadYAML parses reducer descriptions from YAML. Each document in the
// stream describes one reducer:
//
//	name: Todo
//	package: todo
//	state: State
//	bindings:
//	  - action: ADD_ITEM
//	    handler: addItem
//	    params:
//	      - {name: item, type: Item}
//
// source names the input in error messages and in ReducerSpec.Source.
func LoadYAML(data []byte, source string) ([]*ir.ReducerSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var specs []*ir.ReducerSpec
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &CompileError{Field: "yaml", Message: err.Error(), Source: source}
		}

		spec, err := compileYAMLDoc(&doc, source)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return nil, &CompileError{Field: "yaml", Message: "no reducer description found", Source: source}
	}
	return specs, nil
}

func compileYAMLDoc(doc *yaml.Node, source string) (*ir.ReducerSpec, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &CompileError{Field: "yaml", Message: "reducer description must be a mapping", Source: source, Line: root.Line}
	}
	if err := checkKeys(root, reducerKeys, "", source); err != nil {
		return nil, err
	}

	var spec ir.ReducerSpec
	if err := root.Decode(&spec); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error(), Source: source, Line: root.Line}
	}
	spec.Source = source
	spec.Line = root.Line

	if bindings := mappingValue(root, "bindings"); bindings != nil && bindings.Kind == yaml.SequenceNode {
		for i, item := range bindings.Content {
			if i >= len(spec.Bindings) {
				break
			}
			if err := checkKeys(item, bindingKeys, fmt.Sprintf("bindings[%d].", i), source); err != nil {
				return nil, err
			}
			spec.Bindings[i].Line = item.Line
		}
	}

	return &spec, nil
}

// checkKeys rejects mapping keys outside allowed, so typos such as
// "handlr" fail loudly instead of being ignored.
func checkKeys(m *yaml.Node, allowed map[string]bool, prefix, source string) error {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i]
		if !allowed[key.Value] {
			return &CompileError{
				Field:   prefix + key.Value,
				Message: "unknown field",
				Source:  source,
				Line:    key.Line,
			}
		}
	}
	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func fieldSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
