package ir

// ReducerSpec is the declarative description of one reducer, produced by the
// compiler from CUE, YAML or Go directives and consumed by the code generator.
type ReducerSpec struct {
	Name      string    `json:"name" yaml:"name"`
	Package   string    `json:"package,omitempty" yaml:"package,omitempty"`
	StateType string    `json:"state_type" yaml:"state"`
	Imports   []Import  `json:"imports,omitempty" yaml:"imports,omitempty"`
	Bindings  []Binding `json:"bindings" yaml:"bindings"`
	Output    string    `json:"output,omitempty" yaml:"output,omitempty"` // generated file name
	Source    string    `json:"source,omitempty" yaml:"-"`                // file the spec was read from
	Line      int       `json:"-" yaml:"-"`
}

// Import is an extra import needed by the state or parameter types.
type Import struct {
	Path  string `json:"path" yaml:"path"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// Binding maps one action identifier to the handler that reduces it.
type Binding struct {
	Action  string  `json:"action" yaml:"action"`
	Handler string  `json:"handler" yaml:"handler"`
	Creator string  `json:"creator,omitempty" yaml:"creator,omitempty"` // defaults from Action
	Params  []Param `json:"params,omitempty" yaml:"params,omitempty"`
	Line    int     `json:"-" yaml:"-"`
}

// Param is one handler parameter, decoded from the action payload by position.
// Type is a Go type expression such as "int", "Item" or "[]model.Tag".
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Arity returns the number of payload arguments the binding decodes.
func (b Binding) Arity() int {
	return len(b.Params)
}

// CreatorName returns the generated action-creator function name:
// Creator when set, otherwise the identifier in CamelCase.
func (b Binding) CreatorName() string {
	if b.Creator != "" {
		return b.Creator
	}
	return ExportedName(b.Action)
}

// ConstName returns the generated constant holding the identifier.
func (b Binding) ConstName() string {
	return "Action" + ExportedName(b.Action)
}

// Lookup returns the binding for an action identifier.
func (s *ReducerSpec) Lookup(action string) (Binding, bool) {
	for _, b := range s.Bindings {
		if b.Action == action {
			return b, true
		}
	}
	return Binding{}, false
}
