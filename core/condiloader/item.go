package condiloader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList is an ordered list of strings that also accepts a single scalar
// when decoded from YAML or JSON.
type StringList []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = list
	return nil
}

// ClauseKind is the query language of a condition clause.
type ClauseKind string

const (
	ClauseSelector ClauseKind = "selector"
	ClauseXPath    ClauseKind = "xpath"
)

// Clause is a single document query gating an item.
type Clause struct {
	Kind ClauseKind `json:"kind"`
	Expr string     `json:"expr"`
}

// Item is one declarative unit: a condition and the resources and actions to
// run when it holds.
type Item struct {
	// Name identifies the item in diagnostics. Defaults to "Unnamed item #<index>".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Selectors are CSS selector clauses; each must match at least one element.
	Selectors StringList `json:"sel,omitempty" yaml:"sel,omitempty"`

	// XPaths are XPath clauses; each must match at least one element.
	XPaths StringList `json:"xpath,omitempty" yaml:"xpath,omitempty"`

	// Stylesheets are loaded in order, before any script.
	Stylesheets StringList `json:"css,omitempty" yaml:"css,omitempty"`

	// Media is applied to every stylesheet node of the item.
	Media string `json:"media,omitempty" yaml:"media,omitempty"`

	// Scripts are loaded in order, after all stylesheets.
	Scripts StringList `json:"js,omitempty" yaml:"js,omitempty"`

	// Event is dispatched on the document once everything loaded.
	Event string `json:"event,omitempty" yaml:"event,omitempty"`

	// OnReady is called once everything loaded.
	OnReady func() `json:"-" yaml:"-"`
}

// Clauses returns the condition clauses, selectors first.
func (it Item) Clauses() []Clause {
	clauses := make([]Clause, 0, len(it.Selectors)+len(it.XPaths))
	for _, sel := range it.Selectors {
		clauses = append(clauses, Clause{Kind: ClauseSelector, Expr: sel})
	}
	for _, expr := range it.XPaths {
		clauses = append(clauses, Clause{Kind: ClauseXPath, Expr: expr})
	}
	return clauses
}

// Unconditional reports whether the item declares no condition.
func (it Item) Unconditional() bool {
	return len(it.Selectors) == 0 && len(it.XPaths) == 0
}

// DefaultName is the placeholder name of the item at index.
func DefaultName(index int) string {
	return fmt.Sprintf("Unnamed item #%d", index)
}
