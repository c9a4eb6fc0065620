package condiloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"condi-loader/core/dom"

	"github.com/antchfx/xpath"
	"gopkg.in/yaml.v3"
)

// ErrMalformedManifest means the manifest is not valid YAML or JSON.
var ErrMalformedManifest = errors.New("malformed manifest")

// Manifest is a declarative list of items.
type Manifest struct {
	Items []Item `json:"items" yaml:"items"`
}

// DecodeManifest reads a YAML (or JSON) manifest and validates it.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses a YAML (or JSON) manifest and validates it.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if len(bytes.TrimSpace(data)) == 0 {
		return &m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// Validate compiles every condition clause.
func (m *Manifest) Validate() error {
	for i, it := range m.Items {
		if err := it.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (it Item) validate(index int) error {
	name := it.Name
	if name == "" {
		name = DefaultName(index)
	}
	for _, clause := range it.Clauses() {
		var err error
		switch clause.Kind {
		case ClauseSelector:
			_, err = dom.CompileSelector(clause.Expr)
		case ClauseXPath:
			_, err = xpath.Compile(clause.Expr)
		}
		if err != nil {
			return &InvalidConditionError{Item: name, Clause: clause, Err: err}
		}
	}
	return nil
}
