package schema

import (
	"errors"
	"fmt"
)

const (
	AttributeTypeString   = "string"
	AttributeTypeNumber   = "number"
	AttributeTypeBoolean  = "boolean"
	AttributeTypeObject   = "object"
	AttributeTypeArray    = "array"
	AttributeTypeDocument = "document"
)

// Schema describes the shape of a DynamicEntity. A schema is immutable once
// referenced by persisted data; structural changes require a new key.
type Schema struct {
	Key  string `json:"key"`
	Name string `json:"name"`

	Attributes []Attribute `json:"attributes"`

	// RelatedSchemas maps an object/array attribute name to the key of the
	// schema describing its nested entity.
	RelatedSchemas map[string]string `json:"relatedSchemas,omitempty"`
}

type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Resolver loads a schema by key, for walking nested schema chains.
type Resolver func(key string) (*Schema, error)

func (s *Schema) FindAttribute(name string) (*Attribute, bool) {
	for i := range s.Attributes {
		if s.Attributes[i].Name == name {
			return &s.Attributes[i], true
		}
	}
	return nil, false
}

// Validate checks structural invariants: attribute names unique, object and
// array attributes bound to a related schema key.
func (s *Schema) Validate() error {
	if s.Key == "" {
		return errors.New("schema key is empty")
	}
	seen := map[string]bool{}
	for _, a := range s.Attributes {
		if a.Name == "" {
			return errors.New("schema " + s.Key + " has an attribute without name")
		}
		if seen[a.Name] {
			return fmt.Errorf("schema %s: duplicated attribute name %s", s.Key, a.Name)
		}
		seen[a.Name] = true

		switch a.Type {
		case AttributeTypeString, AttributeTypeNumber, AttributeTypeBoolean, AttributeTypeDocument:
		case AttributeTypeObject, AttributeTypeArray:
			if s.RelatedSchemas[a.Name] == "" {
				return fmt.Errorf("schema %s: attribute %s of type %s has no related schema", s.Key, a.Name, a.Type)
			}
		default:
			return fmt.Errorf("schema %s: attribute %s has unsupported type %s", s.Key, a.Name, a.Type)
		}
	}
	return nil
}
