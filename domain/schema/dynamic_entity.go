package schema

import (
	"caseflow/bizerror"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DynamicEntity is an instance of a Schema: attribute name to value, with
// nested entities addressable via dotted paths ("child.document1").
type DynamicEntity struct {
	SchemaKey  string                 `json:"schemaKey"`
	Attributes map[string]interface{} `json:"attributes"`
}

func (e DynamicEntity) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&e)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (e *DynamicEntity) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), e)
}

// Get resolves a dotted path against the attribute tree. The second return
// reports whether the path is present.
func (e *DynamicEntity) Get(path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	current := e.Attributes
	for i, seg := range segments {
		v, found := current[seg]
		if !found {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		child, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current = child
	}
	return nil, false
}

// Merge applies a client-supplied partial attribute map onto current and
// returns the merged entity. Keys are dotted attribute paths; every path must
// resolve to a declared attribute in the (possibly nested) schema chain or the
// whole merge fails with bizerror.ErrUnknownAttributePath. Paths absent from
// the partial map keep their current value. Admin fields (assignment,
// priority, status) never travel through this merge.
func Merge(current *DynamicEntity, partial map[string]interface{}, resolve Resolver) (*DynamicEntity, error) {
	root, err := resolve(current.SchemaKey)
	if err != nil {
		return nil, err
	}

	merged := DynamicEntity{SchemaKey: current.SchemaKey, Attributes: deepCopyMap(current.Attributes)}
	for path, value := range partial {
		segments := strings.Split(path, ".")
		if err := checkDeclaredPath(root, segments, resolve); err != nil {
			return nil, err
		}
		setPath(merged.Attributes, segments, value)
	}
	return &merged, nil
}

// UnifyAttributeMaps produces the attribute map that would result from merging
// partial into current, without validating paths or committing anything. It is
// used to validate a would-be state before mutation is persisted.
func UnifyAttributeMaps(current, partial map[string]interface{}) map[string]interface{} {
	unified := deepCopyMap(current)
	for path, value := range partial {
		setPath(unified, strings.Split(path, "."), value)
	}
	return unified
}

func checkDeclaredPath(root *Schema, segments []string, resolve Resolver) error {
	s := root
	for i, seg := range segments {
		attr, found := s.FindAttribute(seg)
		if !found {
			return fmt.Errorf("%w: %s (schema %s)", bizerror.ErrUnknownAttributePath, strings.Join(segments, "."), s.Key)
		}
		if i == len(segments)-1 {
			return nil
		}
		if attr.Type != AttributeTypeObject && attr.Type != AttributeTypeArray {
			return fmt.Errorf("%w: %s (attribute %s is not nested)", bizerror.ErrUnknownAttributePath, strings.Join(segments, "."), seg)
		}
		childKey := s.RelatedSchemas[seg]
		child, err := resolve(childKey)
		if err != nil {
			return err
		}
		s = child
	}
	return nil
}

func setPath(attrs map[string]interface{}, segments []string, value interface{}) {
	current := attrs
	for i, seg := range segments {
		if i == len(segments)-1 {
			current[seg] = value
			return
		}
		child, ok := current[seg].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			current[seg] = child
		}
		current = child
	}
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		if child, ok := v.(map[string]interface{}); ok {
			dst[k] = deepCopyMap(child)
			continue
		}
		if list, ok := v.([]interface{}); ok {
			copied := make([]interface{}, len(list))
			for i, item := range list {
				if m, ok := item.(map[string]interface{}); ok {
					copied[i] = deepCopyMap(m)
				} else {
					copied[i] = item
				}
			}
			dst[k] = copied
			continue
		}
		dst[k] = v
	}
	return dst
}
