package form

import (
	"caseflow/bizerror"
	"fmt"
	"regexp"
	"strings"
)

var (
	ValidateFormStepFunc = ValidateFormStep

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateFormStep checks a would-be attribute map against the component tree
// bound to (definitionKey, formStepKey). No bound form means validation is
// skipped. Violations come back as a FormValidationError with one item per
// failed rule; these are user-correctable and are never logged as failures.
func ValidateFormStep(formStepKey, definitionKey string, attributes map[string]interface{}) error {
	cfg, err := GetFormConfigurationByKeysFunc(definitionKey, formStepKey)
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}

	items := []bizerror.FormValidationItem{}
	for _, component := range cfg.Components {
		items = append(items, validateComponent(component, "", attributes)...)
	}
	if len(items) > 0 {
		return &bizerror.FormValidationError{Items: items}
	}
	return nil
}

func validateComponent(c Component, prefix string, attributes map[string]interface{}) []bizerror.FormValidationItem {
	path := c.Key
	if prefix != "" {
		path = prefix + "." + c.Key
	}

	items := []bizerror.FormValidationItem{}
	if len(c.Components) > 0 {
		for _, child := range c.Components {
			items = append(items, validateComponent(child, path, attributes)...)
		}
		return items
	}

	value, present := lookupPath(attributes, path)
	text, isText := value.(string)

	if c.Required && (!present || value == nil || (isText && text == "")) {
		return append(items, bizerror.FormValidationItem{ErrorName: "required", Field: path})
	}
	if !present || value == nil || (isText && text == "") {
		return items
	}

	for _, v := range c.Validators {
		switch v.Name {
		case "email":
			if !isText || !emailPattern.MatchString(text) {
				items = append(items, bizerror.FormValidationItem{ErrorName: "email", Field: path})
			}
		case "pattern":
			matched, err := regexp.MatchString(v.Value, fmt.Sprintf("%v", value))
			if err != nil || !matched {
				items = append(items, bizerror.FormValidationItem{ErrorName: "pattern", Field: path})
			}
		}
	}
	return items
}

func lookupPath(attributes map[string]interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	current := attributes
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
