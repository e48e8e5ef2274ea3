package domain

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/fundwit/go-commons/types"
)

// TransactionDefinition is the template a transaction is created from. It is
// an immutable reference from the transaction's perspective during updates.
type TransactionDefinition struct {
	ID  types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Key string   `json:"key" gorm:"unique_index" binding:"required"`

	Name                 string `json:"name"`
	SchemaKey            string `json:"schemaKey" binding:"required"`
	DefaultStatus        string `json:"defaultStatus"`
	ProcessDefinitionKey string `json:"processDefinitionKey" binding:"required"`

	SubjectType              string                `json:"subjectType"`
	AllowedRelatedPartyTypes StringList            `json:"allowedRelatedPartyTypes" sql:"type:TEXT"`
	FormSelectionRules       FormSelectionRuleList `json:"formSelectionRules" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (d *TransactionDefinition) TableName() string {
	return "transaction_definitions"
}

// FormSelectionRule picks the form configuration bound to a workflow task.
type FormSelectionRule struct {
	TaskKey string `json:"taskKey"`
	Viewer  string `json:"viewer,omitempty"`
	FormKey string `json:"formKey"`
}

type FormSelectionRuleList []FormSelectionRule

type StringList []string

func (t StringList) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *StringList) Scan(v interface{}) error {
	return scanJSONColumn(v, c)
}

func (t FormSelectionRuleList) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *FormSelectionRuleList) Scan(v interface{}) error {
	return scanJSONColumn(v, c)
}
