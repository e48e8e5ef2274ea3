package domain

import (
	"caseflow/domain/schema"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
)

const (
	ProfileTypeIndividual = "INDIVIDUAL"
	ProfileTypeEmployer   = "EMPLOYER"
)

// Transaction is the case aggregate. It exclusively owns its data bag and its
// document/message collections; the definition is referenced, never owned.
// AssignedTo: nil means never assigned, "" means explicitly unassigned.
type Transaction struct {
	ID uuid.UUID `json:"id" gorm:"primary_key;type:varchar(36)"`

	TransactionDefinitionKey string   `json:"transactionDefinitionKey"`
	TransactionDefinitionID  types.ID `json:"transactionDefinitionId"`
	ProcessInstanceID        string   `json:"processInstanceId"`

	Status   string   `json:"status"`
	Priority Priority `json:"priority"`

	AssignedTo *string `json:"assignedTo"`

	SubjectProfileID   string `json:"subjectProfileId"`
	SubjectProfileType string `json:"subjectProfileType"`

	AdditionalParties RelatedParties       `json:"additionalParties" sql:"type:TEXT"`
	Data              schema.DynamicEntity `json:"data" sql:"type:TEXT"`
	Documents         CustomerDocuments    `json:"customerProvidedDocuments" sql:"type:TEXT"`

	CreatedBy      string          `json:"createdBy"`
	CreateTime     types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	LastUpdatedBy  string          `json:"lastUpdatedBy"`
	LastUpdateTime types.Timestamp `json:"lastUpdateTime" sql:"type:DATETIME(6)"`
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// CreatorID and SubjectID feed the authorization oracle.
func (t *Transaction) CreatorID() string {
	return t.CreatedBy
}

func (t *Transaction) SubjectID() string {
	return t.SubjectProfileID
}

type RelatedParty struct {
	ProfileID   string `json:"profileId"`
	ProfileType string `json:"profileType"`
}

type RelatedParties []RelatedParty

type CustomerDocument struct {
	ID         string          `json:"id"`
	Path       string          `json:"path"`
	ObjectKey  string          `json:"objectKey"`
	UploadedBy string          `json:"uploadedBy"`
	UploadTime types.Timestamp `json:"uploadTime"`
}

type CustomerDocuments []CustomerDocument

func (t RelatedParties) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *RelatedParties) Scan(v interface{}) error {
	return scanJSONColumn(v, c)
}

func (t CustomerDocuments) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *CustomerDocuments) Scan(v interface{}) error {
	return scanJSONColumn(v, c)
}

func scanJSONColumn(v interface{}, target interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), target)
}
