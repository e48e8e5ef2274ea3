package form

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/idgen"
	"caseflow/persistence"
	"caseflow/session"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
)

var (
	formConfigIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	GetFormConfigurationByKeysFunc = GetFormConfigurationByKeys
	CreateFormConfigurationFunc    = CreateFormConfiguration

	formConfigCache = cache.New(5*time.Minute, 1*time.Minute)
)

// FormConfiguration binds a presentation/validation component tree to a
// (transaction definition, form key) pair. Used for step validation only,
// never for data storage.
type FormConfiguration struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	TransactionDefinitionKey string `json:"transactionDefinitionKey" gorm:"index:idx_form_def_key" binding:"required"`
	FormKey                  string `json:"formKey" binding:"required"`
	TaskKey                  string `json:"taskKey"`
	SchemaKey                string `json:"schemaKey"`

	Components ComponentList `json:"components" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (c *FormConfiguration) TableName() string {
	return "form_configurations"
}

// Component is one node of a formio-style component tree.
type Component struct {
	Key      string `json:"key"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`

	Validators []Validator `json:"validators,omitempty"`
	Components []Component `json:"components,omitempty"`
}

type Validator struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type ComponentList []Component

func (t ComponentList) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *ComponentList) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), c)
}

// GetFormConfigurationByKeys returns nil without error when no form is bound
// to the pair: an unbound step has no client-side contract to enforce.
func GetFormConfigurationByKeys(definitionKey, formKey string) (*FormConfiguration, error) {
	cacheKey := definitionKey + "/" + formKey
	if cached, found := formConfigCache.Get(cacheKey); found {
		cfg := cached.(FormConfiguration)
		return &cfg, nil
	}

	record := FormConfiguration{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	err := db.Where(&FormConfiguration{TransactionDefinitionKey: definitionKey, FormKey: formKey}).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	formConfigCache.Set(cacheKey, record, cache.DefaultExpiration)
	return &record, nil
}

func CreateFormConfiguration(c *FormConfiguration, s *session.Session) (*FormConfiguration, error) {
	if !authority.IsAllowedFunc("manage-definitions", "transaction", s.Perms) {
		return nil, bizerror.ErrForbidden
	}
	c.ID = idgen.NextID(formConfigIdWorker)
	c.CreateTime = types.CurrentTimestamp()
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	formConfigCache.Delete(c.TransactionDefinitionKey + "/" + c.FormKey)
	return c, nil
}
