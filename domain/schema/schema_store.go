package schema

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/persistence"
	"caseflow/session"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	GetSchemaByKeyFunc = GetSchemaByKey
	CreateSchemaFunc   = CreateSchema

	// referenced schemas are immutable, so cached entries never go stale
	schemaCache = cache.New(10*time.Minute, 1*time.Minute)
)

type SchemaContent Schema

func (c SchemaContent) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&c)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *SchemaContent) Scan(v interface{}) error {
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

type SchemaRecord struct {
	Key     string        `json:"key" gorm:"primary_key;type:varchar(128)"`
	Name    string        `json:"name"`
	Content SchemaContent `json:"content" sql:"type:TEXT"`

	CreatedBy string `json:"createdBy"`
}

func (r *SchemaRecord) TableName() string {
	return "dynamic_schemas"
}

func GetSchemaByKey(key string) (*Schema, error) {
	if cached, found := schemaCache.Get(key); found {
		s := cached.(Schema)
		return &s, nil
	}

	record := SchemaRecord{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	if err := db.Where(&SchemaRecord{Key: key}).First(&record).Error; err != nil {
		return nil, err
	}
	s := Schema(record.Content)
	schemaCache.Set(key, s, cache.DefaultExpiration)
	return &s, nil
}

func CreateSchema(s *Schema, sec *session.Session) (*SchemaRecord, error) {
	if !authority.IsAllowedFunc("manage-definitions", "transaction", sec.Perms) {
		return nil, bizerror.ErrForbidden
	}
	if err := s.Validate(); err != nil {
		return nil, &bizerror.ErrBadParam{Cause: err}
	}

	record := SchemaRecord{Key: s.Key, Name: s.Name, Content: SchemaContent(*s), CreatedBy: sec.Identity.ID}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
