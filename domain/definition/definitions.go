package definition

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/domain"
	"caseflow/idgen"
	"caseflow/persistence"
	"caseflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	definitionIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateTransactionDefinitionFunc = CreateTransactionDefinition
	QueryTransactionDefinitionsFunc = QueryTransactionDefinitions
)

func CreateTransactionDefinition(d *domain.TransactionDefinition, s *session.Session) (*domain.TransactionDefinition, error) {
	if !authority.IsAllowedFunc("manage-definitions", "transaction", s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	d.ID = idgen.NextID(definitionIdWorker)
	d.CreateTime = types.CurrentTimestamp()
	if d.DefaultStatus == "" {
		d.DefaultStatus = "draft"
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func QueryTransactionDefinitions(s *session.Session) ([]domain.TransactionDefinition, error) {
	var definitions []domain.TransactionDefinition
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("`key` ASC").Find(&definitions).Error; err != nil {
		return nil, err
	}
	return definitions, nil
}
