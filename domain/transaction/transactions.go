package transaction

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/client/userdir"
	"caseflow/domain"
	"caseflow/domain/flow"
	"caseflow/domain/form"
	"caseflow/domain/schema"
	"caseflow/event"
	"caseflow/persistence"
	"caseflow/session"
	"fmt"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

var (
	CreateTransactionFunc = CreateTransaction
	DetailTransactionFunc = DetailTransaction
	QueryTransactionsFunc = QueryTransactions
	UpdateTransactionFunc = UpdateTransaction

	FindTransactionFunc = findTransaction
	SaveTransactionFunc = saveTransaction

	LoadTransactionsFunc = LoadTransactions
)

func CreateTransaction(c *TransactionCreation, s *session.Session) (*domain.Transaction, error) {
	if s.Identity.ID == "" {
		return nil, bizerror.ErrUnauthenticated
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	definition := domain.TransactionDefinition{}
	if err := db.Where(&domain.TransactionDefinition{Key: c.TransactionDefinitionKey}).First(&definition).Error; err != nil {
		return nil, err
	}

	subjectProfileID := c.SubjectProfileID
	if subjectProfileID == "" {
		subjectProfileID = s.Identity.ID
	}
	subjectProfileType := c.SubjectProfileType
	if subjectProfileType == "" {
		subjectProfileType = definition.SubjectType
	}

	now := types.CurrentTimestamp()
	t := domain.Transaction{
		ID: uuid.New(),

		TransactionDefinitionKey: definition.Key,
		TransactionDefinitionID:  definition.ID,

		Status:   definition.DefaultStatus,
		Priority: domain.PriorityMedium,

		SubjectProfileID:   subjectProfileID,
		SubjectProfileType: subjectProfileType,
		AdditionalParties:  domain.RelatedParties{},
		Documents:          domain.CustomerDocuments{},

		Data: schema.DynamicEntity{SchemaKey: definition.SchemaKey, Attributes: map[string]interface{}{}},

		CreatedBy:      s.Identity.ID,
		CreateTime:     now,
		LastUpdatedBy:  s.Identity.ID,
		LastUpdateTime: now,
	}

	processInstanceID, err := flow.StartProcessFunc(definition.ProcessDefinitionKey, t.ID, s)
	if err != nil {
		return nil, err
	}
	t.ProcessInstanceID = processInstanceID

	if err := db.Create(&t).Error; err != nil {
		return nil, err
	}

	event.SubmitFunc(event.NewEventRecord(event.SourceTypeTransaction, t.ID.String(),
		definition.Key, event.EventCategoryCreated, nil, &s.Identity))

	return &t, nil
}

func DetailTransaction(id uuid.UUID, s *session.Session) (*domain.Transaction, error) {
	t, err := FindTransactionFunc(id, s)
	if err != nil {
		return nil, err
	}
	if !authority.IsAllowedForInstanceFunc("view", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}
	return t, nil
}

func QueryTransactions(q *TransactionQuery, s *session.Session) ([]domain.Transaction, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	query := db.Model(&domain.Transaction{})
	if q.TransactionDefinitionKey != "" {
		query = query.Where("transaction_definition_key = ?", q.TransactionDefinitionKey)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.AssignedTo != "" {
		query = query.Where("assigned_to = ?", q.AssignedTo)
	}

	filter := authority.GetAuthFilterFunc("view", "transaction", s.Identity.ID, s.Perms)
	if !filter.AllowAll {
		query = query.Where("created_by = ? OR subject_profile_id = ?", filter.CreatedByOnly, filter.CreatedByOnly)
	}

	var transactions []domain.Transaction
	if err := query.Order("create_time DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// UpdateTransaction is the single mutation path of a transaction. Guards run
// in a fixed order and short-circuit before anything is persisted; only after
// the engine call succeeds is the aggregate saved, and the audit record is
// dispatched best-effort afterwards.
func UpdateTransaction(id uuid.UUID, u *TransactionUpdating, s *session.Session) (*domain.Transaction, error) {
	t, err := FindTransactionFunc(id, s)
	if err != nil {
		return nil, err
	}

	if !authority.IsAllowedForInstanceFunc("update", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	activeTasks, err := flow.ActiveTasksFunc(t.ID, s)
	if err != nil {
		return nil, err
	}
	if !validateActiveTasks(activeTasks, u.TaskID) {
		return nil, bizerror.ErrForbidden
	}

	// admin-field gate: all or nothing, data changes are not applied either
	if hasAdminDataChanges(t, u.AssignedTo, u.Priority) {
		if !authority.IsAllowedForInstanceFunc("update-admin-data", t, s.Identity.ID, s.Perms) {
			return nil, bizerror.ErrForbidden
		}
	}

	merged, err := schema.Merge(&t.Data, u.Data, schema.GetSchemaByKeyFunc)
	if err != nil {
		return nil, err
	}

	if u.FormStepKey != "" {
		wouldBe := schema.UnifyAttributeMaps(t.Data.Attributes, u.Data)
		if err := form.ValidateFormStepFunc(u.FormStepKey, t.TransactionDefinitionKey, wouldBe); err != nil {
			return nil, err
		}
	}

	// only non-empty assignee ids are existence-checked; unassignment is not
	if u.AssignedTo != nil && *u.AssignedTo != "" && hasAdminDataChanges(t, u.AssignedTo, nil) {
		assignee, err := userdir.GetUserOptionalFunc(*u.AssignedTo, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", bizerror.ErrUserVerification, err)
		}
		if assignee == nil {
			return nil, bizerror.ErrNotFound
		}
	}

	if u.CompleteTask {
		if err := flow.CompleteTaskFunc(t.ID, u.TaskID, u.Action, merged.Attributes, s); err != nil {
			return nil, err
		}
	}

	updatedProperties := collectUpdatedProperties(t, u)

	t.Data = *merged
	if u.AssignedTo != nil {
		assignedTo := *u.AssignedTo
		t.AssignedTo = &assignedTo
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	t.LastUpdatedBy = s.Identity.ID
	t.LastUpdateTime = types.CurrentTimestamp()

	if err := SaveTransactionFunc(t, s); err != nil {
		return nil, err
	}

	category := event.EventCategory(event.EventCategoryDataUpdated)
	if u.CompleteTask {
		category = event.EventCategoryTaskCompleted
	}
	event.SubmitFunc(event.NewEventRecord(event.SourceTypeTransaction, t.ID.String(),
		t.TransactionDefinitionKey, category, updatedProperties, &s.Identity))

	return t, nil
}

func collectUpdatedProperties(t *domain.Transaction, u *TransactionUpdating) []event.UpdatedProperty {
	properties := []event.UpdatedProperty{}
	if u.AssignedTo != nil {
		oldValue := ""
		if t.AssignedTo != nil {
			oldValue = *t.AssignedTo
		}
		properties = append(properties, event.UpdatedProperty{
			PropertyName: "AssignedTo", OldValue: oldValue, NewValue: *u.AssignedTo})
	}
	if u.Priority != nil {
		properties = append(properties, event.UpdatedProperty{
			PropertyName: "Priority", OldValue: string(t.Priority), NewValue: string(*u.Priority)})
	}
	for path := range u.Data {
		properties = append(properties, event.UpdatedProperty{PropertyName: "Data." + path})
	}
	return properties
}

func LoadTransactions(page, size int) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	if err := db.Order("id ASC").Offset(offset).Limit(size).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func findTransaction(id uuid.UUID, s *session.Session) (*domain.Transaction, error) {
	t := domain.Transaction{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where("id = ?", id.String()).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func saveTransaction(t *domain.Transaction, s *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		return tx.Save(t).Error
	})
}
