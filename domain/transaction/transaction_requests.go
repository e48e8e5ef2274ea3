package transaction

import "caseflow/domain"

type TransactionCreation struct {
	TransactionDefinitionKey string `json:"transactionDefinitionKey" binding:"required"`

	SubjectProfileID   string `json:"subjectProfileId"`
	SubjectProfileType string `json:"subjectProfileType" binding:"omitempty,oneof=INDIVIDUAL EMPLOYER"`
}

// TransactionUpdating carries one partial-update request. Data keys are dotted
// attribute paths. AssignedTo nil means no change; the empty string is an
// explicit unassignment. TaskID, CompleteTask and FormStepKey arrive as query
// parameters on the REST surface.
type TransactionUpdating struct {
	Data     map[string]interface{} `json:"data"`
	Action   string                 `json:"action"`
	Priority *domain.Priority       `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`

	AssignedTo *string `json:"assignedTo"`

	TaskID       string `json:"-"`
	CompleteTask bool   `json:"-"`
	FormStepKey  string `json:"-"`
}

type TransactionQuery struct {
	TransactionDefinitionKey string `form:"definitionKey"`
	Status                   string `form:"status"`
	AssignedTo               string `form:"assignedTo"`
}
