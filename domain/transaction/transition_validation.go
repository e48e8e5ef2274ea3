package transaction

import (
	"caseflow/domain"
	"caseflow/domain/flow"
)

// validateActiveTasks guards a requested action against the caller's active
// task set. No active task means no action is possible; a requested task id
// must name one of the active tasks.
func validateActiveTasks(activeTasks []flow.WorkflowTask, requestedTaskID string) bool {
	if len(activeTasks) == 0 {
		return false
	}
	if requestedTaskID == "" {
		return true
	}
	for _, task := range activeTasks {
		if task.Key == requestedTaskID || task.ID == requestedTaskID {
			return true
		}
	}
	return false
}

// hasAdminDataChanges reports whether the request touches admin-only fields:
// a priority different from the current one, or an assignment change
// (including explicit unassignment via the empty string). Absent fields are
// no-changes, never admin changes.
func hasAdminDataChanges(t *domain.Transaction, newAssignedTo *string, newPriority *domain.Priority) bool {
	if newPriority != nil && *newPriority != t.Priority {
		return true
	}
	if newAssignedTo != nil {
		if t.AssignedTo == nil || *t.AssignedTo != *newAssignedTo {
			return true
		}
	}
	return false
}
