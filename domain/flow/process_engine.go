package flow

import (
	"caseflow/bizerror"
	"caseflow/common"
	"caseflow/session"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
)

// WorkflowTask is one step the session user may currently act on for a given
// transaction. Sourced from the process engine, never persisted here.
type WorkflowTask struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Assignee string `json:"assignee"`
}

var (
	ActiveTasksFunc  = ActiveTasks
	StartProcessFunc = StartProcess
	CompleteTaskFunc = CompleteTask
)

func engineBaseURL() string {
	url := os.Getenv("PROCESS_ENGINE_URL")
	if url == "" {
		url = "http://localhost:8090"
	}
	return url
}

func onBehalfHeader(s *session.Session) http.Header {
	h := http.Header{}
	h.Set("X-On-Behalf-Of", s.Identity.ID)
	return h
}

// ActiveTasks answers which workflow tasks are currently active and assignable
// to the session user for this transaction.
func ActiveTasks(transactionID uuid.UUID, s *session.Session) ([]WorkflowTask, error) {
	url := fmt.Sprintf("%s/v1/process-instances/%s/tasks", engineBaseURL(), transactionID.String())
	respBody, _, err := common.HttpInvokeJson(http.MethodGet, url, onBehalfHeader(s), "")
	if err != nil {
		return nil, err
	}
	tasks := []WorkflowTask{}
	if err := json.Unmarshal([]byte(respBody), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// StartProcess launches the process bound to a transaction definition and
// returns the engine's process instance id.
func StartProcess(processDefinitionKey string, transactionID uuid.UUID, s *session.Session) (string, error) {
	url := fmt.Sprintf("%s/v1/process-definitions/%s/start", engineBaseURL(), processDefinitionKey)
	reqBody := fmt.Sprintf(`{"businessKey":"%s"}`, transactionID.String())
	respBody, _, err := common.HttpInvokeJson(http.MethodPost, url, onBehalfHeader(s), reqBody)
	if err != nil {
		return "", err
	}
	result := struct {
		ID string `json:"id"`
	}{}
	if err := json.Unmarshal([]byte(respBody), &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

type completeTaskRequest struct {
	Action string                 `json:"action,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

type engineErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CompleteTask asks the engine to advance the process. Engine-reported
// conditions surface as the closed error set ErrMissingTask,
// ErrMissingTransaction and ErrProvidedData; anything else is a transport
// failure.
func CompleteTask(transactionID uuid.UUID, taskID, action string, data map[string]interface{}, s *session.Session) error {
	url := fmt.Sprintf("%s/v1/process-instances/%s/tasks/%s/complete", engineBaseURL(), transactionID.String(), taskID)
	reqBytes, err := json.Marshal(&completeTaskRequest{Action: action, Data: data})
	if err != nil {
		return err
	}
	respBody, status, err := common.HttpInvokeJson(http.MethodPost, url, onBehalfHeader(s), string(reqBytes))
	if err == nil {
		return nil
	}

	var invokeErr *common.ErrHttpInvoke
	if !errors.As(err, &invokeErr) || common.HttpStatusIsSuccess(status) {
		return err
	}

	engineErr := engineErrorBody{}
	_ = json.Unmarshal([]byte(respBody), &engineErr)
	switch engineErr.Code {
	case "TASK_NOT_FOUND":
		return bizerror.ErrMissingTask
	case "PROCESS_INSTANCE_NOT_FOUND":
		return bizerror.ErrMissingTransaction
	case "INVALID_ACTION", "PROVIDED_DATA_INVALID":
		return fmt.Errorf("%w: %s", bizerror.ErrProvidedData, engineErr.Message)
	}
	return err
}
