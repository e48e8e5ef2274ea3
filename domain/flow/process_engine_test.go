package flow

import (
	"caseflow/bizerror"
	"caseflow/session"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func startEngineStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	original := os.Getenv("PROCESS_ENGINE_URL")
	os.Setenv("PROCESS_ENGINE_URL", server.URL)
	t.Cleanup(func() {
		server.Close()
		os.Setenv("PROCESS_ENGINE_URL", original)
	})
	return server
}

func engineSession() *session.Session {
	return &session.Session{Identity: session.Identity{ID: "user1"}}
}

func TestActiveTasks(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should list the caller's active tasks on behalf of the session user", func(t *testing.T) {
		var receivedOnBehalf string
		startEngineStub(t, func(w http.ResponseWriter, r *http.Request) {
			receivedOnBehalf = r.Header.Get("X-On-Behalf-Of")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"1001","key":"review","name":"Review case","assignee":"user1"}]`))
		})

		tasks, err := ActiveTasks(uuid.New(), engineSession())
		Expect(err).To(BeNil())
		Expect(tasks).To(Equal([]WorkflowTask{{ID: "1001", Key: "review", Name: "Review case", Assignee: "user1"}}))
		Expect(receivedOnBehalf).To(Equal("user1"))
	})

	t.Run("should fail on transport errors", func(t *testing.T) {
		startEngineStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := ActiveTasks(uuid.New(), engineSession())
		Expect(err).ToNot(BeNil())
	})
}

func TestStartProcess(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should return the engine's process instance id", func(t *testing.T) {
		startEngineStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi-42"}`))
		})

		id, err := StartProcess("benefit-process", uuid.New(), engineSession())
		Expect(err).To(BeNil())
		Expect(id).To(Equal("pi-42"))
	})
}

func TestCompleteTask(t *testing.T) {
	RegisterTestingT(t)

	completeWithEngineError := func(t *testing.T, status int, body string) error {
		startEngineStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
		return CompleteTask(uuid.New(), "review", "approve", map[string]interface{}{"a": 1}, engineSession())
	}

	t.Run("should succeed silently", func(t *testing.T) {
		err := completeWithEngineError(t, http.StatusOK, `{}`)
		Expect(err).To(BeNil())
	})

	t.Run("should map TASK_NOT_FOUND to the missing task error", func(t *testing.T) {
		err := completeWithEngineError(t, http.StatusNotFound, `{"code":"TASK_NOT_FOUND","message":"no such task"}`)
		Expect(errors.Is(err, bizerror.ErrMissingTask)).To(BeTrue())
	})

	t.Run("should map PROCESS_INSTANCE_NOT_FOUND to the missing transaction error", func(t *testing.T) {
		err := completeWithEngineError(t, http.StatusNotFound, `{"code":"PROCESS_INSTANCE_NOT_FOUND","message":"gone"}`)
		Expect(errors.Is(err, bizerror.ErrMissingTransaction)).To(BeTrue())
	})

	t.Run("should map INVALID_ACTION and PROVIDED_DATA_INVALID to the provided data error", func(t *testing.T) {
		err := completeWithEngineError(t, http.StatusBadRequest, `{"code":"INVALID_ACTION","message":"bad action"}`)
		Expect(errors.Is(err, bizerror.ErrProvidedData)).To(BeTrue())

		err = completeWithEngineError(t, http.StatusBadRequest, `{"code":"PROVIDED_DATA_INVALID","message":"bad data"}`)
		Expect(errors.Is(err, bizerror.ErrProvidedData)).To(BeTrue())
	})

	t.Run("should keep unrecognized engine failures as transport errors", func(t *testing.T) {
		err := completeWithEngineError(t, http.StatusInternalServerError, `{"code":"BOOM"}`)
		Expect(err).ToNot(BeNil())
		Expect(errors.Is(err, bizerror.ErrMissingTask)).To(BeFalse())
		Expect(errors.Is(err, bizerror.ErrMissingTransaction)).To(BeFalse())
		Expect(errors.Is(err, bizerror.ErrProvidedData)).To(BeFalse())
	})
}
