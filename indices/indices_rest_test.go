package indices

import (
	"caseflow/bizerror"
	"caseflow/session"
	"caseflow/testinfra"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestHandleIndexRequest(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	RegisterIndicesRestAPI(router)
	defer func() { ScheduleNewSyncRunFunc = ScheduleNewSyncRun }()

	t.Run("handle error", func(t *testing.T) {
		ScheduleNewSyncRunFunc = func(sec *session.Session) (bool, error) {
			return false, errors.New("error on schedule new sync run")
		}
		req := httptest.NewRequest(http.MethodPost, PathIndexRequests, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"error on schedule new sync run", "data":null}`))
	})

	t.Run("forbidden without the manage permission", func(t *testing.T) {
		ScheduleNewSyncRunFunc = func(sec *session.Session) (bool, error) {
			return false, bizerror.ErrForbidden
		}
		req := httptest.NewRequest(http.MethodPost, PathIndexRequests, nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
	})

	t.Run("submit index request successfully", func(t *testing.T) {
		ScheduleNewSyncRunFunc = func(sec *session.Session) (bool, error) {
			return true, nil
		}
		req := httptest.NewRequest(http.MethodPost, PathIndexRequests, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"result": true}`))
	})

	t.Run("a sync already running is reported, not an error", func(t *testing.T) {
		ScheduleNewSyncRunFunc = func(sec *session.Session) (bool, error) {
			return false, nil
		}
		req := httptest.NewRequest(http.MethodPost, PathIndexRequests, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"result": false}`))
	})
}
