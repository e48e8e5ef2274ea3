package definition

import (
	"caseflow/bizerror"
	"caseflow/domain"
	"caseflow/session"
	"caseflow/testinfra"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestTransactionDefinitionsRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	RegisterTransactionDefinitionsRestAPI(router)
	defer func() {
		CreateTransactionDefinitionFunc = CreateTransactionDefinition
		QueryTransactionDefinitionsFunc = QueryTransactionDefinitions
	}()

	t.Run("should create a definition", func(t *testing.T) {
		CreateTransactionDefinitionFunc = func(d *domain.TransactionDefinition, s *session.Session) (*domain.TransactionDefinition, error) {
			Expect(d.Key).To(Equal("benefit"))
			Expect(d.SchemaKey).To(Equal("case"))
			d.DefaultStatus = "draft"
			return d, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/transaction-definitions",
			strings.NewReader(`{"key":"benefit","schemaKey":"case","processDefinitionKey":"benefit-process"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(ContainSubstring(`"defaultStatus":"draft"`))
	})

	t.Run("should answer 400 when required fields are missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/transaction-definitions",
			strings.NewReader(`{"key":"benefit"}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should answer 403 without the manage permission", func(t *testing.T) {
		CreateTransactionDefinitionFunc = func(d *domain.TransactionDefinition, s *session.Session) (*domain.TransactionDefinition, error) {
			return nil, bizerror.ErrForbidden
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/transaction-definitions",
			strings.NewReader(`{"key":"benefit","schemaKey":"case","processDefinitionKey":"benefit-process"}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
	})

	t.Run("should list definitions", func(t *testing.T) {
		QueryTransactionDefinitionsFunc = func(s *session.Session) ([]domain.TransactionDefinition, error) {
			return []domain.TransactionDefinition{{Key: "benefit", SchemaKey: "case"}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/transaction-definitions", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"total":1`))
	})
}
