package txrest

import (
	"caseflow/bizerror"
	"caseflow/domain"
	"caseflow/domain/schema"
	"caseflow/domain/transaction"
	"caseflow/session"
	"caseflow/testinfra"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func setupTransactionsRouter() *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	RegisterTransactionsRestAPI(router)
	return router
}

func TestHandleUpdateTransaction(t *testing.T) {
	RegisterTestingT(t)
	router := setupTransactionsRouter()
	defer func() { transaction.UpdateTransactionFunc = transaction.UpdateTransaction }()

	id := uuid.New()

	t.Run("should forward query parameters and answer the updated case", func(t *testing.T) {
		var received *transaction.TransactionUpdating
		transaction.UpdateTransactionFunc = func(txID uuid.UUID, u *transaction.TransactionUpdating, s *session.Session) (*domain.Transaction, error) {
			received = u
			return &domain.Transaction{ID: txID, Status: "in-review", Priority: domain.PriorityMedium,
				Data: schema.DynamicEntity{SchemaKey: "case", Attributes: map[string]interface{}{"firstName": "Bob"}},
				AdditionalParties: domain.RelatedParties{}, Documents: domain.CustomerDocuments{}}, nil
		}

		req := httptest.NewRequest(http.MethodPut,
			PathTransactions+"/"+id.String()+"?taskId=review&completeTask=true&formStepKey=personal-details",
			strings.NewReader(`{"data":{"firstName":"Bob"},"action":"approve","priority":"HIGH","assignedTo":"clerk1"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)

		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"status":"in-review"`))
		Expect(received.TaskID).To(Equal("review"))
		Expect(received.CompleteTask).To(BeTrue())
		Expect(received.FormStepKey).To(Equal("personal-details"))
		Expect(received.Action).To(Equal("approve"))
		Expect(*received.Priority).To(Equal(domain.PriorityHigh))
		Expect(*received.AssignedTo).To(Equal("clerk1"))
		Expect(received.Data).To(Equal(map[string]interface{}{"firstName": "Bob"}))
	})

	t.Run("should answer 400 for an invalid priority", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, PathTransactions+"/"+id.String(),
			strings.NewReader(`{"priority":"URGENT"}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should answer 400 for a malformed id or completeTask flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, PathTransactions+"/not-a-uuid", strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring("common.bad_param"))

		req = httptest.NewRequest(http.MethodPut, PathTransactions+"/"+id.String()+"?completeTask=maybe",
			strings.NewReader(`{}`))
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should map the error taxonomy onto statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{bizerror.ErrForbidden, http.StatusForbidden},
			{bizerror.ErrNotFound, http.StatusNotFound},
			{fmt.Errorf("%w: extra.field (schema case)", bizerror.ErrUnknownAttributePath), http.StatusUnprocessableEntity},
			{bizerror.ErrMissingTask, http.StatusFailedDependency},
			{bizerror.ErrMissingTransaction, http.StatusNotFound},
			{fmt.Errorf("%w: bad action", bizerror.ErrProvidedData), http.StatusBadRequest},
			{fmt.Errorf("%w: connection refused", bizerror.ErrUserVerification), http.StatusBadGateway},
		}

		for _, c := range cases {
			expectedErr := c.err
			transaction.UpdateTransactionFunc = func(txID uuid.UUID, u *transaction.TransactionUpdating, s *session.Session) (*domain.Transaction, error) {
				return nil, expectedErr
			}
			req := httptest.NewRequest(http.MethodPut, PathTransactions+"/"+id.String(), strings.NewReader(`{}`))
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(c.status))
		}
	})

	t.Run("should answer 502 with the verification message", func(t *testing.T) {
		transaction.UpdateTransactionFunc = func(txID uuid.UUID, u *transaction.TransactionUpdating, s *session.Session) (*domain.Transaction, error) {
			return nil, fmt.Errorf("%w: dial tcp: connection refused", bizerror.ErrUserVerification)
		}
		req := httptest.NewRequest(http.MethodPut, PathTransactions+"/"+id.String(), strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadGateway))
		Expect(body).To(MatchJSON(`{"code":"user.verification_failed","message":"Could not verify user existence","data":null}`))
	})

	t.Run("should answer 400 with the raw form violation items", func(t *testing.T) {
		transaction.UpdateTransactionFunc = func(txID uuid.UUID, u *transaction.TransactionUpdating, s *session.Session) (*domain.Transaction, error) {
			return nil, &bizerror.FormValidationError{Items: []bizerror.FormValidationItem{
				{ErrorName: "required", Field: "email"},
				{ErrorName: "pattern", Field: "child.document1"},
			}}
		}
		req := httptest.NewRequest(http.MethodPut, PathTransactions+"/"+id.String(), strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"form.validation_failed","message":"form validation failed",
			"data":[{"errorName":"required","field":"email"},{"errorName":"pattern","field":"child.document1"}]}`))
	})
}

func TestHandleCreateAndDetailTransaction(t *testing.T) {
	RegisterTestingT(t)
	router := setupTransactionsRouter()
	defer func() {
		transaction.CreateTransactionFunc = transaction.CreateTransaction
		transaction.DetailTransactionFunc = transaction.DetailTransaction
		transaction.QueryTransactionsFunc = transaction.QueryTransactions
	}()

	t.Run("should create a transaction from a definition key", func(t *testing.T) {
		id := uuid.New()
		transaction.CreateTransactionFunc = func(c *transaction.TransactionCreation, s *session.Session) (*domain.Transaction, error) {
			Expect(c.TransactionDefinitionKey).To(Equal("benefit"))
			return &domain.Transaction{ID: id, TransactionDefinitionKey: c.TransactionDefinitionKey, Status: "draft",
				Priority: domain.PriorityMedium, AdditionalParties: domain.RelatedParties{}, Documents: domain.CustomerDocuments{},
				Data: schema.DynamicEntity{SchemaKey: "case", Attributes: map[string]interface{}{}}}, nil
		}

		req := httptest.NewRequest(http.MethodPost, PathTransactions,
			strings.NewReader(`{"transactionDefinitionKey":"benefit"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(ContainSubstring(`"status":"draft"`))
	})

	t.Run("should answer 400 when the definition key is missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, PathTransactions, strings.NewReader(`{}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should answer the queried page", func(t *testing.T) {
		transaction.QueryTransactionsFunc = func(q *transaction.TransactionQuery, s *session.Session) ([]domain.Transaction, error) {
			Expect(q.Status).To(Equal("in-review"))
			return []domain.Transaction{}, nil
		}
		req := httptest.NewRequest(http.MethodGet, PathTransactions+"?status=in-review", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"data":[],"total":0}`))
	})

	t.Run("should answer detail or 404", func(t *testing.T) {
		id := uuid.New()
		transaction.DetailTransactionFunc = func(txID uuid.UUID, s *session.Session) (*domain.Transaction, error) {
			if txID == id {
				return &domain.Transaction{ID: txID, Status: "in-review", Priority: domain.PriorityMedium,
					AdditionalParties: domain.RelatedParties{}, Documents: domain.CustomerDocuments{},
					Data: schema.DynamicEntity{SchemaKey: "case", Attributes: map[string]interface{}{}}}, nil
			}
			return nil, bizerror.ErrNotFound
		}

		req := httptest.NewRequest(http.MethodGet, PathTransactions+"/"+id.String(), nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		req = httptest.NewRequest(http.MethodGet, PathTransactions+"/"+uuid.New().String(), nil)
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
	})
}
