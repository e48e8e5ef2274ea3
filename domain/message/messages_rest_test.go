package message

import (
	"caseflow/bizerror"
	"caseflow/session"
	"caseflow/testinfra"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func setupMessagesRouter() *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	RegisterMessagesRestAPI(router)
	return router
}

func TestHandlePostMessage(t *testing.T) {
	RegisterTestingT(t)
	router := setupMessagesRouter()
	defer func() { PostMessageFunc = PostMessage }()

	id := uuid.New()

	t.Run("should create a message", func(t *testing.T) {
		PostMessageFunc = func(transactionID uuid.UUID, p *MessagePosting, s *session.Session) (*Message, error) {
			Expect(transactionID).To(Equal(id))
			return &Message{ID: types.ID(10), TransactionID: transactionID.String(), Body: p.Body}, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/transactions/"+id.String()+"/messages",
			strings.NewReader(`{"body":"any update on my case?"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(ContainSubstring("any update on my case?"))
	})

	t.Run("should answer 429 when the sender is rate limited", func(t *testing.T) {
		PostMessageFunc = func(transactionID uuid.UUID, p *MessagePosting, s *session.Session) (*Message, error) {
			return nil, bizerror.ErrTooManyRequests
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/transactions/"+id.String()+"/messages",
			strings.NewReader(`{"body":"again"}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusTooManyRequests))
	})

	t.Run("should answer 400 for an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/transactions/"+id.String()+"/messages",
			strings.NewReader(`{}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
}

func TestHandleListMessages(t *testing.T) {
	RegisterTestingT(t)
	router := setupMessagesRouter()
	defer func() { ListMessagesFunc = ListMessages }()

	id := uuid.New()

	t.Run("should answer the message page", func(t *testing.T) {
		ListMessagesFunc = func(transactionID uuid.UUID, s *session.Session) ([]Message, error) {
			return []Message{{ID: types.ID(10), TransactionID: transactionID.String(), Body: "hello"}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/transactions/"+id.String()+"/messages", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"total":1`))
	})

	t.Run("should gate listing on view authorization", func(t *testing.T) {
		ListMessagesFunc = func(transactionID uuid.UUID, s *session.Session) ([]Message, error) {
			return nil, bizerror.ErrForbidden
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/transactions/"+id.String()+"/messages", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
	})
}

func TestSenderLimiter(t *testing.T) {
	RegisterTestingT(t)

	t.Run("a sender exhausts the burst and is then limited", func(t *testing.T) {
		limiter := senderLimiter("burst-sender")
		for i := 0; i < messagesPerBurst; i++ {
			Expect(limiter.Allow()).To(BeTrue())
		}
		Expect(limiter.Allow()).To(BeFalse())
	})

	t.Run("limiters are held per sender", func(t *testing.T) {
		first := senderLimiter("sender-a")
		Expect(senderLimiter("sender-a")).To(BeIdenticalTo(first))
		Expect(senderLimiter("sender-b")).ToNot(BeIdenticalTo(first))
	})
}
