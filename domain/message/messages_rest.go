package message

import (
	"caseflow/bizerror"
	"caseflow/misc"
	"caseflow/session"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

func RegisterMessagesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/transactions/:id/messages", middleWares...)
	g.GET("", handleList)
	g.POST("", handlePost)
}

func handlePost(c *gin.Context) {
	transactionID := parseTransactionId(c)

	posting := MessagePosting{}
	if err := c.ShouldBindBodyWith(&posting, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	m, err := PostMessageFunc(transactionID, &posting, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, m)
}

func handleList(c *gin.Context) {
	transactionID := parseTransactionId(c)

	messages, err := ListMessagesFunc(transactionID, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: messages, Total: uint64(len(messages))})
}

func parseTransactionId(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
