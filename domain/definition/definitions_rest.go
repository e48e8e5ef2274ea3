package definition

import (
	"caseflow/bizerror"
	"caseflow/domain"
	"caseflow/misc"
	"caseflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterTransactionDefinitionsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/transaction-definitions", middleWares...)
	g.GET("", handleQuery)
	g.POST("", handleCreate)
}

func handleCreate(c *gin.Context) {
	creation := domain.TransactionDefinition{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	created, err := CreateTransactionDefinitionFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}

func handleQuery(c *gin.Context) {
	definitions, err := QueryTransactionDefinitionsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: definitions, Total: uint64(len(definitions))})
}
