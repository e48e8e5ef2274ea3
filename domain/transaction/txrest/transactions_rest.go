package txrest

import (
	"caseflow/bizerror"
	"caseflow/domain/transaction"
	"caseflow/misc"
	"caseflow/session"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

var (
	PathTransactions = "/v1/transactions"
)

func RegisterTransactionsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathTransactions, middleWares...)
	g.GET("", handleQuery)
	g.POST("", handleCreate)
	g.GET(":id", handleDetail)
	g.PUT(":id", handleUpdate)
}

func handleCreate(c *gin.Context) {
	creation := transaction.TransactionCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := transaction.CreateTransactionFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleQuery(c *gin.Context) {
	query := transaction.TransactionQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	transactions, err := transaction.QueryTransactionsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: transactions, Total: uint64(len(transactions))})
}

func handleDetail(c *gin.Context) {
	id := parseTransactionId(c)
	detail, err := transaction.DetailTransactionFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleUpdate(c *gin.Context) {
	id := parseTransactionId(c)

	updating := transaction.TransactionUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updating.TaskID = c.Query("taskId")
	updating.FormStepKey = c.Query("formStepKey")
	if raw := c.Query("completeTask"); raw != "" {
		completeTask, err := strconv.ParseBool(raw)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: errors.New("invalid completeTask '" + raw + "'")})
		}
		updating.CompleteTask = completeTask
	}

	updated, err := transaction.UpdateTransactionFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func parseTransactionId(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
