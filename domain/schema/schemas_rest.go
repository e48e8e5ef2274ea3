package schema

import (
	"caseflow/bizerror"
	"caseflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterSchemasRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/schemas", middleWares...)
	g.POST("", handleCreateSchema)
	g.GET(":key", handleDetailSchema)
}

func handleCreateSchema(c *gin.Context) {
	creation := Schema{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	created, err := CreateSchemaFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}

func handleDetailSchema(c *gin.Context) {
	s, err := GetSchemaByKeyFunc(c.Param("key"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, s)
}
