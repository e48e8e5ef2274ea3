package form

import (
	"caseflow/bizerror"
	"caseflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterFormConfigurationsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/form-configurations", middleWares...)
	g.POST("", handleCreateFormConfiguration)
}

func handleCreateFormConfiguration(c *gin.Context) {
	creation := FormConfiguration{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	created, err := CreateFormConfigurationFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}
