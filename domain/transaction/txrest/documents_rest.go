package txrest

import (
	"caseflow/bizerror"
	"caseflow/domain/transaction"
	"caseflow/session"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterTransactionDocumentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/transactions/:id/documents", middleWares...)
	g.POST("", handleUploadDocument)
	g.GET(":documentId", handleDownloadDocument)
}

func handleUploadDocument(c *gin.Context) {
	id := parseTransactionId(c)

	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	content, err := file.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer content.Close()

	doc, err := transaction.UploadCustomerDocumentFunc(id, file.Filename, content, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, doc)
}

func handleDownloadDocument(c *gin.Context) {
	id := parseTransactionId(c)

	reader, err := transaction.DownloadCustomerDocumentFunc(id, c.Param("documentId"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/octet-stream")
	_, _ = io.Copy(c.Writer, reader)
}
