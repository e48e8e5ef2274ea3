package servehttp

import (
	"caseflow/bizerror"
	"caseflow/common"
	"caseflow/domain/definition"
	"caseflow/domain/form"
	"caseflow/domain/message"
	"caseflow/domain/schema"
	"caseflow/domain/transaction/txrest"
	"caseflow/indices"
	"caseflow/infra/tracing"
	"caseflow/session"
	"caseflow/sessions"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// BuildHTTPEngine assembles the gin engine with all middlewares and routes.
func BuildHTTPEngine() *gin.Engine {
	engine := gin.Default()
	engine.Use(tracing.TracingIngress())
	engine.Use(bizerror.ErrorHandling())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsHandler(engine)

	txrest.RegisterTransactionsRestAPI(engine, session.SimpleAuthFilter())
	txrest.RegisterTransactionDocumentsRestAPI(engine, session.SimpleAuthFilter())
	definition.RegisterTransactionDefinitionsRestAPI(engine, session.SimpleAuthFilter())
	schema.RegisterSchemasRestAPI(engine, session.SimpleAuthFilter())
	form.RegisterFormConfigurationsRestAPI(engine, session.SimpleAuthFilter())
	message.RegisterMessagesRestAPI(engine, session.SimpleAuthFilter())
	indices.RegisterIndicesRestAPI(engine, session.SimpleAuthFilter())

	return engine
}

func StartHTTPServer(engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// will call os.Exit(1)
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[QUIT] shutdown signal has been received, the service will exit in 3 seconds.")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// graceful shutdown http.Server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[QUIT] http server shutdown failed: %v\n", err)
	}
	log.Println("[QUIT] http server is shutdown gracefully, new request will be rejected.")

	<-ctx.Done()
	log.Println("[QUIT] service exiting")
}
