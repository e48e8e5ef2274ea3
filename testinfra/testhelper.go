package testinfra

import (
	"caseflow/authority"
	"caseflow/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// BuildSession builds a security context for tests
func BuildSession(uid string, perms ...string) *session.Session {
	return &session.Session{
		Token:    "test-token-" + uid,
		Identity: session.Identity{ID: uid, Name: "user-" + uid},
		Perms:    authority.Permissions(perms),
	}
}

// SessionInjection is a middleware that puts a fixed session into every
// request, replacing SimpleAuthFilter in rest tests.
func SessionInjection(s *session.Session) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session.InjectSessionIntoGinContext(ctx, s)
		ctx.Next()
	}
}

// ExecuteRequest drives a request through the engine and drains the response.
func ExecuteRequest(req *http.Request, engine *gin.Engine) (int, string, *httptest.ResponseRecorder) {
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.Code, string(bodyBytes), resp
}
