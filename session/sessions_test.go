package session

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/patrickmn/go-cache"
)

func TestSimpleAuthFilter(t *testing.T) {
	RegisterTestingT(t)

	var observed *Session
	router := gin.Default()
	router.Use(bizerror.ErrorHandling(), SimpleAuthFilter())
	router.GET("/secured", func(c *gin.Context) {
		observed = ExtractSessionFromGinContext(c)
		c.Status(http.StatusOK)
	})

	invoke := func(cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodGet, "/secured", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		_, _ = ioutil.ReadAll(resp.Body)
		return resp.Code
	}

	t.Run("missing or unknown token is unauthenticated", func(t *testing.T) {
		Expect(invoke(nil)).To(Equal(http.StatusUnauthorized))
		Expect(invoke(&http.Cookie{Name: KeySecToken, Value: "stale"})).To(Equal(http.StatusUnauthorized))
	})

	t.Run("a cached token hydrates the session", func(t *testing.T) {
		TokenCache.Set("token-1", &Session{
			Token:    "token-1",
			Identity: Identity{ID: "user1", Name: "Alice"},
			Perms:    authority.Permissions{"transaction:view"},
		}, cache.DefaultExpiration)
		defer TokenCache.Delete("token-1")

		Expect(invoke(&http.Cookie{Name: KeySecToken, Value: "token-1"})).To(Equal(http.StatusOK))
		Expect(observed.Identity.ID).To(Equal("user1"))
		Expect(observed.Perms).To(Equal(authority.Permissions{"transaction:view"}))
		Expect(observed.Context).ToNot(BeNil())
	})
}

func TestExtractSessionFromGinContext(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should answer an anonymous session when nothing was injected", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		s := ExtractSessionFromGinContext(c)
		Expect(s.Token).To(BeEmpty())
		Expect(s.Identity.ID).To(BeEmpty())
		Expect(s.Context).ToNot(BeNil())
	})

	t.Run("should clone the injected session so callers cannot poison the cache", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		cached := &Session{Token: "token-1", Identity: Identity{ID: "user1"}, Perms: authority.Permissions{"a"}}
		InjectSessionIntoGinContext(c, cached)

		s := ExtractSessionFromGinContext(c)
		s.Perms[0] = "mutated"
		Expect(cached.Perms[0]).To(Equal("a"))
	})
}
