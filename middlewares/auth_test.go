package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminEngine(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/admin", RequireAdmin(auth), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, AdminName(ctx))
	})
	return r
}

func doAdmin(r http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBasicAuthenticator(t *testing.T) {
	r := adminEngine(BasicAuthenticator{Username: "admin", Password: "pw"})

	w := doAdmin(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="Secure Area"`, w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())

	w = doAdmin(r, func(req *http.Request) { req.SetBasicAuth("admin", "wrong") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAdmin(r, func(req *http.Request) { req.SetBasicAuth("admin", "pw") })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestBasicAuthenticatorWithHash(t *testing.T) {
	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	r := adminEngine(BasicAuthenticator{Username: "admin", PasswordHash: hash, Password: "ignored"})

	w := doAdmin(r, func(req *http.Request) { req.SetBasicAuth("admin", "pw") })
	assert.Equal(t, http.StatusOK, w.Code)

	w = doAdmin(r, func(req *http.Request) { req.SetBasicAuth("admin", "ignored") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnconfiguredBasicAuthenticatorRejectsEverything(t *testing.T) {
	r := adminEngine(BasicAuthenticator{})
	w := doAdmin(r, func(req *http.Request) { req.SetBasicAuth("", "") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAndAnyAuthenticator(t *testing.T) {
	jwtAuth := JWTAuthenticator{Secret: "s3cret", TTL: time.Hour}
	r := adminEngine(AnyAuthenticator{BasicAuthenticator{Username: "admin", Password: "pw"}, jwtAuth})

	token, _, err := jwtAuth.Issue("admin")
	require.NoError(t, err)

	w := doAdmin(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	w = doAdmin(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAdmin(r, func(req *http.Request) { req.SetBasicAuth("admin", "pw") })
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
}
