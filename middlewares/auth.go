package middlewares

import (
	"net/http"
	"strings"
	"time"

	"portfolio/utils"

	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// Authenticator decides whether a request carries admin credentials and
// returns the admin's name.
type Authenticator interface {
	Authenticate(r *http.Request) (string, bool)
}

// BasicAuthenticator checks HTTP basic credentials against a single static
// account. PasswordHash (bcrypt) takes precedence over Password.
type BasicAuthenticator struct {
	Username     string
	Password     string
	PasswordHash string
}

func (a BasicAuthenticator) Authenticate(r *http.Request) (string, bool) {
	if a.Username == "" || (a.Password == "" && a.PasswordHash == "") {
		return "", false
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return "", false
	}

	userOK := utils.EqualConstantTime(user, a.Username)
	var passOK bool
	if a.PasswordHash != "" {
		passOK = utils.CheckPassword(pass, a.PasswordHash)
	} else {
		passOK = utils.EqualConstantTime(pass, a.Password)
	}
	if !userOK || !passOK {
		return "", false
	}
	return user, true
}

// JWTAuthenticator accepts "Authorization: Bearer <token>" signed with Secret.
type JWTAuthenticator struct {
	Secret string
	TTL    time.Duration
}

func (a JWTAuthenticator) Authenticate(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(h, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	sub, err := utils.ParseJWT(a.Secret, token)
	if err != nil {
		return "", false
	}
	return sub, true
}

func (a JWTAuthenticator) Issue(subject string) (string, time.Time, error) {
	return utils.GenerateJWT(a.Secret, subject, a.TTL)
}

// AnyAuthenticator succeeds with the first authenticator that accepts the request.
type AnyAuthenticator []Authenticator

func (as AnyAuthenticator) Authenticate(r *http.Request) (string, bool) {
	for _, a := range as {
		if name, ok := a.Authenticate(r); ok {
			return name, true
		}
	}
	return "", false
}

func RequireAdmin(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Cache-Control", "no-store")

		name, ok := auth.Authenticate(ctx.Request)
		if !ok {
			ctx.Header("WWW-Authenticate", `Basic realm="Secure Area"`)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		ctx.Set(adminKey, name)
		ctx.Next()
	}
}

func AdminName(ctx *gin.Context) string {
	return ctx.GetString(adminKey)
}
