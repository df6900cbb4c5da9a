package middlewares

import (
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// ResolveIdentity stores the requester fingerprint in the context. Which
// headers are believed is decided by the engine's TrustedPlatform and trusted
// proxy list (see router.Setup).
func ResolveIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		if ip == "" {
			ip = services.UnknownIdentity
		}
		ctx.Set(identityKey, ip)
		ctx.Next()
	}
}

func Identity(ctx *gin.Context) string {
	if v := ctx.GetString(identityKey); v != "" {
		return v
	}
	return services.UnknownIdentity
}

// ConfigureClientIP makes the trust chain explicit: platformHeader (e.g.
// X-Real-IP set by the hosting platform) wins when present; forwarded headers
// are only read when the direct peer is one of trustedProxies, walking right
// to left until the first untrusted hop.
func ConfigureClientIP(r *gin.Engine, platformHeader string, trustedProxies []string) error {
	r.TrustedPlatform = platformHeader
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	return r.SetTrustedProxies(trustedProxies)
}
