package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/ranznz/wage-survey/internal/auth"
	"github.com/ranznz/wage-survey/pkg/errors"
	"github.com/ranznz/wage-survey/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxEmailKey  = "authEmail"
)

// Auth enforces JWT authentication and blocks subjects whose forced
// password change is still pending. This is the gate for every protected
// operation except the password change itself.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return authenticate(jwt, false)
}

// AuthAllowPendingPassword verifies signature and expiry only. It exists
// solely for the change-password endpoint, which must remain reachable
// while the forced-change flag is set.
func AuthAllowPendingPassword(jwt *iauth.JWTService) gin.HandlerFunc {
	return authenticate(jwt, true)
}

func authenticate(jwt *iauth.JWTService, allowPendingPassword bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.Verify(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrTokenInvalid)
			c.Abort()
			return
		}

		if claims.MustChangePassword && !allowPendingPassword {
			response.Error(c, errors.ErrPasswordChangeRequired)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxEmailKey, claims.Email)

		c.Next()
	}
}
