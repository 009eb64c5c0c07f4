package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/pkg/auth"
	"github.com/swasthyaid/health-api/pkg/httputil"
)

const contextPrincipal = "principal"

type AuthMiddleware struct {
	jwtSvc auth.JWTService
}

func NewAuthMiddleware(jwtSvc auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate verifies the bearer token and stores the principal in the
// request context. The principal, not any server-side session, is the sole
// carrier of identity.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		principal, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(contextPrincipal, principal)
		c.Next()
	}
}

// RequireDoctor rejects authenticated non-doctor principals. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if principal.Type != auth.PrincipalDoctor {
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.Response{
				Status:  "error",
				Message: "doctor credentials required",
			})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal set by
// Authenticate.
func PrincipalFromContext(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(contextPrincipal)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*auth.Principal)
	return principal, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
		Status:  "error",
		Message: message,
	})
}
