package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/service"
	resp "scicomp-hub/internal/transport/http/response"
)

// Auth resolves the bearer token through the guard, which re-reads the user
// row so deactivation and role changes bind immediately. A missing or
// malformed header is treated exactly like an invalid token.
func Auth(g *service.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthenticated"))
			return
		}
		u, err := g.Authenticate(c.Request.Context(), strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.FromError(err))
			return
		}
		c.Set("actor", u)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through. Public detail/listing routes use it so owners
// can see their own hidden competitions.
func OptionalAuth(g *service.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if u, err := g.Authenticate(c.Request.Context(), strings.TrimPrefix(ah, "Bearer ")); err == nil {
				c.Set("actor", u)
			}
		}
		c.Next()
	}
}

// RequireRole gates a group on the live role of the resolved actor.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		v, ok := c.Get("actor")
		u, _ := v.(*domain.User)
		if !ok || u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthenticated"))
			return
		}
		if !allowed[u.Role] {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}
