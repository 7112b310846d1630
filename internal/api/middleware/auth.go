package middleware

import (
	"net/http"
	"strings"

	"cennik/internal/auth"
	"cennik/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	// AuthCookie is the cookie the back office stores the token in.
	AuthCookie = "auth_token"
	// UserKey holds the authenticated *auth.User in the gin context.
	UserKey = "user"
)

// RequireAdmin rejects requests without a valid admin token, taken from the
// Authorization header or the auth cookie.
func RequireAdmin(svc *auth.Service, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := svc.Authenticate(token)
		if err != nil {
			logger.Debug("Rejected token for %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the user set by RequireAdmin, if any.
func CurrentUser(c *gin.Context) *auth.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*auth.User); ok {
			return u
		}
	}
	return nil
}
