package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"startuphub/api/errs"
	"startuphub/models"
	"startuphub/services"
)

const (
	CookieName = "auth_token"
	userKey    = "user"
)

// Auth requires a valid session token from a bearer header or the auth cookie and
// loads the current user into the context. The header wins when both are sent.
func Auth(tokens *services.TokenIssuer, users *services.UserCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := sessionToken(c)
		if !ok {
			c.Error(errs.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		user, err := users.Load(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
		return parts[1], true
	}
	tokenStr, err := c.Cookie(CookieName)
	return tokenStr, err == nil && tokenStr != ""
}

// RequireRole lets the request through only for users holding one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Error(errs.ErrUnauthorized)
			c.Abort()
			return
		}
		if !slices.Contains(roles, user.Role) {
			c.Error(errs.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside Auth.
func CurrentUser(c *gin.Context) *services.CachedUser {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*services.CachedUser)
	return u
}

// SetUser stores u as the authenticated user.
func SetUser(c *gin.Context, u *services.CachedUser) {
	c.Set(userKey, u)
}
