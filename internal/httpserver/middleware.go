package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"webshop-api/internal/domain"
	usersvc "webshop-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

const userCtxKey = "authUser"

type authLookup interface {
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
}

// authMiddleware resolves the bearer token into a user and stores it on
// the gin context. Requests without a valid token are rejected.
func authMiddleware(users authLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usersvc.ErrBlocked):
				respondError(c, http.StatusForbidden, "account is blocked")
			case errors.Is(err, usersvc.ErrInvalidToken):
				respondError(c, http.StatusUnauthorized, "invalid token")
			default:
				respondError(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

// adminMiddleware runs after authMiddleware and requires the admin role.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || u.Role != domain.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
