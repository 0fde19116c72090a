package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "auth_principal"

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID   int64
	Username string
}

// RequireAuth validates the bearer token and sets the principal on the context.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		SetPrincipal(c, Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		c.Next()
	}
}

// SetPrincipal attaches the authenticated actor to the request context.
func SetPrincipal(c *gin.Context, principal Principal) {
	c.Set(principalKey, principal)
}

// CurrentUser returns the principal set by RequireAuth.
func CurrentUser(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
		"redirect": "login",
	})
}
