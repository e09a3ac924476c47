package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID   uint
	Username string
	Role     models.Role
}

// TokenValidator is an interface for validating JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// Context keys populated by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole allows only callers holding one of the given roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			c.Abort()
			return
		}
		actor, ok := role.(models.Role)
		if ok {
			for _, r := range roles {
				if actor == r {
					c.Next()
					return
				}
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
		c.Abort()
	}
}

// Caller extracts the authenticated identity from the request context.
func Caller(c *gin.Context) (TokenClaims, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return TokenClaims{}, false
	}
	username, _ := c.Get(ContextUsername)
	role, _ := c.Get(ContextRole)

	claims := TokenClaims{}
	if id, ok := userID.(uint); ok {
		claims.UserID = id
	} else {
		return TokenClaims{}, false
	}
	if name, ok := username.(string); ok {
		claims.Username = name
	}
	if r, ok := role.(models.Role); ok {
		claims.Role = r
	}
	return claims, true
}
