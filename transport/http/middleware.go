package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/ports"
)

// Context keys under which the middleware stores the validated claims.
const (
	ContextSubjectKey = "userID"
	ContextAddressKey = "userAddress"
)

// AuthMiddleware creates middleware that validates bearer tokens. The check
// is purely local: tokens stay valid until natural expiry even if the
// identity's nonce has since rotated.
func AuthMiddleware(tokenizer ports.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")

		claims, err := tokenizer.Validate(token)
		if err != nil {
			if errors.Is(err, core.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token not valid"})
			}
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)
		c.Set(ContextAddressKey, claims.Address.String())

		c.Next()
	}
}
