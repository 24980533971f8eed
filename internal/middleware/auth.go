package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/auth"
)

// AccessTokenCookie carries the JWT for browser sessions.
const AccessTokenCookie = "access_token"

const userIDKey = "userID"

// tokenFromRequest prefers a Bearer header and falls back to the cookie.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	tok, _ := c.Cookie(AccessTokenCookie)
	return tok
}

// OptionalAuth identifies the visitor when a valid token is presented and lets
// anonymous visitors through. The storefront is usable without an account.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := tokenFromRequest(c); tok != "" {
			if userID, err := tokens.ValidateToken(tok); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get the token ---
		tok := tokenFromRequest(c)
		if tok == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		// 2. --- Validate Token ---
		userID, err := tokens.ValidateToken(tok)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Success ---
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
