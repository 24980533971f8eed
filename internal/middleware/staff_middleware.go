package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/store"
)

const userKey = "user"

// UserLookup loads an account by id.
type UserLookup interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// StaffMiddleware must run after AuthMiddleware. It loads the user and requires
// the staff flag.
func StaffMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get userID from AuthMiddleware
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}

		// 2. Load the user
		user, err := users.UserByID(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}

		// 3. Check permission
		if !user.IsActive || !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: staff account required"})
			c.Abort()
			return
		}

		// 4. Success! Add user to context and proceed.
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by StaffMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
