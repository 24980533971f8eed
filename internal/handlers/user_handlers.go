package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/middleware"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/store"
)

// --- User Login ---

// LoginInput defines the data expected for a login.
type LoginInput struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login is the handler for POST /login
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate ---
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}

	// 2. --- Find User By Email ---
	user, err := h.Users.UserByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		h.serverError(c, "Database error", err)
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been disabled. Please contact support."})
		return
	}

	// 3. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		h.serverError(c, "Failed to check password", err)
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 4. --- Generate JWT ---
	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		h.serverError(c, "Failed to generate token", err)
		return
	}

	// 5. --- Send Success Response ---
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(h.Tokens.TTL().Seconds()), "/", "", h.SecureCookies, true)
	h.Log.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"isStaff":  user.IsStaff,
		},
	})
}

// Logout is the handler for POST /logout
func (h *Handlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
