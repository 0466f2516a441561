package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles password-based authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	user, token, err := h.auth.Login(req.UserID, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials or role mismatch"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// GenerateOTP issues a one-time code for the given (userId, role) pair.
// The code is echoed in the response for demo purposes; production would
// deliver it out-of-band and never include it here.
func (h *AuthHandler) GenerateOTP(c *gin.Context) {
	var req models.OtpLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	code, err := h.auth.GenerateOTP(req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or role mismatch"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent successfully",
		"otp":     code,
	})
}

// VerifyOTP consumes a previously issued code and logs the user in.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.OtpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	user, token, err := h.auth.VerifyOTP(req.UserID, req.Code, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or role mismatch"})
		case errors.Is(err, services.ErrInvalidOTP):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired OTP"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	id, ok := userID.(int)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization required"})
		return
	}

	user, err := h.auth.GetUser(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
