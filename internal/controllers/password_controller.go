package controllers

import (
	"net/http"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
)

type PasswordController struct {
	resetService *services.PasswordResetService
}

func NewPasswordController(resetService *services.PasswordResetService) *PasswordController {
	return &PasswordController{resetService: resetService}
}

type forgotRequest struct {
	Email string `json:"emailAddress" binding:"required,email"`
}

type resetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Forgot starts the reset flow. The response is identical whether or not
// the email matches an account.
// POST /api/password/forgot
func (pc *PasswordController) Forgot(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := pc.resetService.Request(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process reset request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If that email exists, a reset link has been generated.",
	})
}

// Reset redeems a token and sets the new password.
// POST /api/password/reset
func (pc *PasswordController) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and newPassword required"})
		return
	}

	if err := pc.resetService.Redeem(req.Token, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
