package controllers

import (
	"errors"
	"net/http"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct {
	authService *services.AuthService
	tokens      *services.TokenService
}

func NewAuthController(authService *services.AuthService, tokens *services.TokenService) *AuthController {
	return &AuthController{
		authService: authService,
		tokens:      tokens,
	}
}

type loginRequest struct {
	Email    string `json:"emailAddress" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type totpLoginRequest struct {
	UserID string `json:"userId" binding:"required"`
	Code   string `json:"token"`
}

// Login handles the primary-credential step.
// POST /api/auth/login
//
// Accounts with an enrolled second factor get an intermediate response and
// no session; the client must follow up on the 2FA endpoint.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"Email address and password are required."},
		})
		return
	}

	user, totpRequired, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if totpRequired {
		c.JSON(http.StatusOK, gin.H{
			"twoFactorRequired": true,
			"userId":            user.ID,
			"message":           "Please provide your 2FA code to complete login.",
		})
		return
	}

	ac.issueSession(c, user, false)
}

// LoginTOTP completes login for accounts with an enrolled second factor
// and issues the session cookie.
// POST /api/users/login-2fa
func (ac *AuthController) LoginTOTP(c *gin.Context) {
	var req totpLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"User id is required."},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentialsMessage})
		return
	}

	user, err := ac.authService.CompleteLogin(userID, req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	ac.issueSession(c, user, true)
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "User logged out successfully",
	})
}

func (ac *AuthController) issueSession(c *gin.Context, user *models.User, twoFactorSatisfied bool) {
	token, err := ac.tokens.Issue(user, twoFactorSatisfied)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	maxAge := int(ac.tokens.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"message": "Login successful - session saved in secure HttpOnly cookie",
	})
}

const invalidCredentialsMessage = "Invalid email or password."

// respondAuthError maps the internal error taxonomy to its external
// representation. Distinct internal causes that must stay indistinguishable
// share one message here.
func respondAuthError(c *gin.Context, err error) {
	var locked *services.AccountLockedError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &locked):
		c.JSON(http.StatusForbidden, gin.H{
			"message":          "Your account is temporarily locked.",
			"unlockTime":       locked.UnlockAt,
			"remainingMinutes": locked.RemainingMinutes,
		})
	case errors.Is(err, services.ErrSecondFactorRequired):
		c.JSON(http.StatusOK, gin.H{
			"twoFactorRequired": true,
			"message":           "Please provide your 2FA code to complete login.",
		})
	case errors.Is(err, services.ErrInvalidSecondFactor):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid 2FA token."})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentialsMessage})
	case errors.Is(err, services.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Errors})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
