package controllers

import (
	"net/http"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	authService *services.AuthService
}

func NewUserController(authService *services.AuthService) *UserController {
	return &UserController{authService: authService}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"emailAddress"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type verify2FARequest struct {
	UserID string `json:"userId" binding:"required"`
	Code   string `json:"token" binding:"required"`
}

type updateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Password    string  `json:"password"`
	OldPassword string  `json:"oldPassword"`
}

// Register creates a new account. The TOTP secret and QR code are returned
// exactly once so the owner can enroll an authenticator app.
// POST /api/users
func (uc *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"Request body could not be parsed."},
		})
		return
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleStudent
	}

	user, enrollment, err := uc.authService.Register(services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "User created successfully. Please scan the QR code to set up 2FA.",
		"userId":    user.ID,
		"secret":    enrollment.Secret,
		"qrCodeUrl": enrollment.QRCode,
	})
}

// Me returns the authenticated account.
// GET /api/users
func (uc *UserController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update modifies profile fields. A password change requires the old
// password to be re-verified first.
// PUT /api/users
func (uc *UserController) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"Request body could not be parsed."},
		})
		return
	}

	if req.Password != "" {
		if req.OldPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Old password is required to change your password.",
			})
			return
		}
		err := uc.authService.ChangePassword(user.ID, services.ChangePasswordInput{
			OldPassword: req.OldPassword,
			NewPassword: req.Password,
		})
		if err != nil {
			respondAuthError(c, err)
			return
		}
	}

	if req.FirstName != nil || req.LastName != nil {
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if err := uc.authService.UpdateProfile(user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// Verify2FA checks a TOTP code without issuing a session.
// POST /api/users/verify-2fa
func (uc *UserController) Verify2FA(c *gin.Context) {
	var req verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"User id and token are required."},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentialsMessage})
		return
	}

	if err := uc.authService.VerifyCode(userID, req.Code); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA verification successful."})
}

// EnrollTOTP replaces the account's secret and returns the new enrollment
// material.
// POST /api/users/totp/enroll
func (uc *UserController) EnrollTOTP(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}

	enrollment, err := uc.authService.EnrollTOTP(user.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":          enrollment.Secret,
		"provisioningUri": enrollment.ProvisioningURI,
		"qrCodeUrl":       enrollment.QRCode,
	})
}
