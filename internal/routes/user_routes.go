package routes

import (
	"github.com/EeLin02/6005CEM--Security-Group4/internal/controllers"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(
	router *gin.RouterGroup,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	sessionMiddleware gin.HandlerFunc,
) {
	// Public endpoints
	// POST /api/users - Register a new account (returns 2FA enrollment)
	router.POST("", userController.Register)

	// POST /api/users/verify-2fa - Verify a TOTP code without a session
	router.POST("/verify-2fa", userController.Verify2FA)

	// POST /api/users/login-2fa - Complete login and issue the session cookie
	router.POST("/login-2fa", authController.LoginTOTP)

	// Protected endpoints (require a valid session)
	protected := router.Group("")
	protected.Use(sessionMiddleware)
	{
		// GET /api/users - Current account
		protected.GET("", userController.Me)

		// PUT /api/users - Update profile / change password
		protected.PUT("", userController.Update)

		// POST /api/users/totp/enroll - Replace the TOTP secret
		protected.POST("/totp/enroll", userController.EnrollTOTP)
	}
}
