package routes

import (
	"github.com/EeLin02/6005CEM--Security-Group4/internal/controllers"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all application routes.
func SetupRoutes(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	passwordController *controllers.PasswordController,
	sessionMiddleware gin.HandlerFunc,
) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", authController.Logout)
	}

	usersGroup := api.Group("/users")
	RegisterUserRoutes(usersGroup, authController, userController, sessionMiddleware)

	coursesGroup := api.Group("/courses")
	RegisterCourseRoutes(coursesGroup, courseController, sessionMiddleware)

	passwordGroup := api.Group("/password")
	{
		passwordGroup.POST("/forgot", passwordController.Forgot)
		passwordGroup.POST("/reset", passwordController.Reset)
	}
}
