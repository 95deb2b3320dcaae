package routes

import (
	"github.com/EeLin02/6005CEM--Security-Group4/internal/controllers"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterCourseRoutes(
	router *gin.RouterGroup,
	courseController *controllers.CourseController,
	sessionMiddleware gin.HandlerFunc,
) {
	// Public read endpoints
	router.GET("", courseController.List)
	router.GET("/:id", courseController.Get)

	// Mutations require a session and the teacher role
	protected := router.Group("")
	protected.Use(sessionMiddleware, middleware.TeacherOnly())
	{
		protected.POST("", courseController.Create)
		protected.PUT("/:id", courseController.Update)
		protected.DELETE("/:id", courseController.Delete)
	}
}
