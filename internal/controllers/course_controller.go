package controllers

import (
	"fmt"
	"net/http"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/repositories"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseController struct {
	courseRepo repositories.CourseRepository
}

func NewCourseController(courseRepo repositories.CourseRepository) *CourseController {
	return &CourseController{courseRepo: courseRepo}
}

type courseRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

// List returns all courses with their owners.
// GET /api/courses
func (cc *CourseController) List(c *gin.Context) {
	courses, err := cc.courseRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// Get returns one course.
// GET /api/courses/:id
func (cc *CourseController) Get(c *gin.Context) {
	course, ok := cc.findCourse(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, course)
}

// Create adds a new course owned by the authenticated teacher.
// POST /api/courses
func (cc *CourseController) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"Title and description are required."},
		})
		return
	}

	course := &models.Course{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
		UserID:          user.ID,
	}
	if err := cc.courseRepo.Create(course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.Header("Location", fmt.Sprintf("/api/courses/%s", course.ID))
	c.Status(http.StatusCreated)
}

// Update rewrites a course owned by the caller.
// PUT /api/courses/:id
func (cc *CourseController) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}

	course, found := cc.findCourse(c)
	if !found {
		return
	}
	if course.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this course."})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{"Title and description are required."},
		})
		return
	}

	course.Title = req.Title
	course.Description = req.Description
	course.EstimatedTime = req.EstimatedTime
	course.MaterialsNeeded = req.MaterialsNeeded

	if err := cc.courseRepo.Update(course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a course owned by the caller.
// DELETE /api/courses/:id
func (cc *CourseController) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session."})
		return
	}

	course, found := cc.findCourse(c)
	if !found {
		return
	}
	if course.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this course."})
		return
	}

	if err := cc.courseRepo.Delete(course.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CourseController) findCourse(c *gin.Context) (*models.Course, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found."})
		return nil, false
	}

	course, err := cc.courseRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return nil, false
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found."})
		return nil, false
	}
	return course, true
}
